// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/tabula/internal/frame"
)

// Kind identifies a file format.
type Kind int

const (
	KindUnknown Kind = iota
	KindCSV
	KindNDJSON
	KindParquet
	KindArrow
	KindSQLite
)

func (k Kind) String() string {
	switch k {
	case KindCSV:
		return "csv"
	case KindNDJSON:
		return "ndjson"
	case KindParquet:
		return "parquet"
	case KindArrow:
		return "arrow"
	case KindSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// Options configure how files are parsed.
type Options struct {
	// Delimiter overrides delimiter inference for delimited text. Zero infers.
	Delimiter rune

	// NoHeader treats the first record as data and names columns column_N.
	NoHeader bool

	// SampleRows is the number of records used for type inference.
	SampleRows int

	// Table selects a SQLite table. Empty picks the first user table.
	Table string

	// BatchRows sizes Parquet record batches.
	BatchRows int
}

// DefaultOptions returns the stock parse options.
func DefaultOptions() Options {
	return Options{SampleRows: 1000, BatchRows: 1024}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SampleRows <= 0 {
		o.SampleRows = d.SampleRows
	}
	if o.BatchRows <= 0 {
		o.BatchRows = d.BatchRows
	}
	return o
}

// Detect picks a Kind from the file extension, ignoring a compression suffix.
func Detect(path string) Kind {
	_, base := splitCodec(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".csv", ".tsv", ".tab", ".txt", ".psv":
		return KindCSV
	case ".json", ".ndjson", ".jsonl":
		return KindNDJSON
	case ".parquet", ".pq":
		return KindParquet
	case ".arrow", ".feather", ".ipc", ".arrows":
		return KindArrow
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	}
	return KindUnknown
}

// Resolve reports whether arg names a dataset on disk. A SQLite file may be
// suffixed with ":table". Anything that does not resolve is a query.
func Resolve(arg string) (path, table string, ok bool) {
	if fileExists(arg) {
		return arg, "", true
	}
	if i := strings.LastIndex(arg, ":"); i > 0 {
		p := arg[:i]
		if Detect(p) == KindSQLite && fileExists(p) {
			return p, arg[i+1:], true
		}
	}
	return "", "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Open returns an Opener for the file at path. The file is not touched until
// the Opener runs.
func Open(path string, opts Options) (frame.Opener, error) {
	opts = opts.withDefaults()
	kind := Detect(path)
	codec, _ := splitCodec(path)
	if codec != codecNone && (kind == KindParquet || kind == KindSQLite || kind == KindArrow) {
		return nil, fmt.Errorf("%s: compressed %s is not supported: %w", path, kind, ErrUnsupportedFormat)
	}

	switch kind {
	case KindCSV:
		return func(ctx context.Context) (frame.DataSource, error) {
			return OpenCSV(path, opts)
		}, nil
	case KindNDJSON:
		return func(ctx context.Context) (frame.DataSource, error) {
			return OpenNDJSON(path, opts)
		}, nil
	case KindParquet:
		return func(ctx context.Context) (frame.DataSource, error) {
			return OpenParquet(ctx, path, opts)
		}, nil
	case KindArrow:
		return func(ctx context.Context) (frame.DataSource, error) {
			return OpenArrow(path)
		}, nil
	case KindSQLite:
		return func(ctx context.Context) (frame.DataSource, error) {
			return OpenSQLite(ctx, path, opts.Table)
		}, nil
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}
