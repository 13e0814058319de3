// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jeranaias/tabula/internal/frame"
)

// delimiterCandidates are tried in order; ties go to the earlier one.
var delimiterCandidates = []rune{',', '\t', ';', '|', ':'}

// InferDelimiter picks the candidate that occurs most often in line outside
// double quotes. It returns ',' when none occurs.
func InferDelimiter(line string) rune {
	counts := make(map[rune]int, len(delimiterCandidates))
	quoted := false
	for _, r := range line {
		if r == '"' {
			quoted = !quoted
			continue
		}
		if !quoted {
			counts[r]++
		}
	}
	best, bestN := ',', 0
	for _, c := range delimiterCandidates {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best
}

// csvReader converts records to typed rows. Records read ahead for type
// inference are replayed first.
type csvReader struct {
	cr      *csv.Reader
	rc      io.Closer
	types   []frame.Type
	pending [][]string
}

func (r *csvReader) Read() (frame.Row, error) {
	var rec []string
	if len(r.pending) > 0 {
		rec, r.pending = r.pending[0], r.pending[1:]
	} else {
		var err error
		rec, err = r.cr.Read()
		if err != nil {
			return nil, err
		}
	}
	row := make(frame.Row, len(r.types))
	for i, t := range r.types {
		if i < len(rec) {
			row[i] = frame.Parse(rec[i], t)
		} else {
			row[i] = frame.NullValue(t)
		}
	}
	return row, nil
}

func (r *csvReader) Close() error { return r.rc.Close() }

// csvFile holds everything needed to reopen a delimited file at its first
// data record.
type csvFile struct {
	path  string
	delim rune
	opts  Options
}

// open returns a csv.Reader positioned after the header, plus the header.
func (f *csvFile) open() (*csv.Reader, io.Closer, []string, error) {
	rc, err := openText(f.path)
	if err != nil {
		return nil, nil, nil, err
	}
	br := bufio.NewReader(rc)
	if f.delim == 0 {
		first, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			rc.Close()
			return nil, nil, nil, err
		}
		f.delim = InferDelimiter(first)
		br = bufio.NewReader(io.MultiReader(strings.NewReader(first), br))
	}

	cr := csv.NewReader(br)
	cr.Comma = f.delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if f.opts.NoHeader {
		return cr, rc, nil, nil
	}
	header, err := cr.Read()
	if err != nil {
		rc.Close()
		if errors.Is(err, io.EOF) {
			return nil, nil, nil, ErrEmptyInput
		}
		return nil, nil, nil, err
	}
	return cr, rc, header, nil
}

// OpenCSV opens a delimited text file, inferring the delimiter from the first
// line unless opts.Delimiter is set, and column types from the first
// opts.SampleRows records.
func OpenCSV(path string, opts Options) (frame.DataSource, error) {
	opts = opts.withDefaults()
	if opts.Delimiter == 0 && isTSV(path) {
		opts.Delimiter = '\t'
	}
	f := &csvFile{path: path, delim: opts.Delimiter, opts: opts}
	cr, rc, header, err := f.open()
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}

	var sample [][]string
	for len(sample) < opts.SampleRows {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			rc.Close()
			return nil, fmt.Errorf("read csv: %w", err)
		}
		sample = append(sample, rec)
	}

	width := len(header)
	for _, rec := range sample {
		if len(rec) > width {
			width = len(rec)
		}
	}
	if width == 0 {
		rc.Close()
		return nil, fmt.Errorf("open csv: %w", ErrEmptyInput)
	}

	names := columnNames(header, width)
	fields := make([]frame.Field, width)
	types := make([]frame.Type, width)
	col := make([]string, len(sample))
	for i := range fields {
		for j, rec := range sample {
			col[j] = ""
			if i < len(rec) {
				col[j] = rec[i]
			}
		}
		types[i] = frame.Infer(col)
		fields[i] = frame.Field{Name: names[i], Type: types[i]}
	}

	first := &csvReader{cr: cr, rc: rc, types: types, pending: sample}
	reopen := func() (rowReader, error) {
		cr, rc, _, err := f.open()
		if err != nil {
			return nil, err
		}
		return &csvReader{cr: cr, rc: rc, types: types}, nil
	}
	return newSequential(frame.NewSchema(fields...), first, reopen), nil
}

func isTSV(path string) bool {
	_, base := splitCodec(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".tsv", ".tab":
		return true
	}
	return false
}

// columnNames fills blanks with column_N and suffixes duplicates.
func columnNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := range names {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
		}
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[name]++
		names[i] = name
	}
	return names
}
