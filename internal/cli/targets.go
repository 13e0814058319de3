// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"path/filepath"
	"strings"

	"github.com/jeranaias/tabula/internal/config"
	"github.com/jeranaias/tabula/internal/source"
	"github.com/jeranaias/tabula/internal/util"
)

// =============================================================================
// TARGETS
// =============================================================================

// TargetKind says how a positional argument is opened.
type TargetKind int

const (
	// TargetFile is a dataset on disk.
	TargetFile TargetKind = iota
	// TargetQuery is SQL for the query engine.
	TargetQuery
)

func (k TargetKind) String() string {
	if k == TargetQuery {
		return "query"
	}
	return "file"
}

// maxQueryTitle bounds the tab title of a query argument.
const maxQueryTitle = 24

// Target is one resolved positional argument.
type Target struct {
	Kind  TargetKind
	Path  string // cleaned file path, TargetFile only
	Table string // SQLite table from "file.db:table"
	Title string
	Query string // TargetQuery only
}

// ResolveTarget classifies arg as a file or a query.
func ResolveTarget(arg string) Target {
	if path, table, ok := source.Resolve(arg); ok {
		title := filepath.Base(path)
		if table != "" {
			title += ":" + table
		}
		return Target{Kind: TargetFile, Path: filepath.Clean(path), Table: table, Title: title}
	}
	query := strings.TrimSpace(arg)
	title := util.Truncate(strings.Join(strings.Fields(query), " "), maxQueryTitle)
	return Target{Kind: TargetQuery, Title: title, Query: query}
}

// ResolveTargets resolves every argument in order.
func ResolveTargets(args []string) []Target {
	out := make([]Target, 0, len(args))
	for _, a := range args {
		out = append(out, ResolveTarget(a))
	}
	return out
}

// SourceOptions builds the parse options for a file target.
func SourceOptions(cfg *config.Config, t Target) (source.Options, error) {
	delim, err := cfg.Delimiter()
	if err != nil {
		return source.Options{}, err
	}
	opts := source.DefaultOptions()
	opts.Delimiter = delim
	opts.NoHeader = !cfg.CSV.HasHeader
	opts.SampleRows = cfg.CSV.SampleRows
	opts.Table = t.Table
	return opts, nil
}
