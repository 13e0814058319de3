// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/pflag"

	"github.com/jeranaias/tabula/internal/config"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================

// Version information (set at build time via ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// VersionString is the line printed by --version.
func VersionString() string {
	return fmt.Sprintf("tabula %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}

// =============================================================================
// ARGUMENTS
// =============================================================================

// Args holds the parsed command line.
type Args struct {
	ConfigPath string
	Delimiter  string
	NoHeader   bool
	NoWatch    bool
	DB         string
	ChunkRows  int
	LogFile    string
	Version    bool
	Help       bool

	// Targets are the positional arguments in order.
	Targets []string

	changed map[string]bool
}

// Changed reports whether the named flag was given.
func (a *Args) Changed(name string) bool {
	return a.changed[name]
}

func newFlagSet(a *Args) *pflag.FlagSet {
	fs := pflag.NewFlagSet("tabula", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	fs.StringVar(&a.ConfigPath, "config", "", "read configuration from this file")
	fs.StringVarP(&a.Delimiter, "delimiter", "d", "", "field delimiter for delimited text (a character or \"tab\")")
	fs.BoolVar(&a.NoHeader, "no-header", false, "treat the first record as data")
	fs.BoolVar(&a.NoWatch, "no-watch", false, "do not reload files when they change")
	fs.StringVar(&a.DB, "db", "", "keep the query engine database in this file")
	fs.IntVar(&a.ChunkRows, "chunk-rows", 0, "rows loaded per chunk")
	fs.StringVar(&a.LogFile, "log", "", "write a debug log to this file")
	fs.BoolVarP(&a.Version, "version", "v", false, "print the version and exit")
	fs.BoolVarP(&a.Help, "help", "h", false, "show this help")
	return fs
}

// Parse parses argv, which excludes the program name. Flags may follow
// positional arguments; "--" ends flag parsing.
func Parse(argv []string) (*Args, error) {
	a := &Args{changed: make(map[string]bool)}
	fs := newFlagSet(a)
	if err := fs.Parse(argv); err != nil {
		if err == pflag.ErrHelp {
			a.Help = true
			return a, nil
		}
		return nil, NewUsageError("bad flag", err)
	}
	fs.Visit(func(f *pflag.Flag) { a.changed[f.Name] = true })
	a.Targets = fs.Args()

	if a.Help || a.Version {
		return a, nil
	}
	if a.Changed("chunk-rows") && a.ChunkRows <= 0 {
		return nil, NewUsageError("--chunk-rows must be positive", nil)
	}
	if len(a.Targets) == 0 {
		return nil, NewUsageError("missing dataset", ErrNoTargets)
	}
	return a, nil
}

// Apply overlays the flags that were given onto cfg and revalidates it.
// Flags take precedence over the config file and the environment.
func Apply(cfg *config.Config, a *Args) error {
	if a.Changed("delimiter") {
		cfg.CSV.Delimiter = a.Delimiter
	}
	if a.Changed("no-header") {
		cfg.CSV.HasHeader = !a.NoHeader
	}
	if a.Changed("no-watch") {
		cfg.Watch.Enabled = !a.NoWatch
	}
	if a.Changed("db") {
		cfg.Engine.Database = a.DB
	}
	if a.Changed("chunk-rows") {
		cfg.Grid.ChunkRows = a.ChunkRows
	}
	if a.Changed("log") {
		cfg.Log.File = a.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return NewUsageError("invalid settings", err)
	}
	return nil
}

// =============================================================================
// USAGE
// =============================================================================

const usageHeader = `# tabula

Explore tabular data in the terminal.

    tabula [flags] <file|query>...

Each argument opens a tab, in order. Files may be CSV/TSV, NDJSON, Parquet,
Arrow IPC or SQLite (` + "`file.db:table`" + ` picks a table). Text and JSON files
may be compressed with gzip, zstd or lz4. Any other argument is run as SQL
against the files opened with it.

## Flags

`

const usageFooter = `
## Keys

- ` + "`hjkl`" + ` or arrows move, ` + "`HJKL`" + ` move a page, ` + "`g`/`G`" + ` top and bottom
- a digit starts a row jump, ` + "`$`" + ` opens the SQL prompt
- ` + "`s`" + ` sizing mode, ` + "`p`" + ` column mode, ` + "`d`" + ` describe, ` + "`y`" + ` copy cell
- ` + "`tab`" + ` next tab, ` + "`q`" + ` close tab, ` + "`ctrl+c`" + ` quit, ` + "`?`" + ` help

## Examples

    tabula orders.csv
    tabula events.ndjson.gz sales.parquet
    tabula orders.csv "SELECT status, count(*) FROM orders GROUP BY 1"
`

// UsageText is the help text in markdown.
func UsageText() string {
	var a Args
	fs := newFlagSet(&a)
	var b strings.Builder
	b.WriteString(usageHeader)
	b.WriteString("```\n")
	b.WriteString(fs.FlagUsages())
	b.WriteString("```\n")
	b.WriteString(usageFooter)
	return b.String()
}

// RenderUsage renders the help text for a terminal of the given width,
// falling back to the raw markdown when rendering fails.
func RenderUsage(width int) string {
	text := UsageText()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}
