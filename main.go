// tabula - explore tabular data in the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tabula/internal/cli"
	"github.com/jeranaias/tabula/internal/config"
	"github.com/jeranaias/tabula/internal/engine"
	"github.com/jeranaias/tabula/internal/storage"
	"github.com/jeranaias/tabula/internal/ui/explorer"
	"github.com/jeranaias/tabula/internal/watch"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if cli.IsUsageError(err) {
		fmt.Fprintln(os.Stderr, "Run 'tabula --help' for usage.")
	}
	return cli.ExitCode(err)
}

func run(argv []string) int {
	args, err := cli.Parse(argv)
	if err != nil {
		return fail(err)
	}
	if args.Help {
		fmt.Print(cli.RenderUsage(cli.GetTerminalWidth()))
		return cli.ExitSuccess
	}
	if args.Version {
		fmt.Println(cli.VersionString())
		return cli.ExitSuccess
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return fail(err)
	}
	if err := cli.Apply(cfg, args); err != nil {
		return fail(err)
	}
	if err := cli.RequireTerminal(); err != nil {
		return fail(err)
	}

	closeLog := setupLogging(cfg.Log.File)
	defer closeLog()
	log.Printf("tabula %s starting with %d target(s)", Version, len(args.Targets))

	// ==========================================================================
	// Query engine, watcher and history
	// ==========================================================================
	eng, err := engine.New(engine.Options{
		Database: cfg.Engine.Database,
		TempDir:  cfg.Engine.TempDir,
	})
	if err != nil {
		return fail(err)
	}
	defer eng.Close()

	var w watch.Watcher
	if cfg.Watch.Enabled {
		w = watch.New(watch.Options{
			Debounce:     time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
			PollInterval: time.Duration(cfg.Watch.PollIntervalSecs) * time.Second,
		})
	}

	var store *storage.HistoryStore
	if path, err := cfg.HistoryPath(); err == nil {
		store = storage.NewHistoryStoreAt(path)
		store.MaxEntries = cfg.History.MaxEntries
	} else {
		log.Printf("HISTORY: %v", err)
	}

	m, err := explorer.New(explorer.Options{
		Config:    cfg,
		Targets:   cli.ResolveTargets(args.Targets),
		Engine:    eng,
		Watcher:   w,
		History:   store,
		Clipboard: clipboard.WriteAll,
	})
	if err != nil {
		if w != nil {
			w.Close()
		}
		return fail(err)
	}
	defer m.Close()

	// ==========================================================================
	// Run
	// ==========================================================================
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fail(err)
	}
	return cli.ExitSuccess
}

// loadConfig reads --config when given, else the default search path. A
// broken config file is reported and the defaults are used instead.
func loadConfig(args *cli.Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		return config.LoadFromPath(args.ConfigPath)
	}
	cfg, err := config.Load()
	if cfg == nil {
		return nil, err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	return cfg, nil
}

// setupLogging sends the standard logger to path, or discards it. The TUI
// owns the terminal so nothing may log to stderr while it runs.
func setupLogging(path string) func() {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}
	}
	f, err := tea.LogToFile(path, "tabula")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log %s: %v\n", path, err)
		log.SetOutput(io.Discard)
		return func() {}
	}
	return func() { f.Close() }
}
