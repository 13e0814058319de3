// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package explorer is the root Bubble Tea model of tabula.
//
// It owns the open tabs and the pieces they share: the query engine, the
// file watcher, prompt history, the status line and the help footer.
// Frame providers load in the background and signal the model through a
// one-slot channel; a rate limiter keeps redraws to a steady pace however
// fast chunks arrive.
//
// # Usage
//
//	m, err := explorer.New(explorer.Options{
//	    Config:  cfg,
//	    Targets: cli.ResolveTargets(args.Targets),
//	    Engine:  eng,
//	})
//	if err != nil { ... }
//	defer m.Close()
//	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
package explorer
