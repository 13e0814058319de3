// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses the tabula command line and resolves its dataset
// arguments.
//
// # Usage
//
//	args, err := cli.Parse(os.Args[1:])
//	if err != nil {
//	    fmt.Fprintln(os.Stderr, err)
//	    os.Exit(cli.ExitCode(err))
//	}
//	if err := cli.Apply(cfg, args); err != nil { ... }
//	targets := cli.ResolveTargets(args.Targets)
//
// Every argument that names an existing file (or a SQLite file followed by
// ":table") opens that file. Anything else is a SQL query run against the
// files opened alongside it.
package cli
