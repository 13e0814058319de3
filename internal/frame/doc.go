// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package frame provides the Frame Provider: a schema plus a chunked,
// lazily loaded row cache over a streaming DataSource.
//
// A Provider runs one background goroutine per frame. That goroutine opens
// the source, pulls blocks of rows and publishes them as immutable chunks
// through an atomically swapped Snapshot. The foreground (the UI event loop)
// only ever reads snapshots; it never blocks on I/O.
//
// Usage:
//
//	p := frame.NewProvider(opener, frame.DefaultOptions())
//	defer p.Close()
//
//	w := p.Rows(0, 40) // returns immediately, missing rows are nil
//	if w.Loading {
//	    // render what is there, redraw on the next OnUpdate
//	}
package frame
