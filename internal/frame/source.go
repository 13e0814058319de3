// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package frame

import "context"

// DataSource is a tabular stream the Provider reads from its background
// goroutine. Implementations need not be safe for concurrent use.
type DataSource interface {
	// Schema returns the columns of every row Fetch produces.
	Schema() Schema

	// Count returns the exact row count when it is cheap to know.
	Count() (int, bool)

	// Fetch returns up to limit rows starting at row start. Returning fewer
	// than limit rows means the source is exhausted. Fetch may block.
	Fetch(ctx context.Context, start, limit int) ([]Row, error)

	// Close releases the underlying file or connection.
	Close() error
}

// Opener opens a fresh DataSource. The Provider calls it from its
// background goroutine, again after every MarkStale.
type Opener func(ctx context.Context) (DataSource, error)
