// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by blocking calls on a closed Provider.
	ErrClosed = errors.New("frame provider closed")
)

// SourceError is a read or parse failure at the DataSource boundary. It is
// recorded as the frame's error state; cached chunks stay usable.
type SourceError struct {
	Op     string // "open" or "fetch"
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
