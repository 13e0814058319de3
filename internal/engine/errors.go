// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineClosed is returned by every call after Close.
	ErrEngineClosed = errors.New("engine closed")

	// ErrNoColumns is returned for statements that produce no result set.
	ErrNoColumns = errors.New("statement returns no columns")
)

// QueryError is a failed query. The Grid shows it in the prompt area and
// keeps the previous frame.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
