// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import "errors"

var (
	// ErrUnsupportedFormat is returned by Open for an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoTable is returned when a SQLite file has no user table.
	ErrNoTable = errors.New("database has no tables")

	// ErrEmptyInput is returned when a text file has no header row.
	ErrEmptyInput = errors.New("input is empty")
)
