// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across tabula.
//
// # Key Functions
//
// Display Width:
//   - Width: terminal cell width of a string (East Asian wide aware)
//   - Truncate: cut to a cell width, ending in "…"
//   - PadLeft, PadRight: align text inside a fixed-width cell
//   - CellText: normalize a cell value for single-line display
//
// Formatting:
//   - FormatCount: thousands separators, "+" suffix while loading
//
// File Operations:
//   - AtomicWrite, AtomicWriteFile: replace a file in one rename
//
// # Usage
//
//	text := util.CellText(value.String())
//	cell := util.PadRight(util.Truncate(text, 12), 12)
package util
