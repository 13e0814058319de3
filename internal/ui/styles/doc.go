// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for tabula.
//
// All colors are Lip Gloss AdaptiveColor values so the palette follows the
// terminal background. A Theme bundles the styles used by the grid, tab bar,
// status bar and prompt.
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	cell := theme.Cell.Render(text)
//	badge := theme.ModeBadge("SIZE").Render(" SIZE ")
package styles
