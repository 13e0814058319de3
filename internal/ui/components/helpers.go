// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tabula/internal/util"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// fitLine pads or truncates a plain string to exactly width cells.
func fitLine(s string, width int) string {
	return util.PadRight(s, width)
}

// joinFit joins rendered segments with sep, dropping trailing segments that
// do not fit in width.
func joinFit(segments []string, sep string, width int) string {
	var b strings.Builder
	used := 0
	sepW := lipgloss.Width(sep)
	for i, s := range segments {
		w := lipgloss.Width(s)
		if i > 0 {
			w += sepW
		}
		if used+w > width {
			break
		}
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s)
		used += w
	}
	return b.String()
}
