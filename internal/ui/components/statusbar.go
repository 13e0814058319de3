// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tabula/internal/ui/styles"
	"github.com/jeranaias/tabula/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusInfo is what the status bar shows for the active grid.
type StatusInfo struct {
	Mode       string // badge label: NORMAL, SIZE, MOVE, NAV, QUERY, DESC
	Title      string
	Row        int // cursor row, zero based
	Count      int
	Final      bool
	Loaded     int // rows fetched so far
	Loading    bool
	Spinner    string
	Column     string
	ColumnType string
	Err        string
	Message    string
}

// StatusBar is the bottom status line.
type StatusBar struct {
	Width int
	theme *styles.Theme
}

// NewStatusBar creates a StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// position renders "row/count", with "+" while the count is a lower bound.
func position(info StatusInfo) string {
	if info.Count == 0 && !info.Final {
		return "-/" + util.FormatCount(0, false)
	}
	row := info.Row + 1
	if info.Count == 0 {
		row = 0
	}
	return util.FormatCount(row, true) + "/" + util.FormatCount(info.Count, info.Final)
}

// View renders the status bar.
func (s *StatusBar) View(info StatusInfo) string {
	if s.Width <= 0 {
		return ""
	}
	mode := info.Mode
	if mode == "" {
		mode = "NORMAL"
	}
	badge := s.theme.ModeBadge(mode).Render(mode)

	left := []string{badge}
	if info.Title != "" {
		room := max(8, s.Width/4)
		left = append(left, s.theme.StatusText.Render(util.Truncate(util.CellText(info.Title), room)))
	}
	left = append(left, s.theme.StatusMuted.Render(position(info)))
	if info.Column != "" && s.Width >= 60 {
		col := util.Truncate(util.CellText(info.Column), 20)
		if info.ColumnType != "" {
			col += " " + info.ColumnType
		}
		left = append(left, s.theme.StatusMuted.Render(col))
	}

	var right string
	switch {
	case info.Err != "":
		right = s.theme.StatusError.Render(util.Truncate(info.Err, max(10, s.Width/2)))
	case info.Message != "":
		right = s.theme.StatusMuted.Render(util.Truncate(info.Message, max(10, s.Width/2)))
	case info.Loading:
		text := "loading"
		if info.Final && info.Count > 0 {
			pct := util.Percent(info.Loaded, info.Count)
			text = fmt.Sprintf("loading %d%%", pct)
			if s.Width >= 80 {
				text = styles.RenderProgressBar(10, float64(pct)) + " " + text
			}
		}
		right = s.theme.Spinner.Render(info.Spinner) + " " + s.theme.StatusLoad.Render(text)
	}

	sep := " "
	leftStr := joinFit(left, sep, s.Width)
	gap := s.Width - lipgloss.Width(leftStr) - lipgloss.Width(right) - 1
	line := leftStr
	if right != "" && gap >= 1 {
		line += lipgloss.NewStyle().Width(gap).Render("") + right
	}
	return s.theme.StatusBar.Width(s.Width).MaxWidth(s.Width).Render(line)
}
