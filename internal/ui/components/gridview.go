// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tabula/internal/ui/styles"
	"github.com/jeranaias/tabula/internal/util"
)

// NullText marks a null cell.
const NullText = "∅"

// PendingText fills a cell whose row is not loaded yet.
const PendingText = "·"

// Cell is one painted body cell. Row and Col are data coordinates; Col is the
// displayed column index.
type Cell struct {
	Row     int
	Col     int
	Width   int
	Text    string
	Cursor  bool
	Numeric bool
	Null    bool
	Pending bool
}

// Header is one column title.
type Header struct {
	Text    string
	Width   int
	Cursor  bool
	Numeric bool
}

// Line is one body row: its row-number label and cells.
type Line struct {
	Index  string
	Cursor bool
	Cells  []Cell
}

// GridFrame is everything GridView needs to paint a grid.
type GridFrame struct {
	Headers    []Header
	Lines      []Line
	IndexWidth int // zero hides the row-number gutter
	Width      int
	Height     int // total lines, header included
	Empty      string
}

// GridView paints GridFrames.
type GridView struct {
	theme *styles.Theme
	sep   string
}

// NewGridView creates a renderer with one-space column separators.
func NewGridView(theme *styles.Theme) *GridView {
	return &GridView{theme: theme, sep: " "}
}

// Separator returns the column gap in cells.
func (g *GridView) Separator() int { return lipgloss.Width(g.sep) }

// Render paints f into exactly f.Height lines.
func (g *GridView) Render(f GridFrame) string {
	if f.Height <= 0 || f.Width <= 0 {
		return ""
	}
	lines := make([]string, 0, f.Height)
	lines = append(lines, g.header(f))
	if len(f.Lines) == 0 && f.Empty != "" {
		lines = append(lines, g.theme.Placeholder.Render(util.Truncate(f.Empty, f.Width)))
	}
	for _, l := range f.Lines {
		if len(lines) >= f.Height {
			break
		}
		lines = append(lines, g.line(f, l))
	}
	for len(lines) < f.Height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (g *GridView) header(f GridFrame) string {
	var b strings.Builder
	if f.IndexWidth > 0 {
		b.WriteString(g.theme.Index.Render(strings.Repeat(" ", f.IndexWidth)))
		b.WriteString(g.sep)
	}
	for i, h := range f.Headers {
		if i > 0 {
			b.WriteString(g.theme.Separator.Render(g.sep))
		}
		text := util.CellText(h.Text)
		var s string
		if h.Numeric {
			s = util.PadLeft(text, h.Width)
		} else {
			s = util.PadRight(text, h.Width)
		}
		if h.Cursor {
			b.WriteString(g.theme.HeaderCursor.Render(s))
		} else {
			b.WriteString(g.theme.Header.Render(s))
		}
	}
	return b.String()
}

func (g *GridView) line(f GridFrame, l Line) string {
	var b strings.Builder
	if f.IndexWidth > 0 {
		idx := util.PadLeft(l.Index, f.IndexWidth)
		if l.Cursor {
			b.WriteString(g.theme.IndexCursor.Render(idx))
		} else {
			b.WriteString(g.theme.Index.Render(idx))
		}
		b.WriteString(g.sep)
	}
	for i, c := range l.Cells {
		if i > 0 {
			if l.Cursor {
				b.WriteString(g.theme.CursorRow.Render(g.sep))
			} else {
				b.WriteString(g.sep)
			}
		}
		b.WriteString(g.cell(c, l.Cursor))
	}
	return b.String()
}

func (g *GridView) cell(c Cell, cursorLine bool) string {
	var text string
	switch {
	case c.Pending:
		text = PendingText
	case c.Null:
		text = NullText
	default:
		text = util.CellText(c.Text)
	}
	if c.Numeric && !c.Pending {
		text = util.PadLeft(text, c.Width)
	} else {
		text = util.PadRight(text, c.Width)
	}

	switch {
	case c.Cursor:
		return g.theme.CursorCell.Render(text)
	case c.Null || c.Pending:
		if cursorLine {
			return g.theme.CursorRow.Inherit(g.theme.Null).Render(text)
		}
		return g.theme.Null.Render(text)
	case cursorLine:
		return g.theme.CursorRow.Render(text)
	}
	return g.theme.Cell.Render(text)
}
