// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viewport tracks the visible window of a grid and its cursor.
//
// Rows are uniform (one terminal line each). Columns have variable widths,
// so the column window always holds whole columns: the number that fits is
// recomputed from the widths every time the window moves.
package viewport

// State is the position part of a Viewport, used to save and restore it.
type State struct {
	FirstRow  int
	FirstCol  int
	CursorRow int
	CursorCol int
}

// Span places one displayed column on screen.
type Span struct {
	Col   int // displayed column index
	X     int // first cell, relative to the data area
	Width int // cells, possibly truncated at the right edge
}

// Viewport is the visible row/column window plus the cursor. The cursor is
// kept inside the window after every operation.
type Viewport struct {
	rows   int
	height int
	widths []int
	avail  int
	sep    int

	firstRow, firstCol int
	curRow, curCol     int
}

// New returns an empty one-row viewport with one-cell column separators.
func New() *Viewport {
	return &Viewport{height: 1, sep: 1, avail: 1}
}

// =============================================================================
// GEOMETRY
// =============================================================================

// SetRows sets the data row extent.
func (v *Viewport) SetRows(n int) {
	v.rows = max(0, n)
	v.clamp()
}

// SetHeight sets the number of data rows the window shows.
func (v *Viewport) SetHeight(h int) {
	v.height = max(1, h)
	v.clamp()
}

// SetColumns sets the width of every displayed column and the cells
// available for them.
func (v *Viewport) SetColumns(widths []int, available int) {
	v.widths = append(v.widths[:0], widths...)
	v.avail = max(1, available)
	v.clamp()
}

// SetSeparator sets the gap between columns.
func (v *Viewport) SetSeparator(n int) {
	v.sep = max(0, n)
	v.clamp()
}

// Rows returns the data row extent.
func (v *Viewport) Rows() int { return v.rows }

// Cols returns the number of displayed columns.
func (v *Viewport) Cols() int { return len(v.widths) }

// Height returns the window height.
func (v *Viewport) Height() int { return v.height }

// FirstRow returns the first visible row.
func (v *Viewport) FirstRow() int { return v.firstRow }

// FirstCol returns the first visible displayed column.
func (v *Viewport) FirstCol() int { return v.firstCol }

// CursorRow returns the cursor's data row.
func (v *Viewport) CursorRow() int { return v.curRow }

// CursorCol returns the cursor's displayed column.
func (v *Viewport) CursorCol() int { return v.curCol }

// CursorOffset returns the cursor row relative to the window.
func (v *Viewport) CursorOffset() int { return v.curRow - v.firstRow }

// State returns the current position.
func (v *Viewport) State() State {
	return State{FirstRow: v.firstRow, FirstCol: v.firstCol, CursorRow: v.curRow, CursorCol: v.curCol}
}

// Restore returns to a saved position, clamped to the current extent.
func (v *Viewport) Restore(s State) {
	v.firstRow, v.firstCol = s.FirstRow, s.FirstCol
	v.curRow, v.curCol = s.CursorRow, s.CursorCol
	v.clamp()
}

// RowRange returns the data rows [start, end) to fetch for the window.
func (v *Viewport) RowRange() (int, int) {
	return v.firstRow, min(v.firstRow+v.height, v.rows)
}

// VisibleCols returns how many whole columns fit from the first visible one.
func (v *Viewport) VisibleCols() int {
	return v.fitFrom(v.firstCol)
}

// Columns lays out the visible columns left to right.
func (v *Viewport) Columns() []Span {
	n := v.VisibleCols()
	spans := make([]Span, 0, n)
	x := 0
	for c := v.firstCol; c < v.firstCol+n; c++ {
		w := min(v.widths[c], v.avail-x)
		spans = append(spans, Span{Col: c, X: x, Width: w})
		x += w + v.sep
	}
	return spans
}

// CellAt maps a cell of the data area to a data row and displayed column.
func (v *Viewport) CellAt(x, y int) (row, col int, ok bool) {
	if y < 0 || y >= v.height || x < 0 {
		return 0, 0, false
	}
	row = v.firstRow + y
	if row >= v.rows {
		return 0, 0, false
	}
	for _, s := range v.Columns() {
		if x >= s.X && x < s.X+s.Width {
			return row, s.Col, true
		}
	}
	return 0, 0, false
}

// =============================================================================
// CURSOR MOVES
// =============================================================================

// Up moves the cursor one row up.
func (v *Viewport) Up() { v.curRow--; v.follow() }

// Down moves the cursor one row down.
func (v *Viewport) Down() { v.curRow++; v.follow() }

// Left moves the cursor one column left.
func (v *Viewport) Left() { v.curCol--; v.follow() }

// Right moves the cursor one column right.
func (v *Viewport) Right() { v.curCol++; v.follow() }

// Top jumps to the first row.
func (v *Viewport) Top() { v.GoTo(0) }

// Bottom jumps to the last known row.
func (v *Viewport) Bottom() { v.GoTo(v.rows - 1) }

// GoTo moves the cursor to a data row.
func (v *Viewport) GoTo(row int) {
	v.curRow = row
	v.follow()
}

// GoToCol moves the cursor to a displayed column.
func (v *Viewport) GoToCol(col int) {
	v.curCol = col
	v.follow()
}

// =============================================================================
// WINDOW MOVES
// =============================================================================

// WindowDown scrolls one page down. The cursor keeps its row while it stays
// visible.
func (v *Viewport) WindowDown() {
	v.firstRow = min(v.firstRow+v.height, v.maxFirstRow())
	if v.curRow < v.firstRow {
		v.curRow = v.firstRow
	}
	v.clamp()
}

// WindowUp scrolls one page up.
func (v *Viewport) WindowUp() {
	v.firstRow = max(v.firstRow-v.height, 0)
	if last := v.firstRow + v.height - 1; v.curRow > last {
		v.curRow = last
	}
	v.clamp()
}

// Scroll moves the window n rows, negative is up. The cursor is dragged
// only when it would leave the window.
func (v *Viewport) Scroll(n int) {
	v.firstRow = max(0, min(v.firstRow+n, v.maxFirstRow()))
	if v.curRow < v.firstRow {
		v.curRow = v.firstRow
	} else if last := v.firstRow + v.height - 1; v.curRow > last {
		v.curRow = last
	}
	v.clamp()
}

// WindowRight scrolls right by the number of columns currently visible.
func (v *Viewport) WindowRight() {
	v.firstCol = min(v.firstCol+v.VisibleCols(), v.maxFirstCol())
	if v.curCol < v.firstCol {
		v.curCol = v.firstCol
	}
	v.clamp()
}

// WindowLeft scrolls left by as many columns as fit before the window.
func (v *Viewport) WindowLeft() {
	v.firstCol = max(v.firstCol-v.fitBefore(v.firstCol), 0)
	if last := v.firstCol + v.VisibleCols() - 1; v.curCol > last {
		v.curCol = last
	}
	v.clamp()
}

// =============================================================================
// CLAMPING
// =============================================================================

// follow clamps the cursor and scrolls the window just enough to show it.
func (v *Viewport) follow() {
	v.clampCursor()
	if v.curRow < v.firstRow {
		v.firstRow = v.curRow
	} else if v.curRow >= v.firstRow+v.height {
		v.firstRow = v.curRow - v.height + 1
	}
	if v.curCol < v.firstCol {
		v.firstCol = v.curCol
	}
	for v.firstCol < v.curCol && v.curCol >= v.firstCol+v.fitFrom(v.firstCol) {
		v.firstCol++
	}
	v.clamp()
}

// clamp restores the invariants without moving the cursor unless it falls
// outside the data.
func (v *Viewport) clamp() {
	v.clampCursor()

	v.firstRow = max(0, min(v.firstRow, v.maxFirstRow()))
	if v.curRow < v.firstRow {
		v.firstRow = v.curRow
	} else if v.curRow >= v.firstRow+v.height {
		v.firstRow = v.curRow - v.height + 1
	}

	v.firstCol = max(0, min(v.firstCol, v.maxFirstCol()))
	if v.curCol < v.firstCol {
		v.firstCol = v.curCol
	}
	for v.firstCol < v.curCol && v.curCol >= v.firstCol+v.fitFrom(v.firstCol) {
		v.firstCol++
	}
}

func (v *Viewport) clampCursor() {
	v.curRow = max(0, min(v.curRow, v.rows-1))
	v.curCol = max(0, min(v.curCol, len(v.widths)-1))
}

func (v *Viewport) maxFirstRow() int {
	return max(0, v.rows-v.height)
}

// maxFirstCol is the smallest first column from which every remaining
// column fits.
func (v *Viewport) maxFirstCol() int {
	n := len(v.widths)
	if n == 0 {
		return 0
	}
	return n - v.fitBefore(n)
}

// fitFrom counts whole columns that fit starting at first. At least one
// column is always shown.
func (v *Viewport) fitFrom(first int) int {
	if first >= len(v.widths) {
		return 0
	}
	used, count := 0, 0
	for c := first; c < len(v.widths); c++ {
		need := v.widths[c]
		if count > 0 {
			need += v.sep
		}
		if used+need > v.avail && count > 0 {
			break
		}
		used += need
		count++
	}
	return count
}

// fitBefore counts whole columns that fit ending just before end.
func (v *Viewport) fitBefore(end int) int {
	used, count := 0, 0
	for c := end - 1; c >= 0; c-- {
		need := v.widths[c]
		if count > 0 {
			need += v.sep
		}
		if used+need > v.avail && count > 0 {
			break
		}
		used += need
		count++
	}
	return count
}
