// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewport

import (
	"math/rand"
	"testing"
)

func newViewport(rows, height int, widths []int, avail int) *Viewport {
	v := New()
	v.SetHeight(height)
	v.SetColumns(widths, avail)
	v.SetRows(rows)
	return v
}

func TestWindowDownClampsAtExtent(t *testing.T) {
	v := newViewport(10, 5, []int{4, 4, 4}, 80)
	for i := 0; i < 3; i++ {
		v.WindowDown()
	}
	if v.FirstRow() != 5 {
		t.Fatalf("FirstRow() = %d after three window moves, want 5", v.FirstRow())
	}
	v.WindowDown()
	if v.FirstRow() != 5 {
		t.Errorf("FirstRow() = %d after fourth window move, want 5", v.FirstRow())
	}
	if v.CursorRow() != 5 {
		t.Errorf("CursorRow() = %d, want cursor pulled into window at 5", v.CursorRow())
	}
}

func TestWindowUpKeepsCursorInside(t *testing.T) {
	v := newViewport(100, 10, []int{3}, 80)
	v.GoTo(55)
	v.WindowUp()
	if v.FirstRow() != 36 {
		t.Errorf("FirstRow() = %d, want 36", v.FirstRow())
	}
	if v.CursorRow() != 45 {
		t.Errorf("CursorRow() = %d, want 45", v.CursorRow())
	}
}

func TestScrollDragsCursor(t *testing.T) {
	v := newViewport(100, 10, []int{3}, 80)
	v.GoTo(2)
	v.Scroll(3)
	if v.FirstRow() != 3 || v.CursorRow() != 3 {
		t.Fatalf("after Scroll(3): first=%d cursor=%d, want 3/3", v.FirstRow(), v.CursorRow())
	}
	v.GoTo(8)
	v.Scroll(-3)
	if v.FirstRow() != 0 || v.CursorRow() != 8 {
		t.Errorf("after Scroll(-3): first=%d cursor=%d, want 0/8", v.FirstRow(), v.CursorRow())
	}
	v.Scroll(1000)
	if v.FirstRow() != 90 || v.CursorRow() != 90 {
		t.Errorf("after Scroll(1000): first=%d cursor=%d, want 90/90", v.FirstRow(), v.CursorRow())
	}
}

func TestCursorScrollsWindow(t *testing.T) {
	v := newViewport(20, 5, []int{3}, 80)
	for i := 0; i < 7; i++ {
		v.Down()
	}
	if v.CursorRow() != 7 || v.FirstRow() != 3 {
		t.Errorf("cursor=%d first=%d, want cursor=7 first=3", v.CursorRow(), v.FirstRow())
	}
	if v.CursorOffset() != 4 {
		t.Errorf("CursorOffset() = %d, want 4", v.CursorOffset())
	}
	v.Top()
	if v.CursorRow() != 0 || v.FirstRow() != 0 {
		t.Errorf("after Top cursor=%d first=%d, want 0/0", v.CursorRow(), v.FirstRow())
	}
	v.Bottom()
	if v.CursorRow() != 19 || v.FirstRow() != 15 {
		t.Errorf("after Bottom cursor=%d first=%d, want 19/15", v.CursorRow(), v.FirstRow())
	}
}

func TestColumnWindowWholeColumns(t *testing.T) {
	// 10+1+10+1+10 = 32 fits in 35, the fourth column does not.
	v := newViewport(1, 1, []int{10, 10, 10, 10, 10}, 35)
	if got := v.VisibleCols(); got != 3 {
		t.Fatalf("VisibleCols() = %d, want 3", got)
	}

	spans := v.Columns()
	want := []Span{{0, 0, 10}, {1, 11, 10}, {2, 22, 10}}
	for i, s := range spans {
		if s != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, s, want[i])
		}
	}

	v.Right()
	v.Right()
	v.Right()
	if v.FirstCol() != 1 || v.CursorCol() != 3 {
		t.Errorf("first=%d cursor=%d, want first=1 cursor=3", v.FirstCol(), v.CursorCol())
	}

	v.WindowRight()
	if v.FirstCol() != 2 {
		t.Errorf("FirstCol() = %d after WindowRight, want 2 (max first)", v.FirstCol())
	}
	v.WindowLeft()
	if v.FirstCol() != 0 {
		t.Errorf("FirstCol() = %d after WindowLeft, want 0", v.FirstCol())
	}
	if v.CursorCol() != 2 {
		t.Errorf("CursorCol() = %d after WindowLeft, want 2", v.CursorCol())
	}
}

func TestVariableWidthColumns(t *testing.T) {
	v := newViewport(1, 1, []int{30, 2, 2, 2, 40}, 20)
	if got := v.VisibleCols(); got != 1 {
		t.Fatalf("VisibleCols() = %d, want 1 for an oversized column", got)
	}
	if s := v.Columns()[0]; s.Width != 20 {
		t.Errorf("oversized column width = %d, want truncated to 20", s.Width)
	}
	v.Right()
	if got := v.VisibleCols(); got != 3 {
		t.Errorf("VisibleCols() = %d from column 1, want 3", got)
	}
	v.GoToCol(4)
	if v.FirstCol() != 4 {
		t.Errorf("FirstCol() = %d, want 4", v.FirstCol())
	}
}

func TestCellAt(t *testing.T) {
	v := newViewport(50, 10, []int{5, 8}, 40)
	v.GoTo(20)

	row, col, ok := v.CellAt(7, 2)
	if !ok || row != 13 || col != 1 {
		t.Errorf("CellAt(7, 2) = (%d, %d, %v), want (13, 1, true)", row, col, ok)
	}
	if _, _, ok := v.CellAt(5, 0); ok {
		t.Error("separator cell should not map to a column")
	}
	if _, _, ok := v.CellAt(0, 10); ok {
		t.Error("cell below the window should not map")
	}
}

func TestEmptyData(t *testing.T) {
	v := newViewport(0, 5, nil, 80)
	v.Down()
	v.WindowDown()
	v.Right()
	v.Bottom()
	if v.CursorRow() != 0 || v.FirstRow() != 0 || v.CursorCol() != 0 {
		t.Errorf("empty viewport moved: %+v", v.State())
	}
	start, end := v.RowRange()
	if start != 0 || end != 0 {
		t.Errorf("RowRange() = (%d, %d), want (0, 0)", start, end)
	}
}

func TestRestore(t *testing.T) {
	v := newViewport(100, 10, []int{4, 4}, 80)
	v.GoTo(42)
	saved := v.State()
	v.GoTo(90)
	v.Restore(saved)
	if v.State() != saved {
		t.Errorf("State() = %+v after Restore, want %+v", v.State(), saved)
	}
}

// TestCursorAlwaysInsideWindow drives random operations over random
// geometries and checks the window invariant after each one.
func TestCursorAlwaysInsideWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ops := []func(*Viewport){
		(*Viewport).Up, (*Viewport).Down, (*Viewport).Left, (*Viewport).Right,
		(*Viewport).WindowUp, (*Viewport).WindowDown, (*Viewport).WindowLeft, (*Viewport).WindowRight,
		(*Viewport).Top, (*Viewport).Bottom,
		func(v *Viewport) { v.GoTo(rng.Intn(300) - 50) },
		func(v *Viewport) { v.SetHeight(rng.Intn(30) + 1) },
		func(v *Viewport) { v.SetRows(rng.Intn(200)) },
	}

	for trial := 0; trial < 200; trial++ {
		widths := make([]int, rng.Intn(12))
		for i := range widths {
			widths[i] = rng.Intn(30) + 1
		}
		v := newViewport(rng.Intn(200), rng.Intn(30)+1, widths, rng.Intn(100)+1)

		for step := 0; step < 100; step++ {
			ops[rng.Intn(len(ops))](v)
			checkInvariant(t, v)
		}
	}
}

func checkInvariant(t *testing.T, v *Viewport) {
	t.Helper()
	s := v.State()
	if v.Rows() == 0 {
		if s.CursorRow != 0 || s.FirstRow != 0 {
			t.Fatalf("empty rows but state %+v", s)
		}
	} else if s.CursorRow < s.FirstRow || s.CursorRow >= s.FirstRow+v.Height() || s.CursorRow >= v.Rows() {
		t.Fatalf("row cursor outside window: %+v height=%d rows=%d", s, v.Height(), v.Rows())
	}
	if v.Cols() == 0 {
		if s.CursorCol != 0 || s.FirstCol != 0 {
			t.Fatalf("no columns but state %+v", s)
		}
	} else if s.CursorCol < s.FirstCol || s.CursorCol >= s.FirstCol+v.VisibleCols() {
		t.Fatalf("column cursor outside window: %+v visible=%d", s, v.VisibleCols())
	}
}
