// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tabula/internal/ui/styles"
)

func testFrame() GridFrame {
	return GridFrame{
		Headers: []Header{
			{Text: "id", Width: 4, Numeric: true},
			{Text: "name", Width: 6, Cursor: true},
		},
		Lines: []Line{
			{Index: "0", Cells: []Cell{
				{Row: 0, Col: 0, Width: 4, Text: "7", Numeric: true},
				{Row: 0, Col: 1, Width: 6, Text: "a very long name"},
			}},
			{Index: "1", Cursor: true, Cells: []Cell{
				{Row: 1, Col: 0, Width: 4, Null: true, Numeric: true},
				{Row: 1, Col: 1, Width: 6, Text: "bob", Cursor: true},
			}},
			{Index: "2", Cells: []Cell{
				{Row: 2, Col: 0, Width: 4, Pending: true},
				{Row: 2, Col: 1, Width: 6, Pending: true},
			}},
		},
		IndexWidth: 2,
		Width:      20,
		Height:     6,
	}
}

func TestGridViewRender(t *testing.T) {
	view := NewGridView(styles.NewTheme("dark"))
	out := view.Render(testFrame())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)

	header := lines[0]
	assert.Contains(t, header, "  id")
	assert.Contains(t, header, "name")

	assert.Contains(t, lines[1], "   7")
	assert.Contains(t, lines[1], "a ver…")
	assert.Contains(t, lines[2], NullText)
	assert.Contains(t, lines[2], "bob")
	assert.Contains(t, lines[3], PendingText)

	for i, l := range lines[:4] {
		assert.LessOrEqual(t, lipgloss.Width(l), 20, "line %d", i)
	}
	assert.Equal(t, "", lines[5])
}

func TestGridViewEmpty(t *testing.T) {
	view := NewGridView(styles.NewTheme("dark"))
	f := GridFrame{Width: 20, Height: 3, Empty: "no rows"}
	lines := strings.Split(view.Render(f), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "no rows")

	assert.Equal(t, "", view.Render(GridFrame{}))
	assert.Equal(t, 1, view.Separator())
}

func TestStatusBarPosition(t *testing.T) {
	tests := []struct {
		info StatusInfo
		want string
	}{
		{StatusInfo{Row: 0, Count: 1024, Final: false}, "1/1,024+"},
		{StatusInfo{Row: 41, Count: 1000, Final: true}, "42/1,000"},
		{StatusInfo{Count: 0, Final: true}, "0/0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, position(tt.info))
	}
}

func TestStatusBarView(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme("dark"))
	bar.SetWidth(100)

	out := bar.View(StatusInfo{
		Mode: "SIZE", Title: "people.csv", Row: 2, Count: 10, Final: true,
		Column: "name", ColumnType: "str",
	})
	assert.Contains(t, out, "SIZE")
	assert.Contains(t, out, "people.csv")
	assert.Contains(t, out, "3/10")
	assert.Contains(t, out, "name str")
	assert.Equal(t, 100, lipgloss.Width(out))

	out = bar.View(StatusInfo{Count: 5, Err: "open people.csv: boom"})
	assert.Contains(t, out, "NORMAL")
	assert.Contains(t, out, "boom")

	out = bar.View(StatusInfo{Count: 200, Final: true, Loaded: 50, Loading: true, Spinner: "|"})
	assert.Contains(t, out, "loading 25%")
	assert.Contains(t, out, "##:-------")
}

func TestTabBar(t *testing.T) {
	bar := NewTabBar(styles.NewTheme("dark"))
	out := bar.View([]string{"a.csv", "b.parquet"}, 1, 60)
	assert.Contains(t, out, "1:a.csv")
	assert.Contains(t, out, "2:b.parquet")
	assert.Equal(t, 60, lipgloss.Width(out))

	many := []string{"one", "two", "three", "four", "five", "six", "seven", "eight"}
	out = bar.View(many, 7, 30)
	assert.Contains(t, out, "8:eight")
	assert.LessOrEqual(t, lipgloss.Width(out), 30)

	assert.Equal(t, "", bar.View(nil, 0, 10))
}
