// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package grid

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Navigator decides what the Navigation prompt does with its text. One is
// chosen when the prompt opens, from the kind of frame on display.
type Navigator interface {
	// Label is the prompt prefix.
	Label() string
	// Highlight turns on SQL highlighting of the prompt text.
	Highlight() bool
	// Preview is called after every edit.
	Preview(g *Grid, text string)
	// Commit is called with the final text after enter.
	Commit(g *Grid, text string) tea.Cmd
}

// parseRow accepts a non-negative row index.
func parseRow(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// RowJump moves the cursor to a row index, following the text as it is typed.
type RowJump struct{}

func (RowJump) Label() string   { return ":" }
func (RowJump) Highlight() bool { return false }

func (RowJump) Preview(g *Grid, text string) {
	if n, ok := parseRow(text); ok {
		g.jumpTo(n, false)
	}
}

func (RowJump) Commit(g *Grid, text string) tea.Cmd {
	n, ok := parseRow(text)
	if !ok {
		g.restoreCursor()
		if text != "" {
			g.prompt.SetMessage("not a row number: " + text)
		}
		return nil
	}
	g.jumpTo(n, true)
	return nil
}

// Query runs the text against the analytical engine and shows the result in
// place of the current frame once it opens. Table names the base frame's
// table in the prompt label.
type Query struct {
	Table string
}

func (q Query) Label() string {
	if q.Table == "" {
		return "sql> "
	}
	return "sql[" + q.Table + "]> "
}

func (Query) Highlight() bool       { return true }
func (Query) Preview(*Grid, string) {}

func (Query) Commit(g *Grid, text string) tea.Cmd {
	g.restoreCursor()
	g.runQuery(text)
	return nil
}

// Combined is used on query-backed frames: an integer jumps to a row,
// anything else re-queries.
type Combined struct {
	Jump  RowJump
	Query Query
}

func (Combined) Label() string   { return "> " }
func (Combined) Highlight() bool { return true }

func (c Combined) Preview(g *Grid, text string) {
	if _, ok := parseRow(text); ok {
		c.Jump.Preview(g, text)
		return
	}
	g.restoreCursor()
}

func (c Combined) Commit(g *Grid, text string) tea.Cmd {
	if _, ok := parseRow(text); ok {
		return c.Jump.Commit(g, text)
	}
	return c.Query.Commit(g, text)
}
