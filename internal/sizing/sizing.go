// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sizing is the column sizing engine. It picks display widths from
// header text and sampled content, grows them as wider content is seen and
// never shrinks them unless asked to.
package sizing

import (
	"github.com/jeranaias/tabula/internal/frame"
	"github.com/jeranaias/tabula/internal/util"
)

// =============================================================================
// FIT MODES
// =============================================================================

// FitMode is the width policy of one column.
type FitMode int

const (
	// ContentFit sizes to the widest sampled value, capped at MaxWidth.
	ContentFit FitMode = iota
	// HeaderFit sizes to the header; content is truncated.
	HeaderFit
	// Free sizes to the widest of header and content, uncapped.
	Free
	// Fixed keeps a manually chosen width.
	Fixed
)

// String returns the mode name.
func (m FitMode) String() string {
	switch m {
	case ContentFit:
		return "content"
	case HeaderFit:
		return "header"
	case Free:
		return "free"
	case Fixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// ColumnLayout is the sizing state of one column.
type ColumnLayout struct {
	Width  int
	Mode   FitMode
	Locked bool
}

// Config holds the width limits.
type Config struct {
	MaxWidth    int
	MinWidth    int
	DefaultMode FitMode
}

// DefaultConfig returns the stock limits.
func DefaultConfig() Config {
	return Config{MaxWidth: 25, MinWidth: 5, DefaultMode: ContentFit}
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine tracks one ColumnLayout per source column.
type Engine struct {
	cfg     Config
	layouts []ColumnLayout
	header  []int
	content []int
}

// New creates an engine for the given headers with every column at the
// default mode and sized to its header.
func New(cfg Config, headers []string) *Engine {
	def := DefaultConfig()
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = def.MaxWidth
	}
	if cfg.MinWidth <= 0 {
		cfg.MinWidth = def.MinWidth
	}
	if cfg.MinWidth > cfg.MaxWidth {
		cfg.MinWidth = cfg.MaxWidth
	}

	e := &Engine{
		cfg:     cfg,
		layouts: make([]ColumnLayout, len(headers)),
		header:  make([]int, len(headers)),
		content: make([]int, len(headers)),
	}
	for i, h := range headers {
		e.header[i] = util.Width(util.CellText(h))
		e.layouts[i] = ColumnLayout{Mode: cfg.DefaultMode}
		e.layouts[i].Width = e.target(i, cfg.DefaultMode)
	}
	return e
}

// Len returns the number of columns.
func (e *Engine) Len() int { return len(e.layouts) }

// Layout returns the layout of a source column.
func (e *Engine) Layout(col int) ColumnLayout { return e.layouts[col] }

// Layouts returns a copy of every column layout.
func (e *Engine) Layouts() []ColumnLayout {
	out := make([]ColumnLayout, len(e.layouts))
	copy(out, e.layouts)
	return out
}

// Width returns the display width of a source column.
func (e *Engine) Width(col int) int {
	if col < 0 || col >= len(e.layouts) {
		return 0
	}
	return e.layouts[col].Width
}

// Observe folds newly sampled content widths in. Widths only grow; locked
// and fixed columns are left alone.
func (e *Engine) Observe(contentWidths []int) {
	for col := range e.layouts {
		if col < len(contentWidths) && contentWidths[col] > e.content[col] {
			e.content[col] = contentWidths[col]
		}
		l := &e.layouts[col]
		if l.Locked || l.Mode == Fixed {
			continue
		}
		if t := e.target(col, l.Mode); t > l.Width {
			l.Width = t
		}
	}
}

// Reduce narrows a column by one cell and locks it.
func (e *Engine) Reduce(col int) {
	if !e.valid(col) {
		return
	}
	l := &e.layouts[col]
	l.Mode, l.Locked = Fixed, true
	if l.Width > 1 {
		l.Width--
	}
}

// Augment widens a column by one cell and locks it.
func (e *Engine) Augment(col int) {
	if !e.valid(col) {
		return
	}
	l := &e.layouts[col]
	l.Mode, l.Locked = Fixed, true
	l.Width++
}

// Free sizes a column to its full content, uncapped.
func (e *Engine) Free(col int) {
	e.apply(col, Free)
}

// Fit sizes a column to its content, capped.
func (e *Engine) Fit(col int) {
	e.apply(col, ContentFit)
}

// ToggleFit switches a column between header-fit and content-fit.
func (e *Engine) ToggleFit(col int) {
	if !e.valid(col) {
		return
	}
	if e.layouts[col].Mode == HeaderFit {
		e.apply(col, ContentFit)
		return
	}
	e.apply(col, HeaderFit)
}

// Reset clears every lock and restores the initial mode of every column.
func (e *Engine) Reset() {
	for col := range e.layouts {
		e.layouts[col] = ColumnLayout{Mode: e.cfg.DefaultMode}
		e.layouts[col].Width = e.target(col, e.cfg.DefaultMode)
	}
}

// FitAll recomputes every column from the whole cached sample, which
// replaces the observed maxima. Locked columns are refit too; lock flags and
// modes are kept.
func (e *Engine) FitAll(contentWidths []int) {
	for col := range e.layouts {
		if col < len(contentWidths) {
			e.content[col] = contentWidths[col]
		}
		mode := e.layouts[col].Mode
		if mode == Fixed {
			mode = e.cfg.DefaultMode
		}
		e.layouts[col].Width = e.target(col, mode)
	}
}

func (e *Engine) apply(col int, mode FitMode) {
	if !e.valid(col) {
		return
	}
	e.layouts[col] = ColumnLayout{Mode: mode, Width: e.target(col, mode)}
}

func (e *Engine) valid(col int) bool {
	return col >= 0 && col < len(e.layouts)
}

// target is the width a column would have under mode.
func (e *Engine) target(col int, mode FitMode) int {
	h, c := e.header[col], e.content[col]
	var w int
	switch mode {
	case HeaderFit:
		w = h
	case Free:
		w = max(h, c)
	case Fixed:
		w = e.layouts[col].Width
	default:
		w = min(max(c, min(h, e.cfg.MinWidth)), e.cfg.MaxWidth)
	}
	return max(w, 1)
}

// =============================================================================
// SAMPLING
// =============================================================================

// SampleWidths returns, per source column, the widest display text found in
// the given chunks.
func SampleWidths(chunks []*frame.Chunk, columns int) []int {
	widths := make([]int, columns)
	for _, c := range chunks {
		for col := 0; col < columns && col < len(c.Columns); col++ {
			for _, v := range c.Columns[col] {
				if v.Null {
					continue
				}
				if w := util.Width(util.CellText(v.String())); w > widths[col] {
					widths[col] = w
				}
			}
		}
	}
	return widths
}
