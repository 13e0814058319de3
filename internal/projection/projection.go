// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projection maps displayed columns to source columns. It holds the
// user-controlled order and visibility of a grid's columns.
package projection

import "fmt"

// LayoutError is a rejected layout edit. The projection is left unchanged.
type LayoutError struct {
	Op     string
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Entry is one source column in display order.
type Entry struct {
	Source  int
	Visible bool
}

// Projection is an ordered list of entries, one per source column. Hidden
// entries keep their slot so showing them again restores their position.
type Projection struct {
	entries []Entry
}

// New returns the identity projection over n source columns.
func New(n int) *Projection {
	p := &Projection{}
	p.Resize(n)
	return p
}

// Resize resets the projection to the identity over n columns.
func (p *Projection) Resize(n int) {
	p.entries = make([]Entry, n)
	for i := range p.entries {
		p.entries[i] = Entry{Source: i, Visible: true}
	}
}

// Entries returns a copy of every entry in display order.
func (p *Projection) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Visible returns the source indexes of the visible columns in display order.
func (p *Projection) Visible() []int {
	out := make([]int, 0, len(p.entries))
	for _, e := range p.entries {
		if e.Visible {
			out = append(out, e.Source)
		}
	}
	return out
}

// Len returns the number of visible columns.
func (p *Projection) Len() int {
	n := 0
	for _, e := range p.entries {
		if e.Visible {
			n++
		}
	}
	return n
}

// Source returns the source column shown at a displayed index, or -1.
func (p *Projection) Source(display int) int {
	if i := p.slot(display); i >= 0 {
		return p.entries[i].Source
	}
	return -1
}

// Display returns the displayed index of a source column, or -1 if it is
// hidden.
func (p *Projection) Display(source int) int {
	d := 0
	for _, e := range p.entries {
		if !e.Visible {
			continue
		}
		if e.Source == source {
			return d
		}
		d++
	}
	return -1
}

// MoveLeft swaps the column at display with its visible left neighbour and
// returns its new displayed index. It does nothing at the left end.
func (p *Projection) MoveLeft(display int) int {
	i := p.slot(display)
	if i < 0 {
		return display
	}
	j := p.prevVisible(i)
	if j < 0 {
		return display
	}
	p.entries[i], p.entries[j] = p.entries[j], p.entries[i]
	return display - 1
}

// MoveRight swaps the column at display with its visible right neighbour and
// returns its new displayed index. It does nothing at the right end.
func (p *Projection) MoveRight(display int) int {
	i := p.slot(display)
	if i < 0 {
		return display
	}
	j := p.nextVisible(i)
	if j < 0 {
		return display
	}
	p.entries[i], p.entries[j] = p.entries[j], p.entries[i]
	return display + 1
}

// Hide hides the column at display. Hiding the last visible column is
// rejected with a *LayoutError.
func (p *Projection) Hide(display int) error {
	i := p.slot(display)
	if i < 0 {
		return &LayoutError{Op: "hide", Reason: fmt.Sprintf("no column at %d", display)}
	}
	if p.Len() == 1 {
		return &LayoutError{Op: "hide", Reason: "cannot hide the last visible column"}
	}
	p.entries[i].Visible = false
	return nil
}

// Reset restores the original order and shows every column.
func (p *Projection) Reset() {
	p.Resize(len(p.entries))
}

func (p *Projection) slot(display int) int {
	if display < 0 {
		return -1
	}
	d := 0
	for i, e := range p.entries {
		if !e.Visible {
			continue
		}
		if d == display {
			return i
		}
		d++
	}
	return -1
}

func (p *Projection) prevVisible(i int) int {
	for j := i - 1; j >= 0; j-- {
		if p.entries[j].Visible {
			return j
		}
	}
	return -1
}

func (p *Projection) nextVisible(i int) int {
	for j := i + 1; j < len(p.entries); j++ {
		if p.entries[j].Visible {
			return j
		}
	}
	return -1
}
