// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tabs keeps the ordered set of open grids and which one is active.
package tabs

import (
	"path/filepath"

	"github.com/jeranaias/tabula/internal/grid"
)

// Tab is one open dataset.
type Tab struct {
	Title string
	Path  string // backing file, empty for query tabs
	Grid  *grid.Grid
}

// Manager is a slice of tabs plus the active index. It is used from the
// event loop only.
type Manager struct {
	tabs   []*Tab
	active int
}

// New returns an idle manager.
func New() *Manager {
	return &Manager{active: -1}
}

// Open appends a tab and makes it active.
func (m *Manager) Open(title, path string, g *grid.Grid) *Tab {
	t := &Tab{Title: title, Path: cleanPath(path), Grid: g}
	m.tabs = append(m.tabs, t)
	m.active = len(m.tabs) - 1
	return t
}

// Len returns the number of open tabs.
func (m *Manager) Len() int { return len(m.tabs) }

// Idle reports whether no tab is open.
func (m *Manager) Idle() bool { return len(m.tabs) == 0 }

// Active returns the active tab, or nil when idle.
func (m *Manager) Active() *Tab {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.active]
}

// ActiveIndex returns the position of the active tab, -1 when idle.
func (m *Manager) ActiveIndex() int { return m.active }

// Activate makes the tab at i active.
func (m *Manager) Activate(i int) bool {
	if i < 0 || i >= len(m.tabs) {
		return false
	}
	m.active = i
	return true
}

// Next activates the following tab, wrapping around.
func (m *Manager) Next() {
	if n := len(m.tabs); n > 0 {
		m.active = (m.active + 1) % n
	}
}

// Prev activates the preceding tab, wrapping around.
func (m *Manager) Prev() {
	if n := len(m.tabs); n > 0 {
		m.active = (m.active - 1 + n) % n
	}
}

// Close closes the active tab's grid and removes it. The previous tab becomes
// active, else the next one. It returns false when there was nothing to
// close.
func (m *Manager) Close() bool {
	t := m.Active()
	if t == nil {
		return false
	}
	t.Grid.Close()

	i := m.active
	m.tabs = append(m.tabs[:i], m.tabs[i+1:]...)
	switch {
	case len(m.tabs) == 0:
		m.active = -1
	case i > 0:
		m.active = i - 1
	default:
		m.active = 0
	}
	return true
}

// CloseAll closes every tab.
func (m *Manager) CloseAll() {
	for _, t := range m.tabs {
		t.Grid.Close()
	}
	m.tabs = nil
	m.active = -1
}

// Tabs returns the open tabs in order.
func (m *Manager) Tabs() []*Tab {
	out := make([]*Tab, len(m.tabs))
	copy(out, m.tabs)
	return out
}

// Titles returns the tab titles in order.
func (m *Manager) Titles() []string {
	out := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		out[i] = t.Title
	}
	return out
}

// MarkStale reloads every tab backed by path and returns how many there were.
func (m *Manager) MarkStale(path string) int {
	path = cleanPath(path)
	if path == "" {
		return 0
	}
	n := 0
	for _, t := range m.tabs {
		if t.Path == path {
			t.Grid.MarkStale()
			n++
		}
	}
	return n
}

func cleanPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
