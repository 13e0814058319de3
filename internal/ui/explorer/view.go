// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package explorer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// LAYOUT
// =============================================================================

// statusHeight is the status line.
const statusHeight = 1

func (m *Model) tabBarHeight() int {
	if m.tabs.Len() > 1 {
		return 1
	}
	return 0
}

func (m *Model) helpView() string {
	tab := m.tabs.Active()
	if tab == nil || (!m.cfg.UI.ShowHelp && !m.fullHelp) {
		return ""
	}
	m.help.ShowAll = m.fullHelp
	return m.help.View(tab.Grid.Help())
}

func (m *Model) helpHeight() int {
	v := m.helpView()
	if v == "" {
		return 0
	}
	return lipgloss.Height(v)
}

// gridHeight is what remains for the grid, prompt line included.
func (m *Model) gridHeight() int {
	return max(1, m.height-m.tabBarHeight()-statusHeight-m.helpHeight())
}

// layout sizes every component for the current window and mode.
func (m *Model) layout() {
	m.help.Width = m.width
	m.status.SetWidth(m.width)
	h := m.gridHeight()
	for _, t := range m.tabs.Tabs() {
		t.Grid.SetSize(m.width, h)
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the tab bar, the active grid, the status line and the help
// footer, top to bottom.
func (m *Model) View() string {
	tab := m.tabs.Active()
	if tab == nil || m.width <= 0 {
		return ""
	}

	parts := make([]string, 0, 4)
	if m.tabBarHeight() > 0 {
		parts = append(parts, m.tabBar.View(m.tabs.Titles(), m.tabs.ActiveIndex(), m.width))
	}
	parts = append(parts, tab.Grid.View())

	info := tab.Grid.Status()
	info.Spinner = m.spinner.Frame()
	parts = append(parts, m.status.View(info))

	if help := m.helpView(); help != "" {
		parts = append(parts, help)
	}
	return strings.Join(parts, "\n")
}
