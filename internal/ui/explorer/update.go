// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package explorer

import (
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tabula/internal/grid"
)

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the redraw waiter and the watcher listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForUpdate(), waitForWatch(m.watcher))
}

// Update handles a message and re-lays out the screen.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.layout()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m.spin()

	case FrameUpdatedMsg:
		m.syncAll()
		return tea.Batch(m.waitForUpdate(), m.spin())

	case FileChangedMsg:
		m.reload(msg.Path)
		return tea.Batch(waitForWatch(m.watcher), m.spin())

	case WatchErrorMsg:
		log.Printf("WATCH: %v", msg.Err)
		return waitForWatch(m.watcher)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return nil
}

// =============================================================================
// INPUT
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	tab := m.tabs.Active()
	if tab == nil {
		return tea.Quit
	}
	a, cmd := tab.Grid.HandleKey(msg)
	switch a.Kind {
	case grid.ActQuit:
		return tea.Quit
	case grid.ActNextTab:
		m.tabs.Next()
	case grid.ActPrevTab:
		m.tabs.Prev()
	case grid.ActCloseTab:
		m.closeTab()
		if m.tabs.Idle() {
			return tea.Quit
		}
	case grid.ActToggleHelp:
		m.fullHelp = !m.fullHelp
	}
	if tab := m.tabs.Active(); tab != nil {
		tab.Grid.Sync()
	}
	return tea.Batch(cmd, m.spin())
}

// closeTab closes the active tab and stops watching its file unless another
// tab still shows it.
func (m *Model) closeTab() {
	tab := m.tabs.Active()
	if tab == nil {
		return
	}
	path := tab.Path
	m.tabs.Close()
	if path == "" || m.watcher == nil {
		return
	}
	for _, t := range m.tabs.Tabs() {
		if t.Path == path {
			return
		}
	}
	m.watcher.Remove(path)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if !m.cfg.UI.Mouse {
		return
	}
	tab := m.tabs.Active()
	if tab == nil {
		return
	}
	msg.Y -= m.tabBarHeight()
	if msg.Y < 0 || msg.Y >= m.gridHeight() {
		return
	}
	tab.Grid.Mouse(msg)
}

// =============================================================================
// BACKGROUND UPDATES
// =============================================================================

// syncAll brings every grid up to date with its latest snapshot. Background
// tabs are synced too so that their pending queries resolve.
func (m *Model) syncAll() {
	for _, t := range m.tabs.Tabs() {
		t.Grid.Sync()
	}
}

// reload marks the tabs showing path stale. Query tabs are reloaded as well
// since they may read the file.
func (m *Model) reload(path string) {
	n := m.tabs.MarkStale(path)
	if n == 0 {
		return
	}
	log.Printf("WATCH: %s changed, reloading %d tab(s)", path, n)
	for _, t := range m.tabs.Tabs() {
		if t.Path == "" {
			t.Grid.MarkStale()
		}
	}
}

// spin runs the spinner while the active tab is loading.
func (m *Model) spin() tea.Cmd {
	tab := m.tabs.Active()
	if tab != nil && tab.Grid.Status().Loading {
		return m.spinner.Start()
	}
	m.spinner.Stop()
	return nil
}
