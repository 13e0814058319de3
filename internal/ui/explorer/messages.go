// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package explorer

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tabula/internal/watch"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// FrameUpdatedMsg reports that at least one frame published new data since
// the last redraw.
type FrameUpdatedMsg struct{}

// FileChangedMsg reports that a watched file changed on disk.
type FileChangedMsg struct {
	Path string
}

// WatchErrorMsg carries a non-fatal watcher failure.
type WatchErrorMsg struct {
	Err error
}

// redrawInterval is the minimum spacing between FrameUpdatedMsgs.
const redrawInterval = 33 * time.Millisecond

// =============================================================================
// COMMANDS
// =============================================================================

// notify wakes the redraw waiter. It never blocks; a wake-up already queued
// covers this one.
func (m *Model) notify() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}

// waitForUpdate blocks until a frame publishes, throttled by the limiter.
// Exactly one is outstanding at a time; Update re-arms it.
func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.updates:
		case <-m.ctx.Done():
			return nil
		}
		if err := m.limiter.Wait(m.ctx); err != nil {
			return nil
		}
		return FrameUpdatedMsg{}
	}
}

// waitForWatch delivers the next watcher event or error.
func waitForWatch(w watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			return FileChangedMsg{Path: ev.Path}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return WatchErrorMsg{Err: err}
		}
	}
}
