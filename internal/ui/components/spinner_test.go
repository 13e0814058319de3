// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
)

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestNewSpinnerIsIdle(t *testing.T) {
	s := NewSpinner()
	if s.IsActive() {
		t.Error("NewSpinner() should not be active initially")
	}
	if got := s.Frame(); got != "" {
		t.Errorf("idle Frame() = %q, want empty", got)
	}
}

func TestSpinnerStartOnce(t *testing.T) {
	s := NewSpinner()
	if cmd := s.Start(); cmd == nil {
		t.Fatal("first Start() should return a tick")
	}
	if cmd := s.Start(); cmd != nil {
		t.Error("second Start() should not schedule another tick")
	}
	if s.Frame() == "" {
		t.Error("active spinner should render a frame")
	}
}

func TestSpinnerStopDropsTicks(t *testing.T) {
	s := NewSpinner()
	s.Start()
	s.Stop()

	s, cmd := s.Update(spinner.TickMsg{})
	if cmd != nil {
		t.Error("stopped spinner should not reschedule")
	}
	if s.IsActive() {
		t.Error("Update should not reactivate")
	}
}
