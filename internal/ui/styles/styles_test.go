// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		percent float64
		want    string
	}{
		{"empty", 4, 0, "----"},
		{"full", 4, 100, "####"},
		{"half", 4, 50, "##--"},
		{"clamped", 3, 250, "###"},
		{"zero width", 0, 50, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderProgressBar(tt.width, tt.percent); got != tt.want {
				t.Errorf("RenderProgressBar(%d, %v) = %q, want %q", tt.width, tt.percent, got, tt.want)
			}
		})
	}
}

func TestRenderProgressBarWidth(t *testing.T) {
	for p := 0.0; p <= 100; p += 7.5 {
		bar := RenderProgressBar(10, p)
		if n := len([]rune(bar)); n != 10 {
			t.Errorf("RenderProgressBar(10, %v) has %d cells: %q", p, n, bar)
		}
	}
}

func TestNewThemeForcedBackground(t *testing.T) {
	if !NewTheme("dark").IsDark {
		t.Error("Expected dark theme to report IsDark")
	}
	if NewTheme("light").IsDark {
		t.Error("Expected light theme to report !IsDark")
	}
}

func TestModeBadge(t *testing.T) {
	theme := NewTheme("dark")
	for _, label := range []string{"NORMAL", "SIZE", "MOVE", "NAV", "QUERY", "DESC"} {
		out := theme.ModeBadge(label).Render(label)
		if !strings.Contains(out, label) {
			t.Errorf("ModeBadge(%q) rendered %q without its label", label, out)
		}
	}
}
