// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// GRID STYLES
	// ==========================================================================

	Header       lipgloss.Style
	HeaderCursor lipgloss.Style
	Cell         lipgloss.Style
	CursorRow    lipgloss.Style
	CursorCell   lipgloss.Style
	Null         lipgloss.Style
	Index        lipgloss.Style
	IndexCursor  lipgloss.Style
	Separator    lipgloss.Style
	Placeholder  lipgloss.Style

	// ==========================================================================
	// TAB BAR STYLES
	// ==========================================================================

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	TabBar      lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusText   lipgloss.Style
	StatusMuted  lipgloss.Style
	StatusError  lipgloss.Style
	StatusLoad   lipgloss.Style
	ModeNormal   lipgloss.Style
	ModeSizing   lipgloss.Style
	ModeMove     lipgloss.Style
	ModeNav      lipgloss.Style
	ModeQuery    lipgloss.Style
	ModeDescribe lipgloss.Style
	Spinner      lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// PROMPT STYLES
	// ==========================================================================

	PromptLabel lipgloss.Style
	PromptText  lipgloss.Style
	PromptError lipgloss.Style
	Cursor      lipgloss.Style
}

// NewTheme creates a theme. name is "dark", "light" or "auto"; "auto"
// follows the terminal background.
func NewTheme(name string) *Theme {
	colorProfile := termenv.ColorProfile()
	isDark := termenv.HasDarkBackground()
	switch name {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)
	t.HeaderCursor = t.Header.
		Underline(true)
	t.Cell = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.CursorRow = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright)
	t.CursorCell = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Bold(true)
	t.Null = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.Index = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.IndexCursor = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.Separator = lipgloss.NewStyle().
		Foreground(Overlay)
	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Faint(true)

	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1)
	t.TabInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)
	t.TabBar = lipgloss.NewStyle().
		Background(SurfaceDim)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim)
	t.StatusText = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.StatusMuted = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	t.StatusLoad = lipgloss.NewStyle().
		Foreground(Amber)

	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Padding(0, 1)
	t.ModeNormal = badge.Background(Purple)
	t.ModeSizing = badge.Background(Amber)
	t.ModeMove = badge.Background(Emerald)
	t.ModeNav = badge.Background(Cyan)
	t.ModeQuery = badge.Background(SyntaxFunction)
	t.ModeDescribe = badge.Background(TextSecondary)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Amber)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.PromptLabel = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.PromptText = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.PromptError = lipgloss.NewStyle().
		Foreground(Rose)
	t.Cursor = lipgloss.NewStyle().
		Reverse(true)
}

// ModeBadge returns the badge style for a mode label.
func (t *Theme) ModeBadge(label string) lipgloss.Style {
	switch label {
	case "SIZE":
		return t.ModeSizing
	case "MOVE":
		return t.ModeMove
	case "NAV":
		return t.ModeNav
	case "QUERY":
		return t.ModeQuery
	case "DESC":
		return t.ModeDescribe
	default:
		return t.ModeNormal
	}
}
