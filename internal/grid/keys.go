// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package grid

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines every grid binding. In Sizing and Projection mode the
// arrow bindings take on that mode's meaning.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	WindowUp    key.Binding
	WindowDown  key.Binding
	WindowLeft  key.Binding
	WindowRight key.Binding
	Top         key.Binding
	Bottom      key.Binding

	Sizing     key.Binding
	Projection key.Binding
	Query      key.Binding
	Describe   key.Binding
	LoadAll    key.Binding
	Copy       key.Binding
	CloseTab   key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Help       key.Binding
	Cancel     key.Binding
	Commit     key.Binding
	Quit       key.Binding

	ToggleFit key.Binding
	Reset     key.Binding
	FitAll    key.Binding
}

// DefaultKeyMap returns the stock bindings: vim letters and arrows.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		WindowUp: key.NewBinding(
			key.WithKeys("K", "shift+up", "pgup"),
			key.WithHelp("K", "page up"),
		),
		WindowDown: key.NewBinding(
			key.WithKeys("J", "shift+down", "pgdown"),
			key.WithHelp("J", "page down"),
		),
		WindowLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "page left"),
		),
		WindowRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "page right"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Sizing: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "size columns"),
		),
		Projection: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "move columns"),
		),
		Query: key.NewBinding(
			key.WithKeys("$"),
			key.WithHelp("$", "query"),
		),
		Describe: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "describe"),
		),
		LoadAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "load all"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy cell"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "close tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev tab"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		ToggleFit: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "header/content"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		FitAll: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fit all"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// modeHelp is a help.KeyMap for one mode.
type modeHelp struct {
	short []key.Binding
	full  [][]key.Binding
}

func (m modeHelp) ShortHelp() []key.Binding  { return m.short }
func (m modeHelp) FullHelp() [][]key.Binding { return m.full }

// relabel returns a copy of b with different help text.
func relabel(b key.Binding, keys, desc string) key.Binding {
	b.SetHelp(keys, desc)
	return b
}

// ModeHelp returns the bindings worth showing in mode.
func (k KeyMap) ModeHelp(mode Mode) help.KeyMap {
	switch mode {
	case ModeSizing:
		reduce := relabel(k.Left, "←", "narrower")
		augment := relabel(k.Right, "→", "wider")
		free := relabel(k.Up, "↑", "free")
		fit := relabel(k.Down, "↓", "fit")
		done := relabel(k.Sizing, "s/esc", "done")
		return modeHelp{
			short: []key.Binding{reduce, augment, free, fit, done},
			full:  [][]key.Binding{{reduce, augment, free, fit}, {k.ToggleFit, k.Reset, k.FitAll, done}},
		}
	case ModeProjection:
		left := relabel(k.Left, "←", "move left")
		right := relabel(k.Right, "→", "move right")
		reset := relabel(k.Up, "↑", "reset")
		hide := relabel(k.Down, "↓", "hide")
		done := relabel(k.Projection, "p/esc", "done")
		return modeHelp{
			short: []key.Binding{left, right, reset, hide, done},
			full:  [][]key.Binding{{left, right, reset, hide, done}},
		}
	case ModeNavigation:
		history := relabel(k.Up, "↑/↓", "history")
		return modeHelp{
			short: []key.Binding{k.Commit, k.Cancel, history},
			full:  [][]key.Binding{{k.Commit, k.Cancel, history}},
		}
	}
	return modeHelp{
		short: []key.Binding{k.Sizing, k.Projection, k.Query, k.Describe, k.CloseTab, k.Help},
		full: [][]key.Binding{
			{k.Up, k.Down, k.Left, k.Right},
			{k.WindowUp, k.WindowDown, k.WindowLeft, k.WindowRight},
			{k.Top, k.Bottom, k.LoadAll, k.Copy},
			{k.Sizing, k.Projection, k.Query, k.Describe},
			{k.NextTab, k.PrevTab, k.CloseTab, k.Quit},
		},
	}
}
