// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package grid

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ActionKind enumerates what a key asks for.
type ActionKind int

const (
	ActNone ActionKind = iota

	// Application level, handled by the caller.
	ActQuit
	ActNextTab
	ActPrevTab
	ActCloseTab
	ActToggleHelp

	// Normal mode.
	ActCursorUp
	ActCursorDown
	ActCursorLeft
	ActCursorRight
	ActWindowUp
	ActWindowDown
	ActWindowLeft
	ActWindowRight
	ActTop
	ActBottom
	ActDescribe
	ActLoadAll
	ActCopy
	ActCancelQuery
	ActStartJump
	ActStartQuery

	// Sizing mode.
	ActReduce
	ActAugment
	ActFree
	ActFit
	ActToggleFit
	ActResetSizing
	ActFitAll

	// Projection mode.
	ActMoveLeft
	ActMoveRight
	ActResetProjection
	ActHide

	// Navigation mode.
	ActPromptKey
	ActCommit
	ActCancelPrompt
)

// Action is the outcome of one key. Text carries the first prompt character
// for ActStartJump.
type Action struct {
	Kind ActionKind
	Text string
}

func act(k ActionKind) Action { return Action{Kind: k} }

// Global reports whether the action concerns the application rather than a
// single grid.
func (a Action) Global() bool {
	switch a.Kind {
	case ActQuit, ActNextTab, ActPrevTab, ActCloseTab, ActToggleHelp:
		return true
	}
	return false
}

// digit returns the rune of a single-digit key.
func digit(msg tea.KeyMsg) (string, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 || msg.Alt {
		return "", false
	}
	r := msg.Runes[0]
	if r < '0' || r > '9' {
		return "", false
	}
	return string(r), true
}

// Dispatch maps a key in mode to the next mode and an action. It has no side
// effects.
func Dispatch(keys KeyMap, mode Mode, msg tea.KeyMsg) (Mode, Action) {
	if key.Matches(msg, keys.Quit) {
		return mode, act(ActQuit)
	}

	if mode == ModeNavigation {
		switch {
		case key.Matches(msg, keys.Cancel):
			return ModeNormal, act(ActCancelPrompt)
		case key.Matches(msg, keys.Commit):
			return ModeNormal, act(ActCommit)
		}
		return ModeNavigation, act(ActPromptKey)
	}

	switch {
	case key.Matches(msg, keys.NextTab):
		return mode, act(ActNextTab)
	case key.Matches(msg, keys.PrevTab):
		return mode, act(ActPrevTab)
	}

	switch mode {
	case ModeSizing:
		return dispatchSizing(keys, msg)
	case ModeProjection:
		return dispatchProjection(keys, msg)
	}
	return dispatchNormal(keys, msg)
}

func dispatchNormal(keys KeyMap, msg tea.KeyMsg) (Mode, Action) {
	if d, ok := digit(msg); ok {
		return ModeNavigation, Action{Kind: ActStartJump, Text: d}
	}
	switch {
	case key.Matches(msg, keys.Sizing):
		return ModeSizing, act(ActNone)
	case key.Matches(msg, keys.Projection):
		return ModeProjection, act(ActNone)
	case key.Matches(msg, keys.Query):
		return ModeNavigation, act(ActStartQuery)
	case key.Matches(msg, keys.Up):
		return ModeNormal, act(ActCursorUp)
	case key.Matches(msg, keys.Down):
		return ModeNormal, act(ActCursorDown)
	case key.Matches(msg, keys.Left):
		return ModeNormal, act(ActCursorLeft)
	case key.Matches(msg, keys.Right):
		return ModeNormal, act(ActCursorRight)
	case key.Matches(msg, keys.WindowUp):
		return ModeNormal, act(ActWindowUp)
	case key.Matches(msg, keys.WindowDown):
		return ModeNormal, act(ActWindowDown)
	case key.Matches(msg, keys.WindowLeft):
		return ModeNormal, act(ActWindowLeft)
	case key.Matches(msg, keys.WindowRight):
		return ModeNormal, act(ActWindowRight)
	case key.Matches(msg, keys.Top):
		return ModeNormal, act(ActTop)
	case key.Matches(msg, keys.Bottom):
		return ModeNormal, act(ActBottom)
	case key.Matches(msg, keys.Describe):
		return ModeNormal, act(ActDescribe)
	case key.Matches(msg, keys.LoadAll):
		return ModeNormal, act(ActLoadAll)
	case key.Matches(msg, keys.Copy):
		return ModeNormal, act(ActCopy)
	case key.Matches(msg, keys.CloseTab):
		return ModeNormal, act(ActCloseTab)
	case key.Matches(msg, keys.Help):
		return ModeNormal, act(ActToggleHelp)
	case key.Matches(msg, keys.Cancel):
		return ModeNormal, act(ActCancelQuery)
	}
	return ModeNormal, act(ActNone)
}

func dispatchSizing(keys KeyMap, msg tea.KeyMsg) (Mode, Action) {
	switch {
	case key.Matches(msg, keys.Sizing), key.Matches(msg, keys.Cancel):
		return ModeNormal, act(ActNone)
	case key.Matches(msg, keys.Left):
		return ModeSizing, act(ActReduce)
	case key.Matches(msg, keys.Right):
		return ModeSizing, act(ActAugment)
	case key.Matches(msg, keys.Up):
		return ModeSizing, act(ActFree)
	case key.Matches(msg, keys.Down):
		return ModeSizing, act(ActFit)
	case key.Matches(msg, keys.ToggleFit):
		return ModeSizing, act(ActToggleFit)
	case key.Matches(msg, keys.Reset):
		return ModeSizing, act(ActResetSizing)
	case key.Matches(msg, keys.FitAll):
		return ModeSizing, act(ActFitAll)
	case key.Matches(msg, keys.Help):
		return ModeSizing, act(ActToggleHelp)
	}
	return ModeSizing, act(ActNone)
}

func dispatchProjection(keys KeyMap, msg tea.KeyMsg) (Mode, Action) {
	switch {
	case key.Matches(msg, keys.Projection), key.Matches(msg, keys.Cancel):
		return ModeNormal, act(ActNone)
	case key.Matches(msg, keys.Left):
		return ModeProjection, act(ActMoveLeft)
	case key.Matches(msg, keys.Right):
		return ModeProjection, act(ActMoveRight)
	case key.Matches(msg, keys.Up):
		return ModeProjection, act(ActResetProjection)
	case key.Matches(msg, keys.Down):
		return ModeProjection, act(ActHide)
	case key.Matches(msg, keys.Help):
		return ModeProjection, act(ActToggleHelp)
	}
	return ModeProjection, act(ActNone)
}
