// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package grid

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDispatch(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		name string
		mode Mode
		msg  tea.KeyMsg
		want Mode
		kind ActionKind
	}{
		{"enter sizing", ModeNormal, runes("s"), ModeSizing, ActNone},
		{"leave sizing with s", ModeSizing, runes("s"), ModeNormal, ActNone},
		{"leave sizing with esc", ModeSizing, tea.KeyMsg{Type: tea.KeyEsc}, ModeNormal, ActNone},
		{"enter projection", ModeNormal, runes("p"), ModeProjection, ActNone},
		{"leave projection", ModeProjection, tea.KeyMsg{Type: tea.KeyEsc}, ModeNormal, ActNone},
		{"digit starts jump", ModeNormal, runes("7"), ModeNavigation, ActStartJump},
		{"dollar starts query", ModeNormal, runes("$"), ModeNavigation, ActStartQuery},
		{"esc cancels prompt", ModeNavigation, tea.KeyMsg{Type: tea.KeyEsc}, ModeNormal, ActCancelPrompt},
		{"enter commits", ModeNavigation, tea.KeyMsg{Type: tea.KeyEnter}, ModeNormal, ActCommit},
		{"letters go to prompt", ModeNavigation, runes("q"), ModeNavigation, ActPromptKey},
		{"tab goes to prompt", ModeNavigation, tea.KeyMsg{Type: tea.KeyTab}, ModeNavigation, ActPromptKey},
		{"quit from navigation", ModeNavigation, tea.KeyMsg{Type: tea.KeyCtrlC}, ModeNavigation, ActQuit},
		{"quit from sizing", ModeSizing, tea.KeyMsg{Type: tea.KeyCtrlC}, ModeSizing, ActQuit},
		{"close tab", ModeNormal, runes("q"), ModeNormal, ActCloseTab},
		{"next tab keeps mode", ModeProjection, tea.KeyMsg{Type: tea.KeyTab}, ModeProjection, ActNextTab},
		{"prev tab", ModeNormal, tea.KeyMsg{Type: tea.KeyShiftTab}, ModeNormal, ActPrevTab},
		{"cursor down", ModeNormal, runes("j"), ModeNormal, ActCursorDown},
		{"window down", ModeNormal, runes("J"), ModeNormal, ActWindowDown},
		{"bottom", ModeNormal, runes("G"), ModeNormal, ActBottom},
		{"esc cancels query", ModeNormal, tea.KeyMsg{Type: tea.KeyEsc}, ModeNormal, ActCancelQuery},
		{"reduce", ModeSizing, tea.KeyMsg{Type: tea.KeyLeft}, ModeSizing, ActReduce},
		{"augment", ModeSizing, runes("l"), ModeSizing, ActAugment},
		{"free", ModeSizing, tea.KeyMsg{Type: tea.KeyUp}, ModeSizing, ActFree},
		{"fit", ModeSizing, tea.KeyMsg{Type: tea.KeyDown}, ModeSizing, ActFit},
		{"reset sizing", ModeSizing, runes("r"), ModeSizing, ActResetSizing},
		{"fit all", ModeSizing, runes("f"), ModeSizing, ActFitAll},
		{"move left", ModeProjection, tea.KeyMsg{Type: tea.KeyLeft}, ModeProjection, ActMoveLeft},
		{"reset projection", ModeProjection, tea.KeyMsg{Type: tea.KeyUp}, ModeProjection, ActResetProjection},
		{"hide", ModeProjection, tea.KeyMsg{Type: tea.KeyDown}, ModeProjection, ActHide},
		{"unbound key", ModeNormal, runes("z"), ModeNormal, ActNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, a := Dispatch(keys, tt.mode, tt.msg)
			assert.Equal(t, tt.want, mode)
			assert.Equal(t, tt.kind, a.Kind)
		})
	}
}

func TestDispatchJumpCarriesDigit(t *testing.T) {
	_, a := Dispatch(DefaultKeyMap(), ModeNormal, runes("3"))
	assert.Equal(t, Action{Kind: ActStartJump, Text: "3"}, a)
}

func TestActionGlobal(t *testing.T) {
	assert.True(t, Action{Kind: ActQuit}.Global())
	assert.True(t, Action{Kind: ActCloseTab}.Global())
	assert.False(t, Action{Kind: ActCursorDown}.Global())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "NORMAL", ModeNormal.String())
	assert.Equal(t, "SIZE", ModeSizing.String())
	assert.Equal(t, "MOVE", ModeProjection.String())
	assert.Equal(t, "NAV", ModeNavigation.String())
}

func TestHelpKeyToggles(t *testing.T) {
	for _, mode := range []Mode{ModeNormal, ModeSizing, ModeProjection} {
		got, a := Dispatch(DefaultKeyMap(), mode, runes("?"))
		assert.Equal(t, mode, got, mode.String())
		assert.Equal(t, ActToggleHelp, a.Kind, mode.String())
	}
}

func helpDescs(bindings []key.Binding) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.Help().Desc)
	}
	return out
}

func TestModeHelp(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		mode Mode
		want []string
	}{
		{ModeNormal, []string{"help"}},
		{ModeSizing, []string{"narrower", "wider", "free", "fit"}},
		{ModeProjection, []string{"move left", "move right", "reset", "hide"}},
		{ModeNavigation, []string{"history"}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			short := helpDescs(keys.ModeHelp(tt.mode).ShortHelp())
			for _, desc := range tt.want {
				assert.Contains(t, short, desc)
			}
			assert.NotEmpty(t, keys.ModeHelp(tt.mode).FullHelp())
		})
	}
}
