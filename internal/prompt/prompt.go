// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt is the line editor used in Navigation mode. It wraps a
// bubbles textinput with history browsing and optional SQL highlighting.
package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tabula/internal/ui/styles"
	"github.com/jeranaias/tabula/internal/util"
)

// Prompt is a single-line text entry.
type Prompt struct {
	input   textinput.Model
	history *History
	theme   *styles.Theme

	active    bool
	label     string
	highlight bool
	message   string

	browsing int // history index, -1 when editing the draft
	draft    string
}

// New creates an inactive prompt. history may be shared between prompts.
func New(theme *styles.Theme, history *History) *Prompt {
	if history == nil {
		history = NewHistory(0, nil)
	}
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 4096
	ti.PromptStyle = theme.PromptLabel
	ti.TextStyle = theme.PromptText
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Cyan)

	return &Prompt{
		input:    ti,
		history:  history,
		theme:    theme,
		browsing: -1,
	}
}

// Start activates the prompt with initial text and the cursor at its end.
// highlight turns on SQL highlighting.
func (p *Prompt) Start(label, initial string, highlight bool) tea.Cmd {
	p.active = true
	p.label = label
	p.highlight = highlight
	p.message = ""
	p.browsing = -1
	p.draft = ""
	p.input.SetValue(initial)
	p.input.CursorEnd()
	return p.input.Focus()
}

// Active reports whether the prompt is accepting input.
func (p *Prompt) Active() bool { return p.active }

// Value returns the current text.
func (p *Prompt) Value() string { return p.input.Value() }

// History returns the shared history.
func (p *Prompt) History() *History { return p.history }

// SetMessage shows a message (usually an error) in place of the prompt
// until the next Start.
func (p *Prompt) SetMessage(msg string) { p.message = msg }

// Message returns the pending message.
func (p *Prompt) Message() string { return p.message }

// Update forwards a key to the editor. Up and down browse history.
func (p *Prompt) Update(msg tea.KeyMsg) tea.Cmd {
	if !p.active {
		return nil
	}
	switch msg.Type {
	case tea.KeyUp:
		p.browse(1)
		return nil
	case tea.KeyDown:
		p.browse(-1)
		return nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.browsing = -1
	return cmd
}

// Commit deactivates the prompt, records the text in history and returns it.
func (p *Prompt) Commit() string {
	text := strings.TrimSpace(p.input.Value())
	p.history.Add(text)
	p.reset()
	return text
}

// Cancel deactivates the prompt and discards its text.
func (p *Prompt) Cancel() {
	p.reset()
}

func (p *Prompt) reset() {
	p.active = false
	p.browsing = -1
	p.draft = ""
	p.input.Reset()
	p.input.Blur()
}

func (p *Prompt) browse(step int) {
	next := p.browsing + step
	if next < -1 || next >= p.history.Len() {
		return
	}
	if p.browsing == -1 {
		p.draft = p.input.Value()
	}
	p.browsing = next
	if next == -1 {
		p.input.SetValue(p.draft)
	} else {
		entry, _ := p.history.At(next)
		p.input.SetValue(entry)
	}
	p.input.CursorEnd()
}

// View renders the prompt line at most width cells wide.
func (p *Prompt) View(width int) string {
	if !p.active {
		if p.message != "" {
			return p.theme.PromptError.Render(util.Truncate(p.message, width))
		}
		return ""
	}

	label := p.theme.PromptLabel.Render(p.label)
	room := width - util.Width(p.label)
	if room < 1 {
		return label
	}
	value := p.input.Value()
	if p.highlight && util.Width(value)+1 <= room {
		return label + p.renderHighlighted(value, p.input.Position())
	}
	p.input.Width = room - 1
	return label + p.input.View()
}

// renderHighlighted renders value with SQL token colors and a block cursor
// at pos (a rune index).
func (p *Prompt) renderHighlighted(value string, pos int) string {
	var b strings.Builder
	i := 0
	for _, span := range highlightSQL(value) {
		for _, r := range span.text {
			if i == pos {
				b.WriteString(p.theme.Cursor.Render(string(r)))
			} else {
				b.WriteString(span.style.Render(string(r)))
			}
			i++
		}
	}
	if pos >= i {
		b.WriteString(p.theme.Cursor.Render(" "))
	}
	return b.String()
}
