// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tabula/internal/ui/styles"
	"github.com/jeranaias/tabula/internal/util"
)

// TabBar renders tab titles.
type TabBar struct {
	theme *styles.Theme
}

// NewTabBar creates a TabBar component.
func NewTabBar(theme *styles.Theme) *TabBar {
	return &TabBar{theme: theme}
}

// View renders titles with the active one highlighted. Titles are numbered
// from 1; tabs that do not fit are dropped from the right, except that the
// active tab is always shown.
func (t *TabBar) View(titles []string, active, width int) string {
	if len(titles) == 0 || width <= 0 {
		return ""
	}
	room := max(6, width/len(titles)-2)
	tabs := make([]string, len(titles))
	for i, title := range titles {
		label := fmt.Sprintf("%d:%s", i+1, util.Truncate(util.CellText(title), room))
		if i == active {
			tabs[i] = t.theme.TabActive.Render(label)
		} else {
			tabs[i] = t.theme.TabInactive.Render(label)
		}
	}

	first := 0
	for first < active && lipgloss.Width(joinTabs(tabs[first:active+1])) > width {
		first++
	}
	line := joinFit(tabs[first:], "", width)
	pad := width - lipgloss.Width(line)
	if pad > 0 {
		line += t.theme.TabBar.Render(fitLine("", pad))
	}
	return line
}

func joinTabs(tabs []string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
