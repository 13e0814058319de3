// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components renders the visual parts of the tabula TUI.

Components are plain renderers: they take a description of what to show and
return a string. They hold no grid state and never touch a Frame Provider.

# Components

GridView (gridview.go) - Paints header and body cells laid out by the grid.
StatusBar (statusbar.go) - Bottom line with mode badge, position and load state.
TabBar (tabbar.go) - Tab titles, shown when more than one tab is open.

# Usage

	view := components.NewGridView(theme)
	out := view.Render(components.GridFrame{
	    Headers: headers,
	    Lines:   lines,
	    Width:   80,
	    Height:  24,
	})
*/
package components
