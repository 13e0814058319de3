// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package grid

// Mode is the input mode of a Grid.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSizing
	ModeProjection
	ModeNavigation
)

// String returns the badge label of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSizing:
		return "SIZE"
	case ModeProjection:
		return "MOVE"
	case ModeNavigation:
		return "NAV"
	default:
		return "NORMAL"
	}
}
