// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package grid is one interactive data grid: a frame with its projection,
// column sizing and viewport, driven by a modal key map.
//
// Key handling is split in two. Dispatch is a pure function from the current
// mode and a key to the next mode and an Action. Grid.HandleKey applies the
// Action to the grid's state and hands back the Action so the caller can
// handle the ones that concern more than one grid (tab switching, quitting).
package grid
