// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists prompt history for tabula.
//
// # Usage
//
//	store, err := storage.NewHistoryStore()
//	entries, err := store.Load()
//	err = store.Save(entries)
//
// # Storage Location
//
// History is stored in ~/.tabula/history.json as a JSON document.
package storage
