// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import "strings"

// History is a bounded, deduplicated list of committed entries, newest
// first.
type History struct {
	entries []string
	max     int
}

// NewHistory creates a history holding at most max entries, seeded with
// entries (newest first).
func NewHistory(max int, entries []string) *History {
	if max <= 0 {
		max = 100
	}
	h := &History{max: max}
	for i := len(entries) - 1; i >= 0; i-- {
		h.Add(entries[i])
	}
	return h
}

// Add records an entry. Blank entries are ignored and an existing copy moves
// to the front.
func (h *History) Add(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}
	for i, e := range h.entries {
		if e == entry {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append([]string{entry}, h.entries...)
	if len(h.entries) > h.max {
		h.entries = h.entries[:h.max]
	}
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// At returns the i-th newest entry.
func (h *History) At(i int) (string, bool) {
	if i < 0 || i >= len(h.entries) {
		return "", false
	}
	return h.entries[i], true
}

// Entries returns a copy of the entries, newest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
