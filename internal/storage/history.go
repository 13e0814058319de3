// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/jeranaias/tabula/internal/util"
)

// =============================================================================
// STORED HISTORY TYPE
// =============================================================================

// StoredHistory is the on-disk history document.
type StoredHistory struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`

	// Entries are newest first.
	Entries []string `json:"entries"`
}

const historyVersion = 1

// =============================================================================
// HISTORY STORE
// =============================================================================

// HistoryStore handles prompt history persistence.
type HistoryStore struct {
	// Path is the history file.
	// Default: ~/.tabula/history.json
	Path string

	// MaxEntries limits stored entries (0 = unlimited).
	MaxEntries int
}

// NewHistoryStore creates a store at the default location.
func NewHistoryStore() (*HistoryStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewHistoryStoreAt(filepath.Join(homeDir, ".tabula", "history.json")), nil
}

// NewHistoryStoreAt creates a store for a custom path.
func NewHistoryStoreAt(path string) *HistoryStore {
	return &HistoryStore{Path: path, MaxEntries: 100}
}

// Load reads the stored entries. A missing file is an empty history.
func (s *HistoryStore) Load() ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var doc StoredHistory
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", s.Path, err)
	}
	return s.trim(doc.Entries), nil
}

// Save writes entries atomically.
func (s *HistoryStore) Save(entries []string) error {
	doc := StoredHistory{
		Version:   historyVersion,
		UpdatedAt: time.Now(),
		Entries:   s.trim(entries),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return util.AtomicWriteFile(s.Path, data, 0600)
}

func (s *HistoryStore) trim(entries []string) []string {
	if s.MaxEntries > 0 && len(entries) > s.MaxEntries {
		return entries[:s.MaxEntries]
	}
	return entries
}
