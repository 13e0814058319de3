// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"context"

	"github.com/jeranaias/tabula/internal/frame"
)

// Memory serves rows held in memory.
type Memory struct {
	schema frame.Schema
	rows   []frame.Row
}

// NewMemory returns a source over rows. The slice is not copied.
func NewMemory(schema frame.Schema, rows []frame.Row) *Memory {
	return &Memory{schema: schema, rows: rows}
}

// MemoryOpener returns an Opener that always yields the same rows.
func MemoryOpener(schema frame.Schema, rows []frame.Row) frame.Opener {
	return func(ctx context.Context) (frame.DataSource, error) {
		return NewMemory(schema, rows), nil
	}
}

func (m *Memory) Schema() frame.Schema { return m.schema }

func (m *Memory) Count() (int, bool) { return len(m.rows), true }

func (m *Memory) Fetch(ctx context.Context, start, limit int) ([]frame.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if start >= len(m.rows) {
		return nil, nil
	}
	end := start + limit
	if end > len(m.rows) {
		end = len(m.rows)
	}
	return m.rows[start:end], nil
}

func (m *Memory) Close() error { return nil }
