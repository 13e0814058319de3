// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package frame

import "sort"

// Snapshot is a consistent, read-only view of a frame. A new Snapshot is
// published on every change; published snapshots are never mutated.
type Snapshot struct {
	Schema Schema

	// Opened is true once the source has been opened at least once.
	Opened bool

	// Count is the number of rows known to exist. It is exact when Final.
	Count int
	Final bool

	// Loading is true while the background task still has work queued.
	Loading bool

	// Err is the frame-level error state, a *SourceError.
	Err error

	// Version increments on every publish.
	Version uint64

	// Generation increments every time the source is reopened.
	Generation uint64

	chunkRows int
	loaded    int
	chunks    map[int]*Chunk
}

func (s *Snapshot) clone() *Snapshot {
	cp := *s
	cp.chunks = make(map[int]*Chunk, len(s.chunks)+1)
	for k, v := range s.chunks {
		cp.chunks[k] = v
	}
	return &cp
}

// ChunkRows returns the configured chunk length.
func (s *Snapshot) ChunkRows() int { return s.chunkRows }

// Loaded returns how many rows the current generation has read so far.
func (s *Snapshot) Loaded() int { return s.loaded }

// Resident returns the number of chunks held in memory.
func (s *Snapshot) Resident() int { return len(s.chunks) }

// Chunk returns the resident chunk with the given index.
func (s *Snapshot) Chunk(index int) (*Chunk, bool) {
	c, ok := s.chunks[index]
	return c, ok
}

// Stale reports whether a chunk belongs to an older source generation.
func (s *Snapshot) Stale(c *Chunk) bool {
	return c.generation != s.Generation
}

// ChunksIn returns resident chunks with indexes in [from, to], in order.
func (s *Snapshot) ChunksIn(from, to int) []*Chunk {
	var out []*Chunk
	for idx, c := range s.chunks {
		if idx >= from && idx <= to {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Chunks returns every resident chunk in order.
func (s *Snapshot) Chunks() []*Chunk {
	out := make([]*Chunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Extent returns the number of rows the grid may scroll over. While a
// rebuild is in progress stale chunks still count so the view does not
// collapse.
func (s *Snapshot) Extent() int {
	if s.Final {
		return s.Count
	}
	n := s.Count
	for _, c := range s.chunks {
		if c.End() > n {
			n = c.End()
		}
	}
	return n
}

// Cell returns the value at (row, col) when it is resident.
func (s *Snapshot) Cell(row, col int) (Value, bool) {
	if s.chunkRows <= 0 || row < 0 || col < 0 || col >= s.Schema.Len() {
		return Value{}, false
	}
	c, ok := s.chunks[row/s.chunkRows]
	if !ok || !c.Contains(row) || col >= len(c.Columns) {
		return Value{}, false
	}
	return c.Cell(row, col), true
}
