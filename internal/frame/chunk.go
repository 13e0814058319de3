// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package frame

// Chunk is an immutable, contiguous block of rows stored column-major.
type Chunk struct {
	Index   int
	Start   int
	Columns [][]Value

	rows       int
	generation uint64
}

// newChunk transposes rows into column buffers. Short rows are padded with
// nulls so every column has the same length.
func newChunk(index, start int, rows []Row, schema Schema, generation uint64) *Chunk {
	width := schema.Len()
	cols := make([][]Value, width)
	for c := range cols {
		col := make([]Value, len(rows))
		for r, row := range rows {
			if c < len(row) {
				col[r] = row[c]
			} else {
				col[r] = NullValue(schema.Field(c).Type)
			}
		}
		cols[c] = col
	}
	return &Chunk{
		Index:      index,
		Start:      start,
		Columns:    cols,
		rows:       len(rows),
		generation: generation,
	}
}

// Len returns the number of rows in the chunk.
func (c *Chunk) Len() int { return c.rows }

// End returns the row index one past the chunk.
func (c *Chunk) End() int { return c.Start + c.rows }

// Contains reports whether the absolute row index falls in the chunk.
func (c *Chunk) Contains(row int) bool {
	return row >= c.Start && row < c.End()
}

// Cell returns the value at an absolute row and column.
func (c *Chunk) Cell(row, col int) Value {
	return c.Columns[col][row-c.Start]
}

// Row materializes one absolute row.
func (c *Chunk) Row(row int) Row {
	out := make(Row, len(c.Columns))
	for i, col := range c.Columns {
		out[i] = col[row-c.Start]
	}
	return out
}
