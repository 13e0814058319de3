// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"context"
	"fmt"

	"github.com/jeranaias/tabula/internal/frame"
)

// DistinctCap bounds distinct-value tracking per column. Columns with more
// distinct values report the cap.
const DistinctCap = 10000

// DescribeSchema is the layout of a description frame: one row per column
// of the described frame.
var DescribeSchema = frame.NewSchema(
	frame.Field{Name: "column", Type: frame.TypeString},
	frame.Field{Name: "type", Type: frame.TypeString},
	frame.Field{Name: "count", Type: frame.TypeInteger},
	frame.Field{Name: "nulls", Type: frame.TypeInteger},
	frame.Field{Name: "distinct", Type: frame.TypeInteger},
	frame.Field{Name: "min", Type: frame.TypeString},
	frame.Field{Name: "max", Type: frame.TypeString},
	frame.Field{Name: "mean", Type: frame.TypeFloat},
)

type columnStats struct {
	count    int64
	nulls    int64
	distinct map[string]struct{}
	capped   bool
	min, max frame.Value
	hasRange bool
	sum      float64
	numeric  int64
}

func (c *columnStats) add(v frame.Value) {
	if v.Null {
		c.nulls++
		return
	}
	c.count++
	if !c.capped {
		c.distinct[v.String()] = struct{}{}
		if len(c.distinct) >= DistinctCap {
			c.capped = true
		}
	}
	if !c.hasRange {
		c.min, c.max, c.hasRange = v, v, true
	} else {
		if v.Compare(c.min) < 0 {
			c.min = v
		}
		if v.Compare(c.max) > 0 {
			c.max = v
		}
	}
	if f, ok := v.AsFloat(); ok {
		c.sum += f
		c.numeric++
	}
}

func (c *columnStats) row(f frame.Field) frame.Row {
	row := frame.Row{
		frame.StringValue(f.Name),
		frame.StringValue(f.Type.String()),
		frame.IntValue(c.count),
		frame.IntValue(c.nulls),
		frame.IntValue(int64(len(c.distinct))),
		frame.NullValue(frame.TypeString),
		frame.NullValue(frame.TypeString),
		frame.NullValue(frame.TypeFloat),
	}
	if c.hasRange {
		row[5] = frame.StringValue(c.min.String())
		row[6] = frame.StringValue(c.max.String())
	}
	if c.numeric > 0 {
		row[7] = frame.FloatValue(c.sum / float64(c.numeric))
	}
	return row
}

// Describe returns an Opener that scans the whole of the frame opened by
// target and yields per-column statistics. The scan runs inside the
// description frame's own background goroutine.
func Describe(target frame.Opener, blockRows int) frame.Opener {
	if blockRows <= 0 {
		blockRows = 4096
	}
	return func(ctx context.Context) (frame.DataSource, error) {
		src, err := target(ctx)
		if err != nil {
			return nil, err
		}
		defer src.Close()

		schema := src.Schema()
		stats := make([]*columnStats, schema.Len())
		for i := range stats {
			stats[i] = &columnStats{distinct: make(map[string]struct{})}
		}
		for start := 0; ; {
			rows, err := src.Fetch(ctx, start, blockRows)
			if err != nil {
				return nil, fmt.Errorf("describe: %w", err)
			}
			for _, r := range rows {
				for i, st := range stats {
					if i < len(r) {
						st.add(r[i])
					}
				}
			}
			start += len(rows)
			if len(rows) < blockRows {
				break
			}
		}

		out := make([]frame.Row, len(stats))
		for i, st := range stats {
			out[i] = st.row(schema.Field(i))
		}
		return NewMemory(DescribeSchema, out), nil
	}
}
