// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package grid

import (
	"strconv"

	"github.com/jeranaias/tabula/internal/frame"
	"github.com/jeranaias/tabula/internal/projection"
	"github.com/jeranaias/tabula/internal/sizing"
	"github.com/jeranaias/tabula/internal/ui/components"
	"github.com/jeranaias/tabula/internal/viewport"
)

// pane is one displayed frame: a provider plus the layout state that belongs
// to it. The base frame, a query result and the description each get one.
type pane struct {
	title  string
	query  string // set for query results
	opener frame.Opener
	prov   *frame.Provider

	sizeCfg sizing.Config
	size    *sizing.Engine
	proj    *projection.Projection
	vp      *viewport.Viewport

	schema  frame.Schema
	opened  bool
	version uint64
	gutter  int
	window  frame.Window
}

func newPane(title string, opener frame.Opener, cfg Config) *pane {
	opts := cfg.Frame
	opts.Name = title
	opts.OnUpdate = cfg.Notify
	return &pane{
		title:   title,
		opener:  opener,
		prov:    frame.NewProvider(opener, opts),
		sizeCfg: cfg.Sizing,
		proj:    projection.New(0),
		vp:      viewport.New(),
	}
}

// sync folds the latest snapshot into the layout state. A schema change
// resets projection and sizing; any new publish refreshes content widths.
func (p *pane) sync() *frame.Snapshot {
	snap := p.prov.Snapshot()
	if snap.Opened && (!p.opened || !snap.Schema.Equal(p.schema)) {
		p.opened = true
		p.schema = snap.Schema
		p.proj.Resize(p.schema.Len())
		p.size = sizing.New(p.sizeCfg, p.schema.Names())
		p.version = 0
	}
	if p.size != nil && snap.Version != p.version {
		p.version = snap.Version
		p.size.Observe(sizing.SampleWidths(p.nearby(snap), p.schema.Len()))
	}
	p.vp.SetRows(snap.Extent())
	return snap
}

// nearby returns the resident chunks around the visible rows.
func (p *pane) nearby(snap *frame.Snapshot) []*frame.Chunk {
	cr := max(1, snap.ChunkRows())
	first, end := p.vp.RowRange()
	last := max(first, end-1)
	return snap.ChunksIn(first/cr-1, last/cr+1)
}

// layout sizes the viewport for a width x height area, header included.
func (p *pane) layout(width, height, sep int) {
	p.gutter = len(strconv.Itoa(max(0, p.vp.Rows()-1)))
	p.vp.SetSeparator(sep)
	p.vp.SetColumns(p.widths(), width-p.gutter-sep)
	p.vp.SetHeight(height - 1)
}

// widths returns the display width of every visible column in order.
func (p *pane) widths() []int {
	if p.size == nil {
		return nil
	}
	visible := p.proj.Visible()
	out := make([]int, len(visible))
	for i, src := range visible {
		out[i] = p.size.Width(src)
	}
	return out
}

func (p *pane) fetch() {
	start, end := p.vp.RowRange()
	p.window = p.prov.Rows(start, end)
}

// source returns the source column under the cursor, or -1.
func (p *pane) source() int {
	return p.proj.Source(p.vp.CursorCol())
}

// current returns the cached value under the cursor.
func (p *pane) current() (frame.Value, bool) {
	src := p.source()
	row := p.window.Row(p.vp.CursorRow())
	if src < 0 || row == nil || src >= len(row) {
		return frame.Value{}, false
	}
	return row[src], true
}

// frame builds what the renderer paints for the current window.
func (p *pane) frame(width, height int, snap *frame.Snapshot) components.GridFrame {
	f := components.GridFrame{IndexWidth: p.gutter, Width: width, Height: height}
	if !p.opened {
		f.IndexWidth = 0
		if snap.Err != nil {
			f.Empty = snap.Err.Error()
		} else {
			f.Empty = "loading…"
		}
		return f
	}

	visible := p.proj.Visible()
	spans := p.vp.Columns()
	curRow, curCol := p.vp.CursorRow(), p.vp.CursorCol()
	for _, s := range spans {
		fld := p.schema.Field(visible[s.Col])
		f.Headers = append(f.Headers, components.Header{
			Text:    fld.Name,
			Width:   s.Width,
			Cursor:  s.Col == curCol,
			Numeric: fld.Type.Numeric(),
		})
	}

	start, end := p.vp.RowRange()
	for r := start; r < end; r++ {
		row := p.window.Row(r)
		line := components.Line{Index: strconv.Itoa(r), Cursor: r == curRow}
		for _, s := range spans {
			src := visible[s.Col]
			c := components.Cell{
				Row:     r,
				Col:     s.Col,
				Width:   s.Width,
				Cursor:  line.Cursor && s.Col == curCol,
				Numeric: p.schema.Field(src).Type.Numeric(),
			}
			switch {
			case row == nil || src >= len(row):
				c.Pending = true
			case row[src].Null:
				c.Null = true
			default:
				c.Text = row[src].String()
			}
			line.Cells = append(line.Cells, c)
		}
		f.Lines = append(f.Lines, line)
	}
	if len(f.Lines) == 0 {
		if snap.Final {
			f.Empty = "no rows"
		} else {
			f.Empty = "loading…"
		}
	}
	return f
}

func (p *pane) close() {
	p.prov.Close()
}
