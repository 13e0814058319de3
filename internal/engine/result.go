// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"database/sql"

	"github.com/jeranaias/tabula/internal/frame"
	"github.com/jeranaias/tabula/internal/source"
)

// sampleRows is the number of rows scanned before column types are fixed.
const sampleRows = 256

// result streams one query. Rows behind the cursor re-execute the query.
type result struct {
	query  string
	conn   *sql.Conn
	rows   *sql.Rows
	schema frame.Schema

	pending []frame.Row
	pos     int
	done    bool
}

// Run executes query and returns its result set as a DataSource. Column
// types come from declared types where SQLite knows them and from the first
// rows otherwise.
func (e *Engine) Run(ctx context.Context, query string) (frame.DataSource, error) {
	c, err := e.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := c.QueryContext(ctx, query)
	if err != nil {
		c.Close()
		return nil, &QueryError{Query: query, Err: err}
	}
	r, err := newResult(query, c, rows)
	if err != nil {
		rows.Close()
		c.Close()
		return nil, &QueryError{Query: query, Err: err}
	}
	return r, nil
}

// Opener returns an Opener that runs query each time it is called.
func (e *Engine) Opener(query string) frame.Opener {
	return func(ctx context.Context) (frame.DataSource, error) {
		return e.Run(ctx, query)
	}
}

func newResult(query string, c *sql.Conn, rows *sql.Rows) (*result, error) {
	cts, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	if len(cts) == 0 {
		return nil, ErrNoColumns
	}

	var sample [][]any
	for len(sample) < sampleRows && rows.Next() {
		vals := make([]any, len(cts))
		ptrs := make([]any, len(cts))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		sample = append(sample, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	fields := make([]frame.Field, len(cts))
	for i, ct := range cts {
		t := source.DeclType(ct.DatabaseTypeName())
		if t == frame.TypeUnknown {
			t = sampleType(sample, i)
		}
		fields[i] = frame.Field{Name: ct.Name(), Type: t}
	}
	schema := frame.NewSchema(fields...)

	pending := make([]frame.Row, len(sample))
	for j, vals := range sample {
		row := make(frame.Row, len(vals))
		for i, v := range vals {
			row[i] = source.FromSQL(v, fields[i].Type)
		}
		pending[j] = row
	}
	return &result{
		query:   query,
		conn:    c,
		rows:    rows,
		schema:  schema,
		pending: pending,
		done:    len(sample) < sampleRows,
	}, nil
}

// sampleType picks the type of the first non-null value in column i,
// widening integer to float when both appear.
func sampleType(sample [][]any, i int) frame.Type {
	t := frame.TypeUnknown
	for _, vals := range sample {
		vt := source.ValueType(vals[i])
		switch {
		case vt == frame.TypeUnknown:
		case t == frame.TypeUnknown:
			t = vt
		case t == frame.TypeInteger && vt == frame.TypeFloat:
			t = frame.TypeFloat
		}
	}
	return t
}

func (r *result) Schema() frame.Schema { return r.schema }

func (r *result) Count() (int, bool) { return 0, false }

func (r *result) next() (frame.Row, bool, error) {
	if len(r.pending) > 0 {
		row := r.pending[0]
		r.pending = r.pending[1:]
		return row, true, nil
	}
	if r.done {
		return nil, false, nil
	}
	rows, err := source.ScanRows(r.rows, r.schema, 1)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		r.done = true
		return nil, false, nil
	}
	return rows[0], true, nil
}

func (r *result) rewind(ctx context.Context) error {
	r.rows.Close()
	rows, err := r.conn.QueryContext(ctx, r.query)
	if err != nil {
		return &QueryError{Query: r.query, Err: err}
	}
	r.rows, r.pending, r.pos, r.done = rows, nil, 0, false
	return nil
}

func (r *result) Fetch(ctx context.Context, start, limit int) ([]frame.Row, error) {
	if start < r.pos {
		if err := r.rewind(ctx); err != nil {
			return nil, err
		}
	}
	for r.pos < start {
		_, ok, err := r.next()
		if err != nil {
			return nil, &QueryError{Query: r.query, Err: err}
		}
		if !ok {
			return nil, nil
		}
		r.pos++
	}
	out := make([]frame.Row, 0, limit)
	for len(out) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, ok, err := r.next()
		if err != nil {
			return nil, &QueryError{Query: r.query, Err: err}
		}
		if !ok {
			break
		}
		out = append(out, row)
		r.pos++
	}
	return out, nil
}

func (r *result) Close() error {
	r.rows.Close()
	return r.conn.Close()
}
