// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"context"
	"errors"
	"io"

	"github.com/jeranaias/tabula/internal/frame"
)

// rowReader yields rows in order and returns io.EOF at the end.
type rowReader interface {
	Read() (frame.Row, error)
	Close() error
}

// sequential adapts a forward-only rowReader to random-access Fetch. A start
// behind the cursor reopens the reader and skips.
type sequential struct {
	schema frame.Schema
	count  int
	known  bool
	reopen func() (rowReader, error)

	r   rowReader
	pos int
	eof bool
}

func newSequential(schema frame.Schema, r rowReader, reopen func() (rowReader, error)) *sequential {
	return &sequential{schema: schema, r: r, reopen: reopen}
}

func (s *sequential) Schema() frame.Schema { return s.schema }

func (s *sequential) Count() (int, bool) { return s.count, s.known }

func (s *sequential) Fetch(ctx context.Context, start, limit int) ([]frame.Row, error) {
	if s.r == nil {
		return nil, errors.New("source closed")
	}
	if start < s.pos {
		s.r.Close()
		r, err := s.reopen()
		if err != nil {
			s.r = nil
			return nil, err
		}
		s.r, s.pos, s.eof = r, 0, false
	}
	for s.pos < start && !s.eof {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := s.r.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				s.eof = true
				break
			}
			return nil, err
		}
		s.pos++
	}
	if s.eof {
		return nil, nil
	}

	rows := make([]frame.Row, 0, limit)
	for len(rows) < limit {
		if len(rows)%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := s.r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.eof = true
				s.count, s.known = s.pos, true
				break
			}
			return nil, err
		}
		rows = append(rows, row)
		s.pos++
	}
	return rows, nil
}

func (s *sequential) Close() error {
	if s.r == nil {
		return nil
	}
	err := s.r.Close()
	s.r = nil
	return err
}
