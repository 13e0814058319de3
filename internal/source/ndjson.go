// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/jeranaias/tabula/internal/frame"
)

// object is a JSON object with its keys in document order. Values are kept
// as display text; nested values keep their raw JSON.
type object struct {
	keys []string
	vals []string
	null []bool
}

// jsonStream yields the objects of an NDJSON file or of a top-level array.
type jsonStream struct {
	rc    io.Closer
	dec   *json.Decoder
	array bool
}

func openJSONStream(path string) (*jsonStream, error) {
	rc, err := openText(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(rc)
	s := &jsonStream{rc: rc}
	for {
		b, err := br.Peek(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			rc.Close()
			return nil, err
		}
		if b[0] == ' ' || b[0] == '\n' || b[0] == '\r' || b[0] == '\t' {
			br.ReadByte()
			continue
		}
		s.array = b[0] == '['
		break
	}
	s.dec = json.NewDecoder(br)
	s.dec.UseNumber()
	if s.array {
		if _, err := s.dec.Token(); err != nil {
			rc.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *jsonStream) next() (object, error) {
	if s.array && !s.dec.More() {
		return object{}, io.EOF
	}
	var raw json.RawMessage
	if err := s.dec.Decode(&raw); err != nil {
		return object{}, err
	}
	return decodeObject(raw)
}

func (s *jsonStream) Close() error { return s.rc.Close() }

// decodeObject walks one object token by token so key order survives.
func decodeObject(raw []byte) (object, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return object{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return object{}, fmt.Errorf("expected object, got %s", bytes.TrimSpace(raw))
	}
	var obj object
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return object{}, err
		}
		key, ok := kt.(string)
		if !ok {
			return object{}, fmt.Errorf("invalid object key %v", kt)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return object{}, err
		}
		text, null := rawText(v)
		obj.keys = append(obj.keys, key)
		obj.vals = append(obj.vals, text)
		obj.null = append(obj.null, null)
	}
	return obj, nil
}

func rawText(v json.RawMessage) (string, bool) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || string(v) == "null" {
		return "", true
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s, false
		}
	}
	return string(v), false
}

// ndjsonReader maps objects onto a fixed column list. Keys outside the list
// are dropped; missing keys are null.
type ndjsonReader struct {
	s       *jsonStream
	index   map[string]int
	types   []frame.Type
	pending []object
}

func (r *ndjsonReader) Read() (frame.Row, error) {
	var obj object
	if len(r.pending) > 0 {
		obj, r.pending = r.pending[0], r.pending[1:]
	} else {
		var err error
		if obj, err = r.s.next(); err != nil {
			return nil, err
		}
	}
	row := make(frame.Row, len(r.types))
	for i, t := range r.types {
		row[i] = frame.NullValue(t)
	}
	for k, key := range obj.keys {
		i, ok := r.index[key]
		if !ok || obj.null[k] {
			continue
		}
		row[i] = frame.Parse(obj.vals[k], r.types[i])
	}
	return row, nil
}

func (r *ndjsonReader) Close() error { return r.s.Close() }

// OpenNDJSON opens newline-delimited JSON or a JSON array of objects. The
// columns are the keys of the sampled objects in first-seen order.
func OpenNDJSON(path string, opts Options) (frame.DataSource, error) {
	opts = opts.withDefaults()
	s, err := openJSONStream(path)
	if err != nil {
		return nil, fmt.Errorf("open json: %w", err)
	}

	var sample []object
	for len(sample) < opts.SampleRows {
		obj, err := s.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			s.Close()
			return nil, fmt.Errorf("read json: %w", err)
		}
		sample = append(sample, obj)
	}

	index := make(map[string]int)
	var names []string
	for _, obj := range sample {
		for _, k := range obj.keys {
			if _, ok := index[k]; !ok {
				index[k] = len(names)
				names = append(names, k)
			}
		}
	}
	if len(names) == 0 {
		s.Close()
		return nil, fmt.Errorf("open json: %w", ErrEmptyInput)
	}

	texts := make([][]string, len(names))
	for _, obj := range sample {
		for k, key := range obj.keys {
			if !obj.null[k] {
				i := index[key]
				texts[i] = append(texts[i], obj.vals[k])
			}
		}
	}
	types := make([]frame.Type, len(names))
	fields := make([]frame.Field, len(names))
	for i, name := range names {
		types[i] = frame.Infer(texts[i])
		fields[i] = frame.Field{Name: name, Type: types[i]}
	}

	first := &ndjsonReader{s: s, index: index, types: types, pending: sample}
	reopen := func() (rowReader, error) {
		s, err := openJSONStream(path)
		if err != nil {
			return nil, err
		}
		return &ndjsonReader{s: s, index: index, types: types}, nil
	}
	return newSequential(frame.NewSchema(fields...), first, reopen), nil
}
