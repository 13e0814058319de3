// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

type codec int

const (
	codecNone codec = iota
	codecGzip
	codecZstd
	codecLZ4
)

// splitCodec returns the codec implied by the suffix of path and the path
// with that suffix removed.
func splitCodec(path string) (codec, string) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".gz"):
		return codecGzip, path[:len(path)-3]
	case strings.HasSuffix(lower, ".zst"):
		return codecZstd, path[:len(path)-4]
	case strings.HasSuffix(lower, ".zstd"):
		return codecZstd, path[:len(path)-5]
	case strings.HasSuffix(lower, ".lz4"):
		return codecLZ4, path[:len(path)-4]
	}
	return codecNone, path
}

// readCloser closes the decoder and then the file beneath it.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openText opens path for reading, decompressing by suffix.
func openText(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	c, _ := splitCodec(path)
	switch c {
	case codecGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case codecZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		rc := dec.IOReadCloser()
		return &readCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
	case codecLZ4:
		return &readCloser{Reader: lz4.NewReader(f), closers: []io.Closer{f}}, nil
	}
	return f, nil
}
