// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch reports changes to the files behind open tabs.
//
// The fsnotify watcher observes parent directories rather than the files
// themselves, so editors that save by renaming a temporary file over the
// original are still seen. When fsnotify cannot start, a polling watcher
// compares modification time and size instead.
package watch

import (
	"fmt"
	"log"
	"path/filepath"
	"time"
)

// =============================================================================
// INTERFACE
// =============================================================================

// Event reports that a registered file changed.
type Event struct {
	Path string
}

// WatchError is a watcher failure for one path. It is never fatal.
type WatchError struct {
	Path string
	Err  error
}

func (e *WatchError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("watch: %v", e.Err)
	}
	return fmt.Sprintf("watch %s: %v", e.Path, e.Err)
}

func (e *WatchError) Unwrap() error { return e.Err }

// Watcher delivers change events for registered files.
type Watcher interface {
	// Add registers a file.
	Add(path string) error

	// Remove forgets a file.
	Remove(path string)

	// Events delivers one debounced event per change burst.
	Events() <-chan Event

	// Errors delivers *WatchError values. Errors nobody reads are dropped.
	Errors() <-chan error

	// Close stops watching and releases resources.
	Close() error
}

// Options tune the watchers.
type Options struct {
	Debounce     time.Duration
	PollInterval time.Duration
}

// DefaultOptions returns the stock timings.
func DefaultOptions() Options {
	return Options{Debounce: 500 * time.Millisecond, PollInterval: 2 * time.Second}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Debounce <= 0 {
		o.Debounce = def.Debounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = def.PollInterval
	}
	return o
}

// =============================================================================
// FACTORY
// =============================================================================

// New starts an fsnotify watcher, falling back to polling.
func New(opts Options) Watcher {
	opts = opts.withDefaults()
	fw, err := NewFsnotifyWatcher(opts)
	if err == nil {
		return fw
	}
	log.Printf("WATCH: %v, falling back to polling every %s", &WatchError{Err: err}, opts.PollInterval)
	return NewPollingWatcher(opts)
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// sendErr reports err without blocking.
func sendErr(ch chan error, path string, err error) {
	werr := &WatchError{Path: path, Err: err}
	log.Printf("WATCH: %v", werr)
	select {
	case ch <- werr:
	default:
	}
}
