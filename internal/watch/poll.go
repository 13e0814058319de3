// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"
)

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// stamp is what the poller compares between scans.
type stamp struct {
	mod    time.Time
	size   int64
	exists bool
}

func statFile(path string) (stamp, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return stamp{}, nil
	}
	if err != nil {
		return stamp{}, err
	}
	return stamp{mod: info.ModTime(), size: info.Size(), exists: true}, nil
}

// PollingWatcher compares modification time and size of registered files at
// a fixed interval.
type PollingWatcher struct {
	interval time.Duration

	mu    sync.Mutex
	files map[string]stamp

	events chan Event
	errors chan error
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewPollingWatcher creates and starts a polling watcher.
func NewPollingWatcher(opts Options) *PollingWatcher {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	pw := &PollingWatcher{
		interval: opts.PollInterval,
		files:    make(map[string]stamp),
		events:   make(chan Event, 16),
		errors:   make(chan error, 4),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go pw.poll()
	return pw
}

// Add registers path with its current state.
func (pw *PollingWatcher) Add(path string) error {
	path = absPath(path)
	st, err := statFile(path)
	if err != nil {
		return &WatchError{Path: path, Err: err}
	}
	pw.mu.Lock()
	if _, ok := pw.files[path]; !ok {
		pw.files[path] = st
	}
	pw.mu.Unlock()
	return nil
}

// Remove forgets path.
func (pw *PollingWatcher) Remove(path string) {
	pw.mu.Lock()
	delete(pw.files, absPath(path))
	pw.mu.Unlock()
}

func (pw *PollingWatcher) Events() <-chan Event { return pw.events }
func (pw *PollingWatcher) Errors() <-chan error { return pw.errors }

func (pw *PollingWatcher) poll() {
	defer close(pw.done)
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return
		case <-ticker.C:
			for _, path := range pw.checkChanges() {
				select {
				case pw.events <- Event{Path: path}:
				case <-pw.ctx.Done():
					return
				}
			}
		}
	}
}

// checkChanges rescans every file and returns those that changed.
func (pw *PollingWatcher) checkChanges() []string {
	pw.mu.Lock()
	paths := make([]string, 0, len(pw.files))
	for path := range pw.files {
		paths = append(paths, path)
	}
	pw.mu.Unlock()

	var changed []string
	for _, path := range paths {
		st, err := statFile(path)
		if err != nil {
			sendErr(pw.errors, path, err)
			continue
		}
		pw.mu.Lock()
		old, ok := pw.files[path]
		if ok && (old.exists != st.exists || old.size != st.size || !old.mod.Equal(st.mod)) {
			pw.files[path] = st
			if st.exists {
				changed = append(changed, path)
			}
		}
		pw.mu.Unlock()
	}
	return changed
}

// Close stops polling.
func (pw *PollingWatcher) Close() error {
	pw.once.Do(func() {
		pw.cancel()
		<-pw.done
	})
	return nil
}
