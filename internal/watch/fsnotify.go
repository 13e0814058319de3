// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// FsnotifyWatcher watches the parent directories of registered files.
type FsnotifyWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	files   map[string]struct{}
	dirs    map[string]int       // directory -> registered files in it
	pending map[string]time.Time // file -> last change

	events chan Event
	errors chan error
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewFsnotifyWatcher creates and starts a watcher.
func NewFsnotifyWatcher(opts Options) (*FsnotifyWatcher, error) {
	opts = opts.withDefaults()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	fw := &FsnotifyWatcher{
		watcher:  watcher,
		debounce: opts.Debounce,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]int),
		pending:  make(map[string]time.Time),
		events:   make(chan Event, 16),
		errors:   make(chan error, 4),
		ctx:      ctx,
		cancel:   cancel,
	}

	fw.wg.Add(2)
	go fw.processEvents()
	go fw.processPending()
	return fw, nil
}

// Add registers path and starts watching its directory.
func (fw *FsnotifyWatcher) Add(path string) error {
	path = absPath(path)
	dir := filepath.Dir(path)

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if _, ok := fw.files[path]; ok {
		return nil
	}
	if fw.dirs[dir] == 0 {
		if err := fw.watcher.Add(dir); err != nil {
			return &WatchError{Path: path, Err: err}
		}
	}
	fw.dirs[dir]++
	fw.files[path] = struct{}{}
	return nil
}

// Remove forgets path and drops its directory once no file needs it.
func (fw *FsnotifyWatcher) Remove(path string) {
	path = absPath(path)
	dir := filepath.Dir(path)

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if _, ok := fw.files[path]; !ok {
		return
	}
	delete(fw.files, path)
	delete(fw.pending, path)
	if fw.dirs[dir]--; fw.dirs[dir] <= 0 {
		delete(fw.dirs, dir)
		_ = fw.watcher.Remove(dir)
	}
}

func (fw *FsnotifyWatcher) Events() <-chan Event { return fw.events }
func (fw *FsnotifyWatcher) Errors() <-chan error { return fw.errors }

// processEvents collects changes to registered files.
func (fw *FsnotifyWatcher) processEvents() {
	defer fw.wg.Done()
	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(event.Name)
			fw.mu.Lock()
			if _, ok := fw.files[path]; ok {
				fw.pending[path] = time.Now()
			}
			fw.mu.Unlock()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			sendErr(fw.errors, "", err)
		}
	}
}

// processPending emits changes once they have been quiet for the debounce
// interval.
func (fw *FsnotifyWatcher) processPending() {
	defer fw.wg.Done()
	tick := min(100*time.Millisecond, max(fw.debounce/4, 5*time.Millisecond))
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()
			var ready []string

			fw.mu.Lock()
			for path, changed := range fw.pending {
				if now.Sub(changed) >= fw.debounce {
					ready = append(ready, path)
					delete(fw.pending, path)
				}
			}
			fw.mu.Unlock()

			for _, path := range ready {
				select {
				case fw.events <- Event{Path: path}:
				case <-fw.ctx.Done():
					return
				}
			}
		}
	}
}

// Close stops watching and releases resources.
func (fw *FsnotifyWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		fw.cancel()
		err = fw.watcher.Close()
		fw.wg.Wait()
	})
	return err
}
