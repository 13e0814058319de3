// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package frame

import (
	"context"
	"log"
	"sort"
	"sync"
	"sync/atomic"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options control chunking and residency of a Provider.
type Options struct {
	// ChunkRows is the number of rows fetched per block.
	ChunkRows int

	// MaxResident bounds the number of chunks kept in memory. Zero means
	// unbounded.
	MaxResident int

	// Prefetch is the number of chunks loaded beyond the requested window.
	Prefetch int

	// Name identifies the source in errors and logs.
	Name string

	// OnUpdate is called from the background goroutine after every publish.
	OnUpdate func()
}

// DefaultOptions returns the stock chunking parameters.
func DefaultOptions() Options {
	return Options{
		ChunkRows:   1024,
		MaxResident: 64,
		Prefetch:    1,
	}
}

// Window is the result of a foreground fetch. Rows that are not resident yet
// are nil.
type Window struct {
	Start   int
	Rows    []Row
	Loading bool
}

// Row returns the absolute row, or nil when it is not resident.
func (w Window) Row(row int) Row {
	i := row - w.Start
	if i < 0 || i >= len(w.Rows) {
		return nil
	}
	return w.Rows[i]
}

// =============================================================================
// PROVIDER
// =============================================================================

// Provider owns one frame: it loads rows from a DataSource in the background
// and serves cached chunks to the foreground without blocking.
type Provider struct {
	opts   Options
	opener Opener

	snap  atomic.Pointer[Snapshot]
	pubMu sync.Mutex // serializes snapshot writers

	reqMu       sync.Mutex
	goal        int
	loadAll     bool
	rebuild     bool
	missing     map[int]struct{}
	finalCh     chan struct{}
	finalClosed bool

	wake      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	// Foreground only.
	tick     uint64
	lastUsed map[int]uint64
}

// NewProvider starts loading from opener in the background. The first
// chunks are preloaded before any window is requested.
func NewProvider(opener Opener, opts Options) *Provider {
	def := DefaultOptions()
	if opts.ChunkRows <= 0 {
		opts.ChunkRows = def.ChunkRows
	}
	if opts.MaxResident < 0 {
		opts.MaxResident = def.MaxResident
	}
	if opts.Prefetch < 0 {
		opts.Prefetch = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Provider{
		opts:     opts,
		opener:   opener,
		goal:     opts.ChunkRows * (1 + opts.Prefetch),
		missing:  make(map[int]struct{}),
		finalCh:  make(chan struct{}),
		wake:     make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		lastUsed: make(map[int]uint64),
	}
	p.snap.Store(&Snapshot{
		Loading:   true,
		chunkRows: opts.ChunkRows,
		chunks:    make(map[int]*Chunk),
	})

	go p.run()
	return p
}

// Name returns the configured source name.
func (p *Provider) Name() string {
	return p.opts.Name
}

// Snapshot returns the current read-only state.
func (p *Provider) Snapshot() *Snapshot {
	return p.snap.Load()
}

// Count returns the known row count and whether it is final.
func (p *Provider) Count() (int, bool) {
	s := p.snap.Load()
	return s.Count, s.Final
}

// Err returns the frame-level error state.
func (p *Provider) Err() error {
	return p.snap.Load().Err
}

// Done is closed once the background goroutine has exited.
func (p *Provider) Done() <-chan struct{} {
	return p.done
}

// =============================================================================
// FOREGROUND API
// =============================================================================

// Rows returns whatever is cached for [start, end) and schedules loading of
// the rest. It never blocks. Eviction happens here, on the caller's
// goroutine, and never touches chunks intersecting the requested range.
func (p *Provider) Rows(start, end int) Window {
	s := p.snap.Load()
	w := Window{Start: start, Loading: s.Loading}
	if start < 0 {
		start = 0
		w.Start = 0
	}
	if end <= start {
		return w
	}

	cr := s.chunkRows
	w.Rows = make([]Row, end-start)
	first, last := start/cr, (end-1)/cr

	p.tick++
	var missing []int
	for idx := first; idx <= last; idx++ {
		p.lastUsed[idx] = p.tick
		c, ok := s.chunks[idx]
		if !ok || s.Stale(c) {
			if idx*cr < s.loaded {
				missing = append(missing, idx)
			}
			if s.Err == nil && (!s.Final || idx*cr < s.Count) {
				w.Loading = true
			}
		}
		if !ok {
			continue
		}
		lo, hi := max(start, c.Start), min(end, c.End())
		for r := lo; r < hi; r++ {
			w.Rows[r-start] = c.Row(r)
		}
	}

	p.want(end+p.opts.Prefetch*cr, missing)
	p.evict(first, last)
	return w
}

// LoadAll asks the background task to scan to the end of the source.
func (p *Provider) LoadAll() {
	p.reqMu.Lock()
	p.loadAll = true
	p.reqMu.Unlock()
	p.signal()
}

// MarkStale requests a rebuild after the backing data changed. Cached chunks
// stay visible and are replaced as fresh rows arrive.
func (p *Provider) MarkStale() {
	p.reqMu.Lock()
	p.rebuild = true
	p.reqMu.Unlock()
	p.signal()
}

// WaitCount forces a full scan and blocks until the row count is final.
func (p *Provider) WaitCount(ctx context.Context) (int, error) {
	for {
		s := p.snap.Load()
		if s.Final {
			return s.Count, nil
		}
		if s.Err != nil {
			return s.Count, s.Err
		}

		p.reqMu.Lock()
		p.loadAll = true
		ch := p.finalCh
		p.reqMu.Unlock()
		p.signal()

		select {
		case <-ch:
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-p.done:
			return 0, ErrClosed
		}
	}
}

// Cancel stops loading without waiting for the loader to exit. Close must
// still be called to release the source and the cache.
func (p *Provider) Cancel() { p.cancel() }

// Close cancels loading, closes the source and releases the cache. It waits
// for an in-flight Fetch to return.
func (p *Provider) Close() {
	p.closeOnce.Do(func() {
		p.cancel()
		<-p.done
		p.pubMu.Lock()
		p.snap.Store(&Snapshot{chunkRows: p.opts.ChunkRows, chunks: make(map[int]*Chunk)})
		p.pubMu.Unlock()
		p.lastUsed = make(map[int]uint64)
	})
}

func (p *Provider) want(goal int, missing []int) {
	changed := false
	p.reqMu.Lock()
	if goal > p.goal {
		p.goal = goal
		changed = true
	}
	for _, idx := range missing {
		if _, ok := p.missing[idx]; !ok {
			p.missing[idx] = struct{}{}
			changed = true
		}
	}
	p.reqMu.Unlock()
	if changed {
		p.signal()
	}
}

func (p *Provider) evict(first, last int) {
	if p.opts.MaxResident == 0 || p.snap.Load().Resident() <= p.opts.MaxResident {
		return
	}

	p.pubMu.Lock()
	defer p.pubMu.Unlock()

	cur := p.snap.Load()
	excess := len(cur.chunks) - p.opts.MaxResident
	if excess <= 0 {
		return
	}

	candidates := make([]int, 0, len(cur.chunks))
	for idx := range cur.chunks {
		if idx < first || idx > last {
			candidates = append(candidates, idx)
		}
	}
	distance := func(idx int) int {
		if idx < first {
			return first - idx
		}
		return idx - last
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if p.lastUsed[a] != p.lastUsed[b] {
			return p.lastUsed[a] < p.lastUsed[b]
		}
		return distance(a) > distance(b)
	})
	if excess > len(candidates) {
		excess = len(candidates)
	}

	next := cur.clone()
	for _, idx := range candidates[:excess] {
		delete(next.chunks, idx)
		delete(p.lastUsed, idx)
	}
	p.snap.Store(next)
}

func (p *Provider) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// =============================================================================
// BACKGROUND LOADER
// =============================================================================

// loader is the state owned by the background goroutine.
type loader struct {
	src       DataSource
	gen       uint64
	next      int
	count     int
	known     bool
	exhausted bool
	failed    bool
}

func (p *Provider) run() {
	defer close(p.done)

	var l loader
	defer func() {
		if l.src != nil {
			_ = l.src.Close()
		}
	}()

	first := true
	for {
		if p.ctx.Err() != nil {
			return
		}

		rebuild, missing := p.takeRequests()
		if first || rebuild {
			first = false
			p.open(&l)
		}

		if l.src != nil && !l.failed {
			for _, idx := range missing {
				if p.ctx.Err() != nil {
					return
				}
				p.refetch(&l, idx)
			}
			p.advance(&l)
		}

		if !p.pending() && p.snap.Load().Loading {
			p.publish(func(s *Snapshot) { s.Loading = false })
		}

		select {
		case <-p.ctx.Done():
			return
		case <-p.wake:
		}
	}
}

func (p *Provider) open(l *loader) {
	if l.src != nil {
		_ = l.src.Close()
		l.src = nil
	}
	l.gen++
	l.next, l.count = 0, 0
	l.known, l.exhausted, l.failed = false, false, false
	p.resetWaiters()

	gen := l.gen
	p.publish(func(s *Snapshot) {
		s.Generation = gen
		s.Loading = true
		s.Err = nil
		s.Count = 0
		s.Final = false
		s.loaded = 0
	})

	src, err := p.opener(p.ctx)
	if err != nil {
		if p.ctx.Err() == nil {
			p.fail(l, "open", err)
		}
		return
	}
	l.src = src

	schema := src.Schema()
	l.count, l.known = src.Count()
	p.publish(func(s *Snapshot) {
		if s.Opened && !s.Schema.Equal(schema) {
			s.chunks = make(map[int]*Chunk)
		}
		s.Schema = schema
		s.Opened = true
		if l.known {
			s.Count = l.count
			s.Final = true
			dropBeyond(s, l.count)
		}
	})
	if l.known {
		p.releaseWaiters()
	}
}

func (p *Provider) advance(l *loader) {
	cr := p.opts.ChunkRows
	for !l.exhausted {
		if p.ctx.Err() != nil || p.pending() {
			return
		}
		goal, all := p.target()
		if !all && l.next >= goal {
			return
		}

		rows, err := l.src.Fetch(p.ctx, l.next, cr)
		if err != nil {
			if p.ctx.Err() == nil {
				p.fail(l, "fetch", err)
			}
			return
		}

		idx := l.next / cr
		l.next += len(rows)
		if len(rows) < cr || (l.known && l.next >= l.count) {
			l.exhausted = true
		}

		gen, next, done := l.gen, l.next, l.exhausted
		p.publish(func(s *Snapshot) {
			if len(rows) > 0 {
				s.chunks[idx] = newChunk(idx, idx*cr, rows, s.Schema, gen)
			}
			s.loaded = next
			s.Loading = !done
			if !s.Final {
				s.Count = next
				if done {
					s.Final = true
					dropBeyond(s, next)
				}
			}
		})
		if done {
			p.releaseWaiters()
		}
	}
}

// refetch reloads a chunk that was evicted or went stale.
func (p *Provider) refetch(l *loader, idx int) {
	cr := p.opts.ChunkRows
	start := idx * cr
	if start >= l.next {
		return
	}
	rows, err := l.src.Fetch(p.ctx, start, cr)
	if err != nil {
		if p.ctx.Err() == nil {
			p.fail(l, "fetch", err)
		}
		return
	}
	if len(rows) == 0 {
		return
	}
	gen := l.gen
	p.publish(func(s *Snapshot) {
		s.chunks[idx] = newChunk(idx, start, rows, s.Schema, gen)
	})
}

func (p *Provider) fail(l *loader, op string, err error) {
	l.failed = true
	serr := &SourceError{Op: op, Source: p.opts.Name, Err: err}
	log.Printf("FRAME: %v", serr)
	p.publish(func(s *Snapshot) {
		s.Err = serr
		s.Loading = false
	})
	p.releaseWaiters()
}

func (p *Provider) publish(mutate func(*Snapshot)) {
	p.pubMu.Lock()
	next := p.snap.Load().clone()
	mutate(next)
	next.Version++
	p.snap.Store(next)
	p.pubMu.Unlock()

	if p.opts.OnUpdate != nil {
		p.opts.OnUpdate()
	}
}

func (p *Provider) takeRequests() (bool, []int) {
	p.reqMu.Lock()
	defer p.reqMu.Unlock()
	rebuild := p.rebuild
	p.rebuild = false
	missing := make([]int, 0, len(p.missing))
	for idx := range p.missing {
		missing = append(missing, idx)
	}
	p.missing = make(map[int]struct{})
	sort.Ints(missing)
	return rebuild, missing
}

func (p *Provider) pending() bool {
	p.reqMu.Lock()
	defer p.reqMu.Unlock()
	return p.rebuild || len(p.missing) > 0
}

func (p *Provider) target() (int, bool) {
	p.reqMu.Lock()
	defer p.reqMu.Unlock()
	return p.goal, p.loadAll
}

func (p *Provider) resetWaiters() {
	p.reqMu.Lock()
	defer p.reqMu.Unlock()
	if p.finalClosed {
		p.finalCh = make(chan struct{})
		p.finalClosed = false
	}
}

func (p *Provider) releaseWaiters() {
	p.reqMu.Lock()
	defer p.reqMu.Unlock()
	if !p.finalClosed {
		close(p.finalCh)
		p.finalClosed = true
	}
}

// dropBeyond removes chunks that start past the final row count.
func dropBeyond(s *Snapshot, count int) {
	for idx, c := range s.chunks {
		if c.Start >= count {
			delete(s.chunks, idx)
		}
	}
}
