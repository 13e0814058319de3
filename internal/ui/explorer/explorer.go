// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package explorer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"golang.org/x/time/rate"

	"github.com/jeranaias/tabula/internal/cli"
	"github.com/jeranaias/tabula/internal/config"
	"github.com/jeranaias/tabula/internal/engine"
	"github.com/jeranaias/tabula/internal/frame"
	"github.com/jeranaias/tabula/internal/grid"
	"github.com/jeranaias/tabula/internal/prompt"
	"github.com/jeranaias/tabula/internal/sizing"
	"github.com/jeranaias/tabula/internal/source"
	"github.com/jeranaias/tabula/internal/storage"
	"github.com/jeranaias/tabula/internal/tabs"
	"github.com/jeranaias/tabula/internal/ui/components"
	"github.com/jeranaias/tabula/internal/ui/styles"
	"github.com/jeranaias/tabula/internal/watch"
)

var (
	// ErrNoTabs is returned when no target could be opened.
	ErrNoTabs = errors.New("nothing to open")

	// ErrNoEngine is returned for a query target without an engine.
	ErrNoEngine = errors.New("queries need the query engine")
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures an explorer. Config and Targets are required; the
// rest may be nil.
type Options struct {
	Config  *config.Config
	Targets []cli.Target

	// Engine runs queries. The caller owns it and closes it after Close.
	Engine *engine.Engine

	// Watcher reloads tabs whose file changes. Close closes it.
	Watcher watch.Watcher

	// History persists prompt history across runs.
	History *storage.HistoryStore

	Clipboard func(string) error
	Keys      grid.KeyMap
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	cfg       *config.Config
	theme     *styles.Theme
	keys      grid.KeyMap
	engine    *engine.Engine
	watcher   watch.Watcher
	store     *storage.HistoryStore
	history   *prompt.History
	clipboard func(string) error

	tabs     *tabs.Manager
	tables   map[string]bool // bound table names in use
	prepares []func(context.Context) error

	// Components
	spinner  components.Spinner
	status   *components.StatusBar
	tabBar   *components.TabBar
	help     help.Model
	fullHelp bool

	// Redraw signalling
	updates chan struct{}
	limiter *rate.Limiter
	ctx     context.Context
	cancel  context.CancelFunc

	width  int
	height int

	closeOnce sync.Once
}

// New opens one tab per target, in order, with the first one active.
// Loading starts immediately in the background.
func New(opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	keys := opts.Keys
	if len(keys.Quit.Keys()) == 0 {
		keys = grid.DefaultKeyMap()
	}
	theme := styles.NewTheme(cfg.UI.Theme)

	var entries []string
	if opts.History != nil {
		var err error
		if entries, err = opts.History.Load(); err != nil {
			log.Printf("HISTORY: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		cfg:       cfg,
		theme:     theme,
		keys:      keys,
		engine:    opts.Engine,
		watcher:   opts.Watcher,
		store:     opts.History,
		history:   prompt.NewHistory(cfg.History.MaxEntries, entries),
		clipboard: opts.Clipboard,
		tabs:      tabs.New(),
		tables:    make(map[string]bool),
		spinner:   components.NewSpinner(),
		status:    components.NewStatusBar(theme),
		tabBar:    components.NewTabBar(theme),
		help:      newHelp(theme),
		updates:   make(chan struct{}, 1),
		limiter:   rate.NewLimiter(rate.Every(redrawInterval), 1),
		ctx:       ctx,
		cancel:    cancel,
		width:     80,
		height:    24,
	}

	// Plan every target before any grid starts loading so that query tabs
	// see the full set of files.
	plans := make([]plan, 0, len(opts.Targets))
	for _, t := range opts.Targets {
		p, err := m.plan(t)
		if err != nil {
			m.Close()
			return nil, err
		}
		plans = append(plans, p)
	}
	if len(plans) == 0 {
		m.Close()
		return nil, ErrNoTabs
	}
	for _, p := range plans {
		m.tabs.Open(p.title, p.path, grid.New(p.title, p.opener, p.cfg))
		if p.path != "" && m.watcher != nil {
			if err := m.watcher.Add(p.path); err != nil {
				log.Printf("WATCH: %v", err)
			}
		}
	}
	m.tabs.Activate(0)
	m.layout()
	return m, nil
}

func newHelp(theme *styles.Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = theme.ShortcutKey
	h.Styles.ShortDesc = theme.ShortcutDesc
	h.Styles.FullKey = theme.ShortcutKey
	h.Styles.FullDesc = theme.ShortcutDesc
	return h
}

// gridConfig is the part of a grid's wiring every tab shares.
func (m *Model) gridConfig() grid.Config {
	c := m.cfg
	return grid.Config{
		Keys: m.keys,
		Sizing: sizing.Config{
			MaxWidth:    c.Grid.MaxColumnWidth,
			MinWidth:    c.Grid.MinColumnWidth,
			DefaultMode: sizing.ContentFit,
		},
		Frame: frame.Options{
			ChunkRows:   c.Grid.ChunkRows,
			MaxResident: c.Grid.MaxResidentChunks,
			Prefetch:    c.Grid.PrefetchChunks,
		},
		Engine:      m.engine,
		Notify:      m.notify,
		NoHighlight: !c.UI.HighlightSQL,
		Theme:       m.theme,
		History:     m.history,
		Clipboard:   m.clipboard,
	}
}

// =============================================================================
// OPENING TABS
// =============================================================================

// plan is a tab ready to be opened.
type plan struct {
	title  string
	path   string // empty for query tabs
	opener frame.Opener
	cfg    grid.Config
}

func (m *Model) plan(t cli.Target) (plan, error) {
	if t.Kind == cli.TargetQuery {
		return m.planQuery(t)
	}
	return m.planFile(t)
}

func (m *Model) planFile(t cli.Target) (plan, error) {
	opts, err := cli.SourceOptions(m.cfg, t)
	if err != nil {
		return plan{}, err
	}
	opener, err := source.Open(t.Path, opts)
	if err != nil {
		return plan{}, err
	}

	gc := m.gridConfig()
	if m.engine != nil {
		eng := m.engine
		if source.Detect(t.Path) == source.KindSQLite {
			// Attached databases are live; every table is queryable as is.
			path, alias := t.Path, m.tableName(t.Path)
			gc.Prepare = func(ctx context.Context) error { return eng.Attach(ctx, path, alias) }
			gc.Table = t.Table
		} else {
			table := m.tableName(t.Path)
			gc.Prepare = func(ctx context.Context) error { return eng.Ensure(ctx, table, opener) }
			gc.Invalidate = func() { eng.Unbind(table) }
			gc.Table = table
		}
		m.prepares = append(m.prepares, gc.Prepare)
	}
	return plan{title: t.Title, path: t.Path, opener: opener, cfg: gc}, nil
}

func (m *Model) planQuery(t cli.Target) (plan, error) {
	if m.engine == nil {
		return plan{}, fmt.Errorf("%s: %w", t.Title, ErrNoEngine)
	}
	eng, query := m.engine, t.Query
	opener := func(ctx context.Context) (frame.DataSource, error) {
		if err := m.prepareAll(ctx); err != nil {
			return nil, &engine.QueryError{Query: query, Err: err}
		}
		return eng.Run(ctx, query)
	}

	gc := m.gridConfig()
	gc.Prepare = m.prepareAll
	gc.QueryBacked = true
	return plan{title: t.Title, opener: opener, cfg: gc}, nil
}

// prepareAll makes every file on the command line queryable. The list is
// fixed once New returns.
func (m *Model) prepareAll(ctx context.Context) error {
	for _, prepare := range m.prepares {
		if err := prepare(ctx); err != nil {
			return err
		}
	}
	return nil
}

// tableName picks a unique table name for path.
func (m *Model) tableName(path string) string {
	base := engine.TableName(path)
	name := base
	for i := 2; m.tables[name]; i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	m.tables[name] = true
	return name
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Tabs exposes the tab manager.
func (m *Model) Tabs() *tabs.Manager { return m.tabs }

// Close saves history and releases every tab and the watcher. It is safe
// to call more than once. The engine is left to its owner.
func (m *Model) Close() {
	m.closeOnce.Do(func() {
		m.cancel()
		if m.store != nil {
			if err := m.store.Save(m.history.Entries()); err != nil {
				log.Printf("HISTORY: save failed: %v", err)
			}
		}
		m.tabs.CloseAll()
		if m.watcher != nil {
			if err := m.watcher.Close(); err != nil {
				log.Printf("WATCH: close: %v", err)
			}
		}
	})
}
