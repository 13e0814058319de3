// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package grid

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tabula/internal/engine"
	"github.com/jeranaias/tabula/internal/frame"
	"github.com/jeranaias/tabula/internal/prompt"
	"github.com/jeranaias/tabula/internal/sizing"
	"github.com/jeranaias/tabula/internal/source"
	"github.com/jeranaias/tabula/internal/ui/components"
	"github.com/jeranaias/tabula/internal/ui/styles"
	"github.com/jeranaias/tabula/internal/viewport"
)

// wheelStep is how many rows one mouse wheel notch scrolls.
const wheelStep = 3

// noJump marks that no deferred jump is waiting.
const noJump = -1

// lastRow asks a deferred jump for the final row.
const lastRow = math.MaxInt

// =============================================================================
// CONFIG
// =============================================================================

// Config wires a Grid to its surroundings. The zero Config is usable.
type Config struct {
	Keys   KeyMap
	Sizing sizing.Config
	Frame  frame.Options

	// Engine runs queries. Without it `$` only reports an error.
	Engine *engine.Engine

	// Prepare makes the base frame queryable, typically by binding it as a
	// table. It runs on the query's background goroutine.
	Prepare func(ctx context.Context) error

	// Invalidate drops whatever Prepare built once the base data changes.
	Invalidate func()

	// Table is the name queries use for the base frame.
	Table string

	// QueryBacked marks a grid whose base frame is itself a query result.
	QueryBacked bool

	// Notify is called from background goroutines after every publish.
	Notify func()

	// NoHighlight disables SQL highlighting in the prompt.
	NoHighlight bool

	Theme     *styles.Theme
	History   *prompt.History
	Clipboard func(string) error
}

// =============================================================================
// GRID
// =============================================================================

// Grid is one tab's worth of state: its frames, the input mode, the prompt
// and the layout of whatever pane is on display.
type Grid struct {
	cfg   Config
	title string
	mode  Mode

	base    *pane
	view    *pane // base or the latest query result
	desc    *pane
	pending *pane // query waiting to open

	showDesc bool

	prompt *prompt.Prompt
	nav    Navigator
	saved  viewport.State // position when the prompt opened
	jump   int

	renderer *components.GridView
	width    int
	height   int
	message  string
	closed   bool
	released chan struct{}
}

// New creates a Grid and starts loading opener in the background.
func New(title string, opener frame.Opener, cfg Config) *Grid {
	if cfg.Theme == nil {
		cfg.Theme = styles.NewTheme("auto")
	}
	if len(cfg.Keys.Quit.Keys()) == 0 {
		cfg.Keys = DefaultKeyMap()
	}
	if cfg.Frame.ChunkRows <= 0 {
		cfg.Frame = frame.DefaultOptions()
	}

	g := &Grid{
		cfg:      cfg,
		title:    title,
		prompt:   prompt.New(cfg.Theme, cfg.History),
		jump:     noJump,
		renderer: components.NewGridView(cfg.Theme),
		width:    80,
		height:   24,
		released: make(chan struct{}),
	}
	g.base = newPane(title, opener, cfg)
	if cfg.QueryBacked {
		g.base.query = title
	}
	g.view = g.base
	return g
}

// Title returns the tab title.
func (g *Grid) Title() string { return g.title }

// Mode returns the current input mode.
func (g *Grid) Mode() Mode { return g.mode }

// Help returns the bindings of the current mode.
func (g *Grid) Help() help.KeyMap { return g.cfg.Keys.ModeHelp(g.mode) }

// Snapshot returns the state of the frame on display.
func (g *Grid) Snapshot() *frame.Snapshot { return g.active().prov.Snapshot() }

// Cursor returns the cursor's data row and displayed column.
func (g *Grid) Cursor() (row, col int) {
	vp := g.active().vp
	return vp.CursorRow(), vp.CursorCol()
}

// Querying reports whether a query is waiting to open.
func (g *Grid) Querying() bool { return g.pending != nil }

func (g *Grid) active() *pane {
	if g.showDesc && g.desc != nil {
		return g.desc
	}
	return g.view
}

// SetSize sets the area the grid and its prompt line occupy.
func (g *Grid) SetSize(width, height int) {
	g.width, g.height = max(1, width), max(2, height)
	g.refresh()
}

// bodyHeight is the height left for the grid once the prompt line is placed.
func (g *Grid) bodyHeight() int {
	if g.PromptVisible() {
		return max(2, g.height-1)
	}
	return g.height
}

// Sync picks up background progress. Call it on every frame update.
func (g *Grid) Sync() {
	if g.closed {
		return
	}
	g.checkPending()
	g.refresh()
}

// refresh brings the active pane up to date and fetches its window.
func (g *Grid) refresh() {
	if g.closed {
		return
	}
	p := g.active()
	snap := p.sync()
	p.layout(g.width, g.bodyHeight(), g.renderer.Separator())

	if g.jump != noJump && p == g.view {
		switch {
		case g.jump != lastRow && g.jump < snap.Extent():
			p.vp.GoTo(g.jump)
			g.jump = noJump
		case snap.Final:
			p.vp.Bottom()
			g.jump = noJump
		case snap.Err != nil:
			g.jump = noJump
		case g.jump != lastRow:
			p.prov.Rows(g.jump, g.jump+1)
		}
	}
	p.fetch()
}

// =============================================================================
// INPUT
// =============================================================================

// HandleKey applies a key to the grid. Application-level actions are
// returned for the caller to carry out.
func (g *Grid) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	next, a := Dispatch(g.cfg.Keys, g.mode, msg)
	g.mode = next
	if g.mode != ModeNavigation && !a.Global() {
		g.message = ""
	}

	p := g.active()
	vp := p.vp
	var cmd tea.Cmd

	switch a.Kind {
	case ActCursorUp:
		g.jump = noJump
		vp.Up()
	case ActCursorDown:
		g.jump = noJump
		vp.Down()
	case ActCursorLeft:
		vp.Left()
	case ActCursorRight:
		vp.Right()
	case ActWindowUp:
		g.jump = noJump
		vp.WindowUp()
	case ActWindowDown:
		g.jump = noJump
		vp.WindowDown()
	case ActWindowLeft:
		vp.WindowLeft()
	case ActWindowRight:
		vp.WindowRight()
	case ActTop:
		g.jump = noJump
		vp.Top()
	case ActBottom:
		g.bottom(p)

	case ActDescribe:
		g.toggleDescribe()
	case ActLoadAll:
		p.prov.LoadAll()
	case ActCopy:
		g.copyCell(p)
	case ActCancelQuery:
		if g.pending != nil {
			g.cancelPending()
			g.message = "query cancelled"
		}

	case ActStartJump:
		g.nav = RowJump{}
		if g.queryFrame() {
			g.nav = Combined{Query: Query{Table: g.cfg.Table}}
		}
		cmd = g.startPrompt(a.Text)
	case ActStartQuery:
		if g.cfg.Engine == nil {
			g.mode = ModeNormal
			g.message = "no query engine"
			break
		}
		g.nav = Query{Table: g.cfg.Table}
		cmd = g.startPrompt("")
	case ActPromptKey:
		cmd = g.prompt.Update(msg)
		g.nav.Preview(g, g.prompt.Value())
	case ActCommit:
		cmd = g.nav.Commit(g, g.prompt.Commit())
	case ActCancelPrompt:
		g.prompt.Cancel()
		g.restoreCursor()

	case ActReduce, ActAugment, ActFree, ActFit, ActToggleFit, ActResetSizing, ActFitAll:
		g.resize(p, a.Kind)

	case ActMoveLeft:
		vp.GoToCol(p.proj.MoveLeft(vp.CursorCol()))
	case ActMoveRight:
		vp.GoToCol(p.proj.MoveRight(vp.CursorCol()))
	case ActResetProjection:
		p.proj.Reset()
	case ActHide:
		if err := p.proj.Hide(vp.CursorCol()); err != nil {
			g.message = err.Error()
		}
	}

	g.refresh()
	return a, cmd
}

func (g *Grid) startPrompt(initial string) tea.Cmd {
	g.showDesc = false
	g.saved = g.view.vp.State()
	cmd := g.prompt.Start(g.nav.Label(), initial, g.nav.Highlight() && !g.cfg.NoHighlight)
	if initial != "" {
		g.nav.Preview(g, initial)
	}
	return cmd
}

// restoreCursor puts the cursor back where it was when the prompt opened.
func (g *Grid) restoreCursor() {
	g.view.vp.Restore(g.saved)
}

// queryFrame reports whether the frame on display came from a query.
func (g *Grid) queryFrame() bool {
	return g.view.query != ""
}

func (g *Grid) bottom(p *pane) {
	snap := p.prov.Snapshot()
	p.vp.Bottom()
	if snap.Final || p != g.view {
		return
	}
	g.jump = lastRow
	p.prov.LoadAll()
}

// jumpTo moves the cursor to row. A committed jump past the rows loaded so
// far stays pending until the row arrives or the count is final.
func (g *Grid) jumpTo(row int, commit bool) {
	vp := g.view.vp
	vp.GoTo(row)
	g.jump = noJump
	if commit && row >= vp.Rows() && !g.view.prov.Snapshot().Final {
		g.jump = row
	}
}

func (g *Grid) resize(p *pane, kind ActionKind) {
	if p.size == nil {
		return
	}
	src := p.source()
	switch kind {
	case ActReduce:
		p.size.Reduce(src)
	case ActAugment:
		p.size.Augment(src)
	case ActFree:
		p.size.Free(src)
	case ActFit:
		p.size.Fit(src)
	case ActToggleFit:
		p.size.ToggleFit(src)
	case ActResetSizing:
		p.size.Reset()
	case ActFitAll:
		p.size.FitAll(sizing.SampleWidths(p.prov.Snapshot().Chunks(), p.schema.Len()))
	}
}

func (g *Grid) copyCell(p *pane) {
	v, ok := p.current()
	if !ok {
		g.message = "nothing to copy"
		return
	}
	if g.cfg.Clipboard == nil {
		g.message = "clipboard unavailable"
		return
	}
	text := v.String()
	if v.Null {
		text = ""
	}
	if err := g.cfg.Clipboard(text); err != nil {
		log.Printf("GRID: copy failed: %v", err)
		g.message = fmt.Sprintf("copy failed: %v", err)
		return
	}
	g.message = "copied"
}

// Mouse handles a mouse event with coordinates relative to the grid's top
// left corner.
func (g *Grid) Mouse(msg tea.MouseMsg) {
	p := g.active()
	switch msg.Type {
	case tea.MouseWheelUp:
		p.vp.Scroll(-wheelStep)
	case tea.MouseWheelDown:
		p.vp.Scroll(wheelStep)
	case tea.MouseLeft:
		if g.mode == ModeNavigation {
			return
		}
		row, col, ok := p.vp.CellAt(msg.X-p.gutter-g.renderer.Separator(), msg.Y-1)
		if !ok {
			return
		}
		g.jump = noJump
		p.vp.GoTo(row)
		p.vp.GoToCol(col)
	default:
		return
	}
	g.refresh()
}

// =============================================================================
// DESCRIBE AND QUERIES
// =============================================================================

func (g *Grid) toggleDescribe() {
	if g.showDesc {
		g.showDesc = false
		return
	}
	if g.desc == nil {
		g.desc = newPane("describe: "+g.view.title, source.Describe(g.view.opener, g.cfg.Frame.ChunkRows), g.cfg)
	}
	g.showDesc = true
}

// runQuery starts query in the background. It supersedes any query still
// waiting to open; the frame on display stays until the new one opens.
func (g *Grid) runQuery(query string) {
	if query == "" {
		return
	}
	eng := g.cfg.Engine
	if eng == nil {
		g.prompt.SetMessage("no query engine")
		return
	}
	g.cancelPending()

	prepare := g.cfg.Prepare
	opener := func(ctx context.Context) (frame.DataSource, error) {
		if prepare != nil {
			if err := prepare(ctx); err != nil {
				return nil, &engine.QueryError{Query: query, Err: err}
			}
		}
		return eng.Run(ctx, query)
	}
	g.pending = newPane(query, opener, g.cfg)
	g.pending.query = query
}

func (g *Grid) cancelPending() {
	if g.pending == nil {
		return
	}
	p := g.pending
	g.pending = nil
	go p.close()
}

// checkPending swaps in a query result once it opens, or reports its error.
func (g *Grid) checkPending() {
	if g.pending == nil {
		return
	}
	snap := g.pending.prov.Snapshot()
	switch {
	case snap.Opened:
		old := g.view
		g.view = g.pending
		g.pending = nil
		if old != g.base {
			go old.close()
		}
		if g.desc != nil {
			go g.desc.close()
			g.desc, g.showDesc = nil, false
		}
	case snap.Err != nil:
		msg := snap.Err.Error()
		var qe *engine.QueryError
		if errors.As(snap.Err, &qe) {
			msg = qe.Error()
		}
		log.Printf("GRID: %s: %v", g.title, snap.Err)
		g.prompt.SetMessage(msg)
		g.cancelPending()
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// MarkStale reloads every frame after the backing file changed.
func (g *Grid) MarkStale() {
	if g.closed {
		return
	}
	if g.cfg.Invalidate != nil {
		g.cfg.Invalidate()
	}
	g.base.prov.MarkStale()
	if g.view != g.base {
		g.view.prov.MarkStale()
	}
	if g.desc != nil {
		g.desc.prov.MarkStale()
	}
}

// Close cancels every load and returns at once. Sources and caches are
// released in the background since a source may sit in Fetch until its
// current block is read; Released is closed once that is done.
func (g *Grid) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.cancelPending()

	panes := []*pane{g.base}
	if g.view != g.base {
		panes = append(panes, g.view)
	}
	if g.desc != nil {
		panes = append(panes, g.desc)
	}
	for _, p := range panes {
		p.prov.Cancel()
	}
	go func() {
		defer close(g.released)
		for _, p := range panes {
			p.close()
		}
	}()
}

// Released is closed once a closed grid has let go of its sources.
func (g *Grid) Released() <-chan struct{} { return g.released }

// =============================================================================
// VIEW
// =============================================================================

// PromptVisible reports whether the prompt line is shown.
func (g *Grid) PromptVisible() bool {
	return g.prompt.Active() || g.prompt.Message() != ""
}

// View renders the grid and, when visible, the prompt line.
func (g *Grid) View() string {
	p := g.active()
	snap := p.prov.Snapshot()
	out := g.renderer.Render(p.frame(g.width, g.bodyHeight(), snap))
	if g.PromptVisible() {
		out += "\n" + g.prompt.View(g.width)
	}
	return out
}

// Status describes the grid for the status bar.
func (g *Grid) Status() components.StatusInfo {
	p := g.active()
	snap := p.prov.Snapshot()
	info := components.StatusInfo{
		Mode:    g.badge(),
		Title:   p.title,
		Row:     p.vp.CursorRow(),
		Count:   snap.Count,
		Final:   snap.Final,
		Loaded:  snap.Loaded(),
		Loading: snap.Loading || g.pending != nil,
		Message: g.message,
	}
	if g.pending != nil && info.Message == "" {
		info.Message = "running query"
	}
	if snap.Err != nil {
		info.Err = snap.Err.Error()
	}
	if src := p.source(); src >= 0 && src < p.schema.Len() {
		fld := p.schema.Field(src)
		info.Column, info.ColumnType = fld.Name, fld.Type.String()
	}
	return info
}

func (g *Grid) badge() string {
	switch {
	case g.mode == ModeNavigation:
		if _, ok := g.nav.(Query); ok {
			return "QUERY"
		}
	case g.mode == ModeNormal && g.showDesc:
		return "DESC"
	case g.mode == ModeNormal && g.queryFrame():
		return "QUERY"
	}
	return g.mode.String()
}
