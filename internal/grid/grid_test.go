// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package grid

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tabula/internal/engine"
	"github.com/jeranaias/tabula/internal/frame"
	"github.com/jeranaias/tabula/internal/source"
	"github.com/jeranaias/tabula/internal/ui/styles"
)

var testSchema = frame.NewSchema(
	frame.Field{Name: "id", Type: frame.TypeInteger},
	frame.Field{Name: "name", Type: frame.TypeString},
)

func testRows(n int, name func(int) string) []frame.Row {
	rows := make([]frame.Row, n)
	for i := range rows {
		rows[i] = frame.Row{frame.IntValue(int64(i)), frame.StringValue(name(i))}
	}
	return rows
}

func shortName(i int) string { return fmt.Sprintf("n%d", i) }

func testConfig() Config {
	return Config{
		Frame: frame.Options{ChunkRows: 4, Prefetch: 1},
		Theme: styles.NewTheme("dark"),
	}
}

func newTestGrid(t *testing.T, opener frame.Opener, cfg Config) *Grid {
	t.Helper()
	g := New("test", opener, cfg)
	t.Cleanup(g.Close)
	g.SetSize(80, 12)
	return g
}

// settle syncs g until cond holds.
func settle(t *testing.T, g *Grid, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		g.Sync()
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func loaded(g *Grid) func() bool {
	return func() bool {
		s := g.Snapshot()
		return s.Final && s.Loaded() >= s.Count && !s.Loading
	}
}

func press(g *Grid, msgs ...tea.KeyMsg) {
	for _, m := range msgs {
		g.HandleKey(m)
	}
}

func typeText(g *Grid, text string) {
	for _, r := range text {
		g.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

// =============================================================================
// NAVIGATION
// =============================================================================

func TestRowJumpCommit(t *testing.T) {
	g := newTestGrid(t, source.MemoryOpener(testSchema, testRows(10, shortName)), testConfig())
	settle(t, g, loaded(g))

	press(g, runes("7"))
	assert.Equal(t, ModeNavigation, g.Mode())
	row, _ := g.Cursor()
	assert.Equal(t, 7, row, "jump previews while typing")

	press(g, keyEnter)
	assert.Equal(t, ModeNormal, g.Mode())
	row, _ = g.Cursor()
	assert.Equal(t, 7, row)
	assert.False(t, g.PromptVisible())
}

func TestRowJumpCancelRestoresCursor(t *testing.T) {
	g := newTestGrid(t, source.MemoryOpener(testSchema, testRows(10, shortName)), testConfig())
	settle(t, g, loaded(g))

	press(g, keyDown, keyDown)
	press(g, runes("7"), keyEsc)
	assert.Equal(t, ModeNormal, g.Mode())
	row, _ := g.Cursor()
	assert.Equal(t, 2, row)
}

func TestRowJumpRejectsText(t *testing.T) {
	g := newTestGrid(t, source.MemoryOpener(testSchema, testRows(10, shortName)), testConfig())
	settle(t, g, loaded(g))

	press(g, runes("3"))
	typeText(g, "x")
	press(g, keyEnter)
	row, _ := g.Cursor()
	assert.Equal(t, 0, row)
	assert.True(t, g.PromptVisible(), "error message is shown in the prompt line")
}

// unknownCount serves rows without telling the count up front.
type unknownCount struct {
	rows []frame.Row
}

func (u *unknownCount) Schema() frame.Schema { return testSchema }
func (u *unknownCount) Count() (int, bool)   { return 0, false }
func (u *unknownCount) Close() error         { return nil }

func (u *unknownCount) Fetch(ctx context.Context, start, limit int) ([]frame.Row, error) {
	if start >= len(u.rows) {
		return nil, nil
	}
	return u.rows[start:min(start+limit, len(u.rows))], nil
}

func TestBottomWaitsForFinalCount(t *testing.T) {
	const n = 50
	opener := func(context.Context) (frame.DataSource, error) {
		return &unknownCount{rows: testRows(n, shortName)}, nil
	}
	g := newTestGrid(t, opener, testConfig())
	settle(t, g, func() bool { return g.Snapshot().Opened })
	require.False(t, g.Snapshot().Final)

	press(g, runes("G"))
	settle(t, g, func() bool { return g.Snapshot().Final })
	g.Sync()

	assert.Equal(t, n, g.Snapshot().Count)
	row, _ := g.Cursor()
	assert.Equal(t, n-1, row)
}

func TestJumpPastLoadedRowsIsDeferred(t *testing.T) {
	const n = 40
	opener := func(context.Context) (frame.DataSource, error) {
		return &unknownCount{rows: testRows(n, shortName)}, nil
	}
	g := newTestGrid(t, opener, testConfig())
	settle(t, g, func() bool { return g.Snapshot().Opened })

	press(g, runes("3"))
	typeText(g, "0")
	press(g, keyEnter)
	settle(t, g, func() bool {
		row, _ := g.Cursor()
		return row == 30
	})
}

// =============================================================================
// SIZING AND PROJECTION
// =============================================================================

func TestScrollingNeverNarrowsColumns(t *testing.T) {
	grow := func(i int) string { return strings.Repeat("x", 1+i/2) }
	g := newTestGrid(t, source.MemoryOpener(testSchema, testRows(40, grow)), testConfig())
	g.SetSize(80, 6)
	settle(t, g, func() bool { return g.Snapshot().Opened })

	prev := g.active().widths()
	for i := 0; i < 12; i++ {
		press(g, runes("J"))
		settle(t, g, func() bool { return !g.Snapshot().Loading })
		cur := g.active().widths()
		require.Len(t, cur, len(prev))
		for c := range cur {
			assert.GreaterOrEqual(t, cur[c], prev[c], "column %d after %d pages", c, i)
		}
		prev = cur
	}
}

func TestSizingModeAdjustsCursorColumn(t *testing.T) {
	g := newTestGrid(t, source.MemoryOpener(testSchema, testRows(10, shortName)), testConfig())
	settle(t, g, loaded(g))

	before := g.active().widths()
	press(g, runes("s"), tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, ModeSizing, g.Mode())
	assert.Equal(t, before[0]+2, g.active().widths()[0])

	press(g, runes("r"))
	assert.Equal(t, before, g.active().widths())

	press(g, keyEsc)
	assert.Equal(t, ModeNormal, g.Mode())
}

func TestHideRejectsLastColumn(t *testing.T) {
	g := newTestGrid(t, source.MemoryOpener(testSchema, testRows(10, shortName)), testConfig())
	settle(t, g, loaded(g))

	press(g, runes("p"), keyDown)
	assert.Equal(t, 1, g.active().proj.Len())

	press(g, keyDown)
	assert.Equal(t, 1, g.active().proj.Len())
	assert.Contains(t, g.Status().Message, "last visible")

	press(g, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, g.active().proj.Len())
}

func TestMoveColumnFollowsCursor(t *testing.T) {
	g := newTestGrid(t, source.MemoryOpener(testSchema, testRows(10, shortName)), testConfig())
	settle(t, g, loaded(g))

	press(g, runes("p"), tea.KeyMsg{Type: tea.KeyRight})
	_, col := g.Cursor()
	assert.Equal(t, 1, col)
	assert.Equal(t, []int{1, 0}, g.active().proj.Visible())
	assert.Equal(t, "id", g.Status().Column)
}

// =============================================================================
// QUERIES
// =============================================================================

func queryGrid(t *testing.T) *Grid {
	t.Helper()
	eng, err := engine.New(engine.Options{TempDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	opener := source.MemoryOpener(testSchema, testRows(10, shortName))
	cfg := testConfig()
	cfg.Engine = eng
	cfg.Prepare = func(ctx context.Context) error {
		return eng.Ensure(ctx, "t", opener)
	}
	cfg.Invalidate = func() { eng.Unbind("t") }
	g := newTestGrid(t, opener, cfg)
	settle(t, g, loaded(g))
	return g
}

func query(g *Grid, text string) {
	press(g, runes("$"))
	typeText(g, text)
	press(g, keyEnter)
}

func TestQueryReplacesFrame(t *testing.T) {
	g := queryGrid(t)

	query(g, "SELECT id FROM t WHERE id >= 6")
	assert.Equal(t, ModeNormal, g.Mode())
	settle(t, g, func() bool { return !g.Querying() && loaded(g)() })

	assert.Equal(t, 4, g.Snapshot().Count)
	assert.Equal(t, "QUERY", g.Status().Mode)
	assert.Equal(t, 1, g.Snapshot().Schema.Len())
}

func TestQueryErrorKeepsFrame(t *testing.T) {
	g := queryGrid(t)

	query(g, "SELECT missing FROM t")
	settle(t, g, func() bool { return !g.Querying() })

	assert.Equal(t, 10, g.Snapshot().Count)
	assert.Equal(t, ModeNormal, g.Mode())
	assert.True(t, g.PromptVisible())
	assert.Contains(t, g.prompt.Message(), "query failed")
}

func TestQuerySupersedesPending(t *testing.T) {
	g := queryGrid(t)

	query(g, "SELECT id FROM t WHERE id < 3")
	query(g, "SELECT id FROM t WHERE id < 5")
	settle(t, g, func() bool { return !g.Querying() && loaded(g)() })

	assert.Equal(t, "SELECT id FROM t WHERE id < 5", g.view.query)
	assert.Equal(t, 5, g.Snapshot().Count)
}

func TestQueryFrameUsesCombinedNavigator(t *testing.T) {
	g := queryGrid(t)
	query(g, "SELECT id FROM t")
	settle(t, g, func() bool { return !g.Querying() && loaded(g)() })

	press(g, runes("4"))
	assert.IsType(t, Combined{}, g.nav)
	press(g, keyEnter)
	row, _ := g.Cursor()
	assert.Equal(t, 4, row)
}

func TestQueryWithoutEngine(t *testing.T) {
	g := newTestGrid(t, source.MemoryOpener(testSchema, testRows(3, shortName)), testConfig())
	press(g, runes("$"))
	assert.Equal(t, ModeNormal, g.Mode())
	assert.Equal(t, "no query engine", g.Status().Message)
}

// =============================================================================
// PANES
// =============================================================================

func TestDescribeToggles(t *testing.T) {
	g := newTestGrid(t, source.MemoryOpener(testSchema, testRows(10, shortName)), testConfig())
	settle(t, g, loaded(g))

	press(g, runes("d"))
	assert.Equal(t, "DESC", g.Status().Mode)
	settle(t, g, loaded(g))
	assert.Equal(t, testSchema.Len(), g.Snapshot().Count)

	press(g, runes("d"))
	assert.Equal(t, "NORMAL", g.Status().Mode)
	assert.Equal(t, 10, g.Snapshot().Count)
}

func TestCopyCell(t *testing.T) {
	var copied string
	cfg := testConfig()
	cfg.Clipboard = func(s string) error { copied = s; return nil }
	g := newTestGrid(t, source.MemoryOpener(testSchema, testRows(10, shortName)), cfg)
	settle(t, g, loaded(g))

	press(g, keyDown, tea.KeyMsg{Type: tea.KeyRight}, runes("y"))
	assert.Equal(t, "n1", copied)
	assert.Equal(t, "copied", g.Status().Message)
}

func TestMouseClickMovesCursor(t *testing.T) {
	g := newTestGrid(t, source.MemoryOpener(testSchema, testRows(10, shortName)), testConfig())
	settle(t, g, loaded(g))

	p := g.active()
	spans := p.vp.Columns()
	require.Len(t, spans, 2)
	x := p.gutter + g.renderer.Separator() + spans[1].X
	g.Mouse(tea.MouseMsg{X: x, Y: 4, Type: tea.MouseLeft})

	row, col := g.Cursor()
	assert.Equal(t, 3, row)
	assert.Equal(t, 1, col)
}

func TestViewHeight(t *testing.T) {
	g := newTestGrid(t, source.MemoryOpener(testSchema, testRows(10, shortName)), testConfig())
	settle(t, g, loaded(g))

	assert.Len(t, strings.Split(g.View(), "\n"), 12)
	press(g, runes("5"))
	assert.Len(t, strings.Split(g.View(), "\n"), 12, "prompt line takes one grid line")
}

func TestCloseReleases(t *testing.T) {
	g := New("test", source.MemoryOpener(testSchema, testRows(10, shortName)), testConfig())
	g.Close()
	g.Close()
	select {
	case <-g.Released():
	case <-time.After(3 * time.Second):
		t.Fatal("grid never released its sources")
	}
	g.Sync()
	assert.Equal(t, 0, g.Snapshot().Count)
}

// stuckSource blocks inside Fetch until released, ignoring cancellation the
// way a reader in the middle of a block does.
type stuckSource struct {
	fetching chan struct{}
	release  chan struct{}
	once     sync.Once
}

func (s *stuckSource) Schema() frame.Schema { return testSchema }
func (s *stuckSource) Count() (int, bool)   { return 0, false }
func (s *stuckSource) Close() error         { return nil }

func (s *stuckSource) Fetch(context.Context, int, int) ([]frame.Row, error) {
	s.once.Do(func() { close(s.fetching) })
	<-s.release
	return nil, nil
}

func TestCloseDoesNotWaitForFetch(t *testing.T) {
	src := &stuckSource{fetching: make(chan struct{}), release: make(chan struct{})}
	g := New("test", func(context.Context) (frame.DataSource, error) { return src, nil }, testConfig())

	select {
	case <-src.fetching:
	case <-time.After(3 * time.Second):
		t.Fatal("loader never fetched")
	}

	closed := make(chan struct{})
	go func() {
		g.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close blocked on a running Fetch")
	}

	select {
	case <-g.Released():
		t.Fatal("released before the Fetch returned")
	default:
	}

	close(src.release)
	select {
	case <-g.Released():
	case <-time.After(3 * time.Second):
		t.Fatal("grid never released its sources")
	}
}
