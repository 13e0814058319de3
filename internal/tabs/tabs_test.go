// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tabs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tabula/internal/frame"
	"github.com/jeranaias/tabula/internal/grid"
	"github.com/jeranaias/tabula/internal/source"
	"github.com/jeranaias/tabula/internal/ui/styles"
)

var schema = frame.NewSchema(frame.Field{Name: "n", Type: frame.TypeInteger})

func rows(n int) []frame.Row {
	out := make([]frame.Row, n)
	for i := range out {
		out[i] = frame.Row{frame.IntValue(int64(i))}
	}
	return out
}

func testConfig() grid.Config {
	return grid.Config{
		Frame: frame.Options{ChunkRows: 8, Prefetch: 1},
		Theme: styles.NewTheme("dark"),
	}
}

func newGrid(n int) *grid.Grid {
	return grid.New("t", source.MemoryOpener(schema, rows(n)), testConfig())
}

// slowSource blocks every fetch until its context is cancelled.
type slowSource struct{}

func (slowSource) Schema() frame.Schema { return schema }
func (slowSource) Count() (int, bool)   { return 0, false }
func (slowSource) Close() error         { return nil }

func (slowSource) Fetch(ctx context.Context, start, limit int) ([]frame.Row, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestOpenActivates(t *testing.T) {
	m := New()
	assert.True(t, m.Idle())
	assert.Nil(t, m.Active())

	a := m.Open("a", "", newGrid(3))
	b := m.Open("b", "", newGrid(3))
	t.Cleanup(m.CloseAll)

	assert.Equal(t, b, m.Active())
	assert.NotSame(t, a, b)
	assert.Equal(t, []string{"a", "b"}, m.Titles())
}

func TestCycle(t *testing.T) {
	m := New()
	t.Cleanup(m.CloseAll)
	for _, title := range []string{"a", "b", "c"} {
		m.Open(title, "", newGrid(1))
	}
	require.True(t, m.Activate(0))

	m.Next()
	assert.Equal(t, "b", m.Active().Title)
	m.Next()
	m.Next()
	assert.Equal(t, "a", m.Active().Title)
	m.Prev()
	assert.Equal(t, "c", m.Active().Title)

	assert.False(t, m.Activate(3))
	assert.Equal(t, 2, m.ActiveIndex())
}

func TestCloseActivation(t *testing.T) {
	tests := []struct {
		name   string
		active int
		want   string
	}{
		{"middle activates previous", 1, "a"},
		{"first activates next", 0, "b"},
		{"last activates previous", 2, "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			t.Cleanup(m.CloseAll)
			for _, title := range []string{"a", "b", "c"} {
				m.Open(title, "", newGrid(1))
			}
			m.Activate(tt.active)
			require.True(t, m.Close())
			assert.Equal(t, 2, m.Len())
			assert.Equal(t, tt.want, m.Active().Title)
		})
	}
}

func TestCloseLastGoesIdle(t *testing.T) {
	m := New()
	m.Open("a", "", newGrid(1))
	require.True(t, m.Close())
	assert.True(t, m.Idle())
	assert.Equal(t, -1, m.ActiveIndex())
	assert.False(t, m.Close())
}

func TestCloseMidLoadLeavesOthers(t *testing.T) {
	m := New()
	t.Cleanup(m.CloseAll)

	slow := grid.New("a", func(context.Context) (frame.DataSource, error) {
		return slowSource{}, nil
	}, testConfig())
	m.Open("a", "", slow)
	b := m.Open("b", "", newGrid(20))

	m.Activate(0)
	require.True(t, m.Close())
	assert.Equal(t, b, m.Active())

	deadline := time.Now().Add(5 * time.Second)
	for !b.Grid.Snapshot().Final && time.Now().Before(deadline) {
		b.Grid.Sync()
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 20, b.Grid.Snapshot().Count)

	again := m.Open("a", "", grid.New("a", func(context.Context) (frame.DataSource, error) {
		return slowSource{}, nil
	}, testConfig()))
	assert.Equal(t, 0, again.Grid.Snapshot().Count, "a reopened tab starts empty")
}

func TestMarkStaleMatchesPath(t *testing.T) {
	dir := t.TempDir()
	m := New()
	t.Cleanup(m.CloseAll)
	m.Open("a", filepath.Join(dir, "a.csv"), newGrid(1))
	m.Open("a2", filepath.Join(dir, ".", "a.csv"), newGrid(1))
	m.Open("b", filepath.Join(dir, "b.csv"), newGrid(1))
	m.Open("q", "", newGrid(1))

	assert.Equal(t, 2, m.MarkStale(filepath.Join(dir, "a.csv")))
	assert.Equal(t, 0, m.MarkStale(""))
}
