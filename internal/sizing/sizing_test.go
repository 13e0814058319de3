// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sizing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *Engine {
	return New(DefaultConfig(), []string{"id", "description", "a_rather_long_header_name_here"})
}

func TestNewSizesToHeaders(t *testing.T) {
	e := newEngine()
	require.Equal(t, 3, e.Len())
	assert.Equal(t, 2, e.Width(0), "short header is its own floor")
	assert.Equal(t, 5, e.Width(1), "long header floors at MinWidth")
	assert.Equal(t, 5, e.Width(2))
	for _, l := range e.Layouts() {
		assert.Equal(t, ContentFit, l.Mode)
		assert.False(t, l.Locked)
	}
}

func TestObserveGrowsAndCaps(t *testing.T) {
	e := newEngine()
	e.Observe([]int{4, 12, 80})
	assert.Equal(t, 4, e.Width(0))
	assert.Equal(t, 12, e.Width(1))
	assert.Equal(t, 25, e.Width(2), "content-fit is capped")

	e.Observe([]int{1, 3, 2})
	assert.Equal(t, []int{4, 12, 25}, widths(e), "narrower content never shrinks a column")
}

func TestObserveIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := newEngine()
	prev := widths(e)
	for i := 0; i < 500; i++ {
		sample := []int{rng.Intn(40), rng.Intn(40), rng.Intn(40)}
		e.Observe(sample)
		cur := widths(e)
		for col := range cur {
			if cur[col] < prev[col] {
				t.Fatalf("step %d: column %d shrank from %d to %d", i, col, prev[col], cur[col])
			}
		}
		prev = cur
	}
}

func TestHeaderFit(t *testing.T) {
	e := newEngine()
	e.Observe([]int{10, 10, 10})
	e.ToggleFit(2)
	assert.Equal(t, HeaderFit, e.Layout(2).Mode)
	assert.Equal(t, 30, e.Width(2))

	e.ToggleFit(2)
	assert.Equal(t, ContentFit, e.Layout(2).Mode)
	assert.Equal(t, 10, e.Width(2))
}

func TestFreeIsUncapped(t *testing.T) {
	e := newEngine()
	e.Observe([]int{0, 60, 0})
	require.Equal(t, 25, e.Width(1))
	e.Free(1)
	assert.Equal(t, 60, e.Width(1))
	assert.Equal(t, Free, e.Layout(1).Mode)
}

func TestManualResizeLocks(t *testing.T) {
	e := newEngine()
	e.Observe([]int{4, 8, 8})
	e.Augment(1)
	e.Augment(1)
	require.Equal(t, 10, e.Width(1))
	require.True(t, e.Layout(1).Locked)

	e.Observe([]int{4, 20, 8})
	assert.Equal(t, 10, e.Width(1), "locked column is skipped by auto-fit")

	for i := 0; i < 20; i++ {
		e.Reduce(1)
	}
	assert.Equal(t, 1, e.Width(1), "width never drops below one cell")

	e.Fit(1)
	assert.False(t, e.Layout(1).Locked)
	assert.Equal(t, 20, e.Width(1))
}

func TestResetRestoresInitialLayout(t *testing.T) {
	e := newEngine()
	e.Observe([]int{3, 14, 30})
	initial := e.Layouts()

	e.Augment(0)
	e.Reduce(1)
	e.Free(2)
	e.ToggleFit(1)
	e.Augment(1)
	require.NotEqual(t, initial, e.Layouts())

	e.Reset()
	assert.Equal(t, initial, e.Layouts())
}

func TestFitAllIgnoresLocksWithoutClearingThem(t *testing.T) {
	e := newEngine()
	e.Observe([]int{10, 20, 20})
	e.Augment(1)

	e.FitAll([]int{3, 6, 7})
	assert.Equal(t, []int{3, 6, 7}, widths(e), "fit-all may shrink")
	assert.True(t, e.Layout(1).Locked, "lock flag is kept")

	e.Observe([]int{9, 9, 9})
	assert.Equal(t, 6, e.Width(1), "column stays locked after fit-all")
	assert.Equal(t, 9, e.Width(0))
}

func TestOutOfRangeIsIgnored(t *testing.T) {
	e := newEngine()
	before := e.Layouts()
	e.Reduce(-1)
	e.Augment(9)
	e.Fit(3)
	assert.Equal(t, before, e.Layouts())
	assert.Equal(t, 0, e.Width(9))
}

func widths(e *Engine) []int {
	out := make([]int, e.Len())
	for i := range out {
		out[i] = e.Width(i)
	}
	return out
}
