// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package projection

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	p := New(4)
	assert.Equal(t, []int{0, 1, 2, 3}, p.Visible())
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, 2, p.Source(2))
	assert.Equal(t, -1, p.Source(4))
}

func TestMoveAtEndsIsNoop(t *testing.T) {
	p := New(3)
	assert.Equal(t, 0, p.MoveLeft(0))
	assert.Equal(t, 2, p.MoveRight(2))
	assert.Equal(t, []int{0, 1, 2}, p.Visible())
}

func TestMoveSkipsHidden(t *testing.T) {
	p := New(4)
	require.NoError(t, p.Hide(1))
	assert.Equal(t, []int{0, 2, 3}, p.Visible())

	// Source 2 is displayed at 1; moving it left passes over hidden source 1.
	assert.Equal(t, 0, p.MoveLeft(1))
	assert.Equal(t, []int{2, 0, 3}, p.Visible())
	assert.Equal(t, 1, p.Display(0))
	assert.Equal(t, -1, p.Display(1))
}

func TestHideLastVisibleIsRejected(t *testing.T) {
	p := New(2)
	require.NoError(t, p.Hide(0))
	before := p.Entries()

	err := p.Hide(0)
	var lerr *LayoutError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "hide", lerr.Op)
	assert.Equal(t, before, p.Entries())
	assert.Equal(t, 1, p.Len())
}

func TestHideCountProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		p := New(rng.Intn(8) + 1)
		for step := 0; step < 30; step++ {
			switch rng.Intn(3) {
			case 0:
				p.MoveLeft(rng.Intn(p.Len()))
			case 1:
				p.MoveRight(rng.Intn(p.Len()))
			default:
				before := p.Len()
				err := p.Hide(rng.Intn(before))
				if before == 1 {
					require.Error(t, err)
					require.Equal(t, 1, p.Len())
				} else {
					require.NoError(t, err)
					require.Equal(t, before-1, p.Len())
				}
			}
			assertNoDuplicates(t, p)
		}
	}
}

func TestResetRoundTrip(t *testing.T) {
	p := New(5)
	initial := p.Entries()

	p.MoveRight(0)
	p.MoveRight(1)
	require.NoError(t, p.Hide(3))
	p.MoveLeft(2)
	require.NotEqual(t, initial, p.Entries())

	p.Reset()
	assert.Equal(t, initial, p.Entries())
}

func assertNoDuplicates(t *testing.T, p *Projection) {
	t.Helper()
	seen := map[int]bool{}
	for _, e := range p.Entries() {
		require.False(t, seen[e.Source], "source %d appears twice", e.Source)
		seen[e.Source] = true
	}
}
