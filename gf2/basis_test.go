package gf2_test

import (
	"testing"

	"github.com/canon-project/canon"
	"github.com/canon-project/canon/gf2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInsert(t *testing.T, basis *gf2.Basis, v gf2.Vector, position uint64) {
	t.Helper()
	inserted, err := basis.TryInsert(v, position)
	require.NoError(t, err)
	require.True(t, inserted, "expected %#x to be independent", uint64(v))
}

func TestBasis__EmptyState(t *testing.T) {
	basis, err := gf2.NewBasis(8)
	require.NoError(t, err)

	assert.Equal(t, 8, basis.Width())
	assert.Equal(t, 0, basis.Rank())
	assert.Empty(t, basis.Elements())
	assert.True(t, basis.InSpan(0), "zero vector is the empty combination")
	assert.False(t, basis.InSpan(0x01))
}

func TestBasis__DependentValueRejected(t *testing.T) {
	basis, err := gf2.NewBasis(8)
	require.NoError(t, err)

	mustInsert(t, basis, 0x01, 0)
	mustInsert(t, basis, 0x02, 1)

	// 0x03 = 0x01 ^ 0x02 is in the span already.
	inserted, err := basis.TryInsert(0x03, 2)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, 2, basis.Rank())
	assert.Equal(
		t,
		[]gf2.Element{{Vector: 0x01, Position: 0}, {Vector: 0x02, Position: 1}},
		basis.Elements(),
		"a rejected value must not change the basis")
}

func TestBasis__RepeatedValue(t *testing.T) {
	basis, err := gf2.NewBasis(8)
	require.NoError(t, err)

	mustInsert(t, basis, 0x55, 17)
	for position := uint64(18); position < 40; position++ {
		inserted, err := basis.TryInsert(0x55, position)
		require.NoError(t, err)
		assert.False(t, inserted)
	}

	assert.Equal(t, []gf2.Element{{Vector: 0x55, Position: 17}}, basis.Elements())
}

func TestBasis__RankNeverExceedsWidth(t *testing.T) {
	basis, err := gf2.NewBasis(8)
	require.NoError(t, err)

	for v := 1; v < 256; v++ {
		_, err := basis.TryInsert(gf2.Vector(v), uint64(v))
		require.NoError(t, err)
		require.LessOrEqual(t, basis.Rank(), 8)
	}

	assert.Equal(t, 8, basis.Rank(), "256 distinct bytes span the whole space")
	for v := 0; v < 256; v++ {
		assert.True(t, basis.InSpan(gf2.Vector(v)), "%#x should be in the full span", v)
	}
}

// Span membership is monotone: adding elements can only grow the span.
func TestBasis__SpanMonotonicity(t *testing.T) {
	basis, err := gf2.NewBasis(8)
	require.NoError(t, err)

	stream := []gf2.Vector{0x10, 0x0c, 0x81, 0x3e, 0xf0}
	inSpan := make(map[gf2.Vector]bool)

	for position, v := range stream {
		_, err := basis.TryInsert(v, uint64(position))
		require.NoError(t, err)

		for candidate := 0; candidate < 256; candidate++ {
			cv := gf2.Vector(candidate)
			now := basis.InSpan(cv)
			if inSpan[cv] {
				assert.True(t, now, "%#x left the span after inserting %#x", candidate, uint64(v))
			}
			inSpan[cv] = now
		}
	}
}

// Every pairwise sum of basis elements must be cached as reachable, which
// shows up as InSpan answering without running a reduction. Since the cache
// is invisible from outside, verify the observable half of the contract: all
// pairwise sums (and the elements themselves) are in the span, and rebuilding
// the derived state changes no answer.
func TestBasis__PairClosureSurvivesRebuild(t *testing.T) {
	basis, err := gf2.NewBasis(8)
	require.NoError(t, err)

	mustInsert(t, basis, 0x11, 0)
	mustInsert(t, basis, 0x22, 5)
	mustInsert(t, basis, 0x47, 9)

	before := make([]bool, 256)
	for v := 0; v < 256; v++ {
		before[v] = basis.InSpan(gf2.Vector(v))
	}
	for _, a := range basis.Elements() {
		assert.True(t, basis.InSpan(a.Vector))
		for _, b := range basis.Elements() {
			assert.True(t, basis.InSpan(gf2.Add(a.Vector, b.Vector)))
		}
	}

	require.NoError(t, basis.RebuildCache())
	for v := 0; v < 256; v++ {
		assert.Equal(
			t, before[v], basis.InSpan(gf2.Vector(v)),
			"membership of %#x changed across a rebuild", v)
	}
	assert.Equal(t, 3, basis.Rank())
}

func TestBasis__WideVectorsNoCache(t *testing.T) {
	// Widths above 16 bits run without the reachability bitmap; membership
	// must be exact regardless.
	basis, err := gf2.NewBasis(32)
	require.NoError(t, err)

	mustInsert(t, basis, 0xdeadbeef, 0)
	mustInsert(t, basis, 0x00c0ffee, 1)

	assert.True(t, basis.InSpan(0xdeadbeef))
	assert.True(t, basis.InSpan(gf2.Add(0xdeadbeef, 0x00c0ffee)))
	assert.False(t, basis.InSpan(0x1))

	inserted, err := basis.TryInsert(gf2.Add(0xdeadbeef, 0x00c0ffee), 2)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestBasis__ValueWiderThanSpace(t *testing.T) {
	basis, err := gf2.NewBasis(8)
	require.NoError(t, err)

	assert.False(t, basis.InSpan(0x100))

	inserted, err := basis.TryInsert(0x100, 0)
	assert.False(t, inserted)
	assert.ErrorIs(t, err, canon.ErrInvalidInput)
	assert.Equal(t, 0, basis.Rank())
}

func TestBasis__DeterministicDiscoveryOrder(t *testing.T) {
	// 0x1e = 0x07 ^ 0x19, so it's the one dependent value in the stream.
	stream := []gf2.Vector{0x07, 0x07, 0x19, 0x1e, 0x80, 0x42}

	run := func() []gf2.Element {
		basis, err := gf2.NewBasis(8)
		require.NoError(t, err)
		for position, v := range stream {
			_, err := basis.TryInsert(v, uint64(position))
			require.NoError(t, err)
		}
		return basis.Elements()
	}

	first := run()
	assert.Equal(t, first, run(), "identical input must yield an identical basis")
	assert.Equal(
		t,
		[]gf2.Element{
			{Vector: 0x07, Position: 0},
			{Vector: 0x19, Position: 2},
			{Vector: 0x80, Position: 4},
			{Vector: 0x42, Position: 5},
		},
		first)
}
