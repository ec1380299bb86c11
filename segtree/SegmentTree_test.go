package segtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// checkInvariant fails the test if any internal node of the tree is
// not the combination of its children
func checkInvariant(t *testing.T, tree *SegmentTree) {
	t.Helper()
	for node := 1; node < tree.capacity; node++ {
		want := tree.op(tree.values[2*node], tree.values[2*node+1])
		assert.Equal(t, want, tree.values[node],
			"internal node %v does not combine its children", node)
	}
}

func TestNewRejectsInvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -8, 3, 6, 12, 100} {
		_, err := New(capacity, math.Min, math.Inf(1))
		require.Error(t, err)
		assert.True(t, IsInvalidCapacity(err), "capacity %v", capacity)
	}

	for _, capacity := range []int{1, 2, 4, 64, 1024} {
		_, err := New(capacity, math.Min, math.Inf(1))
		require.NoError(t, err, "capacity %v", capacity)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	tree, err := New(8, func(a, b float64) float64 { return a + b }, 0)
	require.NoError(t, err)

	for i := 0; i < tree.Capacity(); i++ {
		value := float64(i)*1.5 - 3.0
		require.NoError(t, tree.Set(i, value))

		got, err := tree.Get(i)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	}
}

func TestSetMaintainsInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	sum, err := New(16, func(a, b float64) float64 { return a + b }, 0)
	require.NoError(t, err)
	min, err := New(16, math.Min, math.Inf(1))
	require.NoError(t, err)

	for i := 0; i < 250; i++ {
		index := rng.Intn(16)
		value := rng.Float64() * 10

		require.NoError(t, sum.Set(index, value))
		require.NoError(t, min.Set(index, value))

		checkInvariant(t, sum)
		checkInvariant(t, min)
	}
}

func TestReduceMatchesFold(t *testing.T) {
	const capacity = 16
	rng := rand.New(rand.NewSource(13))

	op := func(a, b float64) float64 { return a + b }
	tree, err := New(capacity, op, 0)
	require.NoError(t, err)

	leaves := make([]float64, capacity)
	for i := range leaves {
		leaves[i] = rng.Float64()*4 - 2
		require.NoError(t, tree.Set(i, leaves[i]))
	}

	for start := 0; start <= capacity; start++ {
		for end := start; end <= capacity; end++ {
			want := 0.0
			for _, leaf := range leaves[start:end] {
				want = op(want, leaf)
			}

			got, err := tree.Reduce(start, end)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-12, "range [%v, %v)", start, end)
		}
	}
}

func TestReduceEmptyRangeReturnsNeutral(t *testing.T) {
	tree, err := New(8, math.Min, math.Inf(1))
	require.NoError(t, err)
	require.NoError(t, tree.Set(3, -1.0))

	got, err := tree.Reduce(5, 5)
	require.NoError(t, err)
	assert.Equal(t, math.Inf(1), got)
}

func TestIndexOutOfRange(t *testing.T) {
	tree, err := New(4, math.Min, math.Inf(1))
	require.NoError(t, err)

	for _, index := range []int{-1, 4, 100} {
		err := tree.Set(index, 1.0)
		require.Error(t, err)
		assert.True(t, IsIndexOutOfRange(err))

		_, err = tree.Get(index)
		require.Error(t, err)
		assert.True(t, IsIndexOutOfRange(err))
	}

	_, err = tree.Reduce(-1, 4)
	assert.True(t, IsIndexOutOfRange(err))
	_, err = tree.Reduce(0, 5)
	assert.True(t, IsIndexOutOfRange(err))
	_, err = tree.Reduce(3, 2)
	assert.True(t, IsIndexOutOfRange(err))
}

func TestUnsetLeavesHoldNeutral(t *testing.T) {
	tree, err := New(8, func(a, b float64) float64 { return a + b }, 0)
	require.NoError(t, err)
	require.NoError(t, tree.Set(2, 5.0))

	for _, index := range []int{0, 1, 3, 7} {
		got, err := tree.Get(index)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	}
	assert.Equal(t, 5.0, tree.ReduceAll())
}
