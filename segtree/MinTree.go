package segtree

import "math"

// MinTree is a SegmentTree specialized to the minimum operation with
// neutral element +Inf. Leaves that were never set do not contribute
// to any range minimum.
type MinTree struct {
	*SegmentTree
}

// NewMinTree creates and returns a new MinTree with the given
// capacity, which must be a positive power of two.
func NewMinTree(capacity int) (*MinTree, error) {
	tree, err := New(capacity, math.Min, math.Inf(1))
	if err != nil {
		return nil, err
	}
	return &MinTree{tree}, nil
}

// Min returns the minimum over leaves [start, end)
func (m *MinTree) Min(start, end int) (float64, error) {
	return m.Reduce(start, end)
}

// MinAll returns the minimum over every leaf in the tree
func (m *MinTree) MinAll() float64 {
	return m.ReduceAll()
}
