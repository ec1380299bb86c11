// Package segtree implements segment trees which maintain running
// reductions of an associative operation over fixed-capacity arrays
package segtree

import "github.com/samuelfneumann/goreplay/utils/intutils"

// Operation is an associative binary operation for combining two
// elements of a SegmentTree. Together with its neutral element, the
// operation must form a monoid over float64, e.g. (+, 0) or
// (min, +Inf).
type Operation func(a, b float64) float64

// SegmentTree implements a fixed-capacity array of float64 which
// maintains the reduction of an Operation over contiguous ranges of
// its elements.
//
// A SegmentTree can be used like a regular array, with two important
// differences:
//
//	a) setting an element is slightly slower: O(lg capacity) instead
//	   of O(1).
//	b) the tree provides an efficient - O(lg capacity) - Reduce
//	   method which folds the Operation over any contiguous range of
//	   elements.
type SegmentTree struct {
	capacity int
	op       Operation
	neutral  float64

	// values holds the nodes of a complete binary tree as a dense
	// array of size 2*capacity: index capacity+i is leaf i, and the
	// children of node k are nodes 2k and 2k+1. Invariant: for every
	// internal node k, values[k] == op(values[2k], values[2k+1]).
	values []float64
}

// New creates and returns a new SegmentTree with the given capacity,
// combining operation, and neutral element of the operation. The
// capacity must be a positive power of two.
func New(capacity int, op Operation, neutral float64) (*SegmentTree, error) {
	if !intutils.IsPowOf2(capacity) {
		return nil, &TreeError{Op: "new", Err: errInvalidCapacity}
	}

	values := make([]float64, 2*capacity)
	for i := range values {
		values[i] = neutral
	}

	return &SegmentTree{
		capacity: capacity,
		op:       op,
		neutral:  neutral,
		values:   values,
	}, nil
}

// Capacity returns the number of leaves in the tree
func (s *SegmentTree) Capacity() int {
	return s.capacity
}

// Set sets the value of leaf index, then recomputes each ancestor of
// the leaf from its children so that every internal node remains the
// reduction of the leaves below it
func (s *SegmentTree) Set(index int, value float64) error {
	if index < 0 || index >= s.capacity {
		return &TreeError{Op: "set", Err: errIndexOutOfRange}
	}

	node := index + s.capacity
	s.values[node] = value
	for node /= 2; node >= 1; node /= 2 {
		s.values[node] = s.op(s.values[2*node], s.values[2*node+1])
	}
	return nil
}

// Get returns the value of leaf index
func (s *SegmentTree) Get(index int) (float64, error) {
	if index < 0 || index >= s.capacity {
		return 0, &TreeError{Op: "get", Err: errIndexOutOfRange}
	}
	return s.values[s.capacity+index], nil
}

// Reduce returns the result of folding the tree's operation over the
// leaves in [start, end). Reducing an empty range returns the
// operation's neutral element.
func (s *SegmentTree) Reduce(start, end int) (float64, error) {
	if start < 0 || end > s.capacity || start > end {
		return 0, &TreeError{Op: "reduce", Err: errIndexOutOfRange}
	}
	if start == end {
		return s.neutral, nil
	}
	return s.reduce(start, end-1, 1, 0, s.capacity-1), nil
}

// ReduceAll returns the result of folding the tree's operation over
// every leaf
func (s *SegmentTree) ReduceAll() float64 {
	// The root caches the reduction over all leaves
	return s.values[1]
}

// reduce folds the tree's operation over leaves [start, end]
// (inclusive) by descending from node, which covers leaves
// [nodeStart, nodeEnd]. A node whose covered range equals the query
// range returns its cached value without descending, so only the two
// boundary paths of the query are walked.
func (s *SegmentTree) reduce(start, end, node, nodeStart, nodeEnd int) float64 {
	if start == nodeStart && end == nodeEnd {
		return s.values[node]
	}

	mid := (nodeStart + nodeEnd) / 2
	if end <= mid {
		return s.reduce(start, end, 2*node, nodeStart, mid)
	}
	if start >= mid+1 {
		return s.reduce(start, end, 2*node+1, mid+1, nodeEnd)
	}
	return s.op(
		s.reduce(start, mid, 2*node, nodeStart, mid),
		s.reduce(mid+1, end, 2*node+1, mid+1, nodeEnd),
	)
}
