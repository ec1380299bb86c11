package segtree

// prefixSumTolerance absorbs floating point accumulation error when
// validating a prefix-sum target against the total mass in the tree
const prefixSumTolerance = 1e-5

// SumTree is a SegmentTree specialized to addition with neutral
// element 0. Beyond range sums, a SumTree supports finding the leaf
// at which the cumulative sum of all preceding leaves crosses a
// threshold, which allows sampling leaf indices proportionally to
// their values in O(lg capacity).
type SumTree struct {
	*SegmentTree
}

// NewSumTree creates and returns a new SumTree with the given
// capacity, which must be a positive power of two.
func NewSumTree(capacity int) (*SumTree, error) {
	tree, err := New(capacity, func(a, b float64) float64 {
		return a + b
	}, 0)
	if err != nil {
		return nil, err
	}
	return &SumTree{tree}, nil
}

// Sum returns the sum of leaves [start, end)
func (s *SumTree) Sum(start, end int) (float64, error) {
	return s.Reduce(start, end)
}

// SumAll returns the sum of every leaf in the tree
func (s *SumTree) SumAll() float64 {
	return s.ReduceAll()
}

// FindPrefixSumIndex returns the smallest leaf index i such that the
// cumulative sum of leaves [0, i] exceeds target. If leaf values are
// the unnormalized probabilities of a categorical distribution, then
// passing a uniform target in [0, SumAll()) samples a leaf index from
// that distribution.
//
// The target must lie in [0, SumAll()], up to a small tolerance for
// floating point accumulation error.
func (s *SumTree) FindPrefixSumIndex(target float64) (int, error) {
	if target < 0 || target > s.SumAll()+prefixSumTolerance {
		return 0, &TreeError{Op: "findPrefixSumIndex", Err: errOutOfRange}
	}

	// Descend from the root: whenever the left subtree holds more
	// mass than the remaining target the answer is inside it,
	// otherwise spend the left subtree's mass and descend right
	node := 1
	for node < s.capacity {
		if s.values[2*node] > target {
			node = 2 * node
		} else {
			target -= s.values[2*node]
			node = 2*node + 1
		}
	}
	return node - s.capacity, nil
}
