package expreplay

import (
	"fmt"
	"math"

	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goreplay/segtree"
	"github.com/samuelfneumann/goreplay/timestep"
	"github.com/samuelfneumann/goreplay/utils/floatutils"
	"github.com/samuelfneumann/goreplay/utils/intutils"
)

// Prioritized implements prioritized experience replay on top of a
// circular Buffer. Each ring slot carries a priority mass
// priority^alpha, tracked in a sum tree and a min tree keyed by the
// slot index, so drawing a slot proportionally to its priority and
// normalizing importance weights both cost O(lg capacity).
//
// Priorities are supplied by the training loop through
// UpdatePriorities, typically from the magnitude of each
// transition's training loss, and take effect on the next Sample.
// Freshly added transitions receive the largest priority seen so far,
// so new experience is sampled promptly at least once.
type Prioritized struct {
	buffer  *Buffer
	sumTree *segtree.SumTree
	minTree *segtree.MinTree

	// alpha sets how sharply sampling concentrates on high-priority
	// transitions: 0 is uniform, 1 fully proportional. beta is the
	// importance-sampling correction exponent.
	alpha float64
	beta  float64

	// maxPriority is the largest priority ever assigned, used as the
	// default priority of newly added transitions
	maxPriority float64
}

// NewPrioritized creates and returns a new Prioritized replay buffer
// holding at most capacity transitions. The priority trees are sized
// to the next power of two at or above capacity; ring slots beyond
// the buffer's capacity keep zero mass and are never sampled.
func NewPrioritized(capacity, obsSize, actionSize int, alpha, beta float64,
	sampler Sampler) (*Prioritized, error) {
	if alpha < 0 {
		return nil, fmt.Errorf("newPrioritized: alpha must be "+
			"non-negative \n\thave(%v)", alpha)
	}

	buffer, err := NewBuffer(capacity, obsSize, actionSize, sampler)
	if err != nil {
		return nil, err
	}

	treeCapacity := intutils.NextPowOf2(capacity)
	sumTree, err := segtree.NewSumTree(treeCapacity)
	if err != nil {
		return nil, err
	}
	minTree, err := segtree.NewMinTree(treeCapacity)
	if err != nil {
		return nil, err
	}

	return &Prioritized{
		buffer:      buffer,
		sumTree:     sumTree,
		minTree:     minTree,
		alpha:       alpha,
		beta:        beta,
		maxPriority: 1.0,
	}, nil
}

// Len returns the current number of transitions in the buffer
func (p *Prioritized) Len() int {
	return p.buffer.Len()
}

// Capacity returns the maximum number of transitions the buffer can
// hold
func (p *Prioritized) Capacity() int {
	return p.buffer.Capacity()
}

// Add copies a transition into the buffer and gives the ring slot
// that was just written the priority mass maxPriority^alpha in both
// trees. Overwriting a slot therefore also resets the stale priority
// the slot carried for its previous transition.
func (p *Prioritized) Add(t timestep.Transition) error {
	slot := p.buffer.nextIdx
	if err := p.buffer.Add(t); err != nil {
		return err
	}

	mass := math.Pow(p.maxPriority, p.alpha)
	if err := p.sumTree.Set(slot, mass); err != nil {
		return err
	}
	return p.minTree.Set(slot, mass)
}

// Sample draws a batch of transitions with probability proportional
// to priority mass and returns the batch together with the
// importance-sampling weight of each transition and the ring slots
// that were drawn. The slots identify which priorities to replace in
// the following UpdatePriorities call.
//
// Weights are normalized by the largest weight any populated slot
// could attain, so every returned weight lies in (0, 1] and a batch
// containing the minimum-priority slot contains a weight of exactly
// 1.
func (p *Prioritized) Sample(batchSize int) (*Batch, *tensor.Dense,
	[]int, error) {
	if batchSize <= 0 {
		err := &ExpReplayError{Op: "sample", Err: errInvalidBatchSize}
		return nil, nil, nil, err
	}
	if p.buffer.size == 0 {
		err := &ExpReplayError{Op: "sample", Err: errEmptyBuffer}
		return nil, nil, nil, err
	}

	indices, err := p.sampleProportional(batchSize)
	if err != nil {
		return nil, nil, nil, err
	}

	total := p.sumTree.SumAll()
	size := float64(p.buffer.size)
	pMin := p.minTree.MinAll() / total
	maxWeight := math.Pow(pMin*size, -p.beta)

	weights := make([]float64, batchSize)
	for i, index := range indices {
		mass, err := p.sumTree.Get(index)
		if err != nil {
			return nil, nil, nil, err
		}
		pSample := mass / total
		weights[i] = math.Pow(pSample*size, -p.beta) / maxWeight
	}

	batch := p.buffer.encode(indices)
	weightTensor := tensor.New(
		tensor.WithShape(batchSize),
		tensor.WithBacking(weights),
	)
	return batch, weightTensor, indices, nil
}

// sampleProportional draws one ring slot inside each of batchSize
// equal-width strata of the total priority mass. Stratifying the
// draws spreads samples across the mass, lowering sampling variance
// relative to independent proportional draws.
func (p *Prioritized) sampleProportional(batchSize int) ([]int, error) {
	indices := make([]int, batchSize)
	segment := p.sumTree.SumAll() / float64(batchSize)

	for i := range indices {
		mass := p.buffer.sampler.Float64()*segment + float64(i)*segment
		index, err := p.sumTree.FindPrefixSumIndex(mass)
		if err != nil {
			return nil, err
		}

		// Floating point error in the stratum boundaries can land the
		// descent one leaf past the populated region
		indices[i] = intutils.Min(index, p.buffer.size-1)
	}
	return indices, nil
}

// UpdatePriorities replaces the priority of each given ring slot with
// the corresponding new priority, raising each to alpha before
// storing it in both trees. Every priority must be positive: a slot
// with zero mass could never be sampled again, so non-positive
// priorities are rejected rather than clamped.
//
// All arguments are validated before any mutation, so a failed call
// leaves every priority unchanged.
func (p *Prioritized) UpdatePriorities(indices []int,
	priorities []float64) error {
	if len(indices) != len(priorities) {
		return &ExpReplayError{Op: "updatePriorities", Err: errLengthMismatch}
	}
	for i, index := range indices {
		if priorities[i] <= 0 {
			err := &ExpReplayError{
				Op:  "updatePriorities",
				Err: errInvalidPriority,
			}
			return err
		}
		if index < 0 || index >= p.buffer.size {
			err := &ExpReplayError{
				Op:  "updatePriorities",
				Err: errIndexOutOfRange,
			}
			return err
		}
	}

	for i, index := range indices {
		mass := math.Pow(priorities[i], p.alpha)
		if err := p.sumTree.Set(index, mass); err != nil {
			return err
		}
		if err := p.minTree.Set(index, mass); err != nil {
			return err
		}
		p.maxPriority = floatutils.Max(p.maxPriority, priorities[i])
	}
	return nil
}
