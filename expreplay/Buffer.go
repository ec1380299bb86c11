// Package expreplay implements experience replay buffers for
// reinforcement learning. Buffers hold a bounded window of the most
// recent transitions and return batches of stacked columns suitable
// for mini-batch training.
package expreplay

import (
	"fmt"

	"github.com/samuelfneumann/goreplay/timestep"
	"github.com/samuelfneumann/goreplay/utils/intutils"
)

// Buffer implements a fixed-capacity circular experience replay
// buffer sampled uniformly with replacement. Once the buffer fills,
// each Add overwrites the oldest stored transition.
//
// A Buffer performs no internal locking. If one goroutine adds while
// another samples, the caller must serialize access to the whole
// buffer.
type Buffer struct {
	// Transition columns, stored flat: transition i occupies
	// [i*obsSize, (i+1)*obsSize) of the observation caches and
	// [i*actionSize, (i+1)*actionSize) of the action cache
	obsCache     []float64
	actionCache  []float64
	rewardCache  []float64
	nextObsCache []float64
	doneCache    []float64

	// nextIdx is the ring slot the next Add will write. size counts
	// populated slots and saturates at capacity.
	nextIdx  int
	size     int
	capacity int

	obsSize    int
	actionSize int

	sampler Sampler
}

// NewBuffer creates and returns a new Buffer holding at most capacity
// transitions of the given observation and action vector sizes. The
// sampler provides the randomness used by Sample.
func NewBuffer(capacity, obsSize, actionSize int,
	sampler Sampler) (*Buffer, error) {
	if capacity <= 0 {
		return nil, &ExpReplayError{Op: "newBuffer", Err: errInvalidCapacity}
	}
	if obsSize <= 0 || actionSize <= 0 {
		return nil, fmt.Errorf("newBuffer: observation and action sizes "+
			"must be positive \n\thave(%v, %v)", obsSize, actionSize)
	}

	return &Buffer{
		obsCache:     make([]float64, capacity*obsSize),
		actionCache:  make([]float64, capacity*actionSize),
		rewardCache:  make([]float64, capacity),
		nextObsCache: make([]float64, capacity*obsSize),
		doneCache:    make([]float64, capacity),
		capacity:     capacity,
		obsSize:      obsSize,
		actionSize:   actionSize,
		sampler:      sampler,
	}, nil
}

// Len returns the current number of transitions in the buffer
func (b *Buffer) Len() int {
	return b.size
}

// Capacity returns the maximum number of transitions the buffer can
// hold
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Add copies a transition into the buffer. Once the buffer is full,
// each Add overwrites the oldest stored transition in ring order.
func (b *Buffer) Add(t timestep.Transition) error {
	if t.Observation.Len() != b.obsSize ||
		t.NextObservation.Len() != b.obsSize {
		return fmt.Errorf("add: invalid observation size "+
			"\n\twant(%v)\n\thave(%v)", b.obsSize, t.Observation.Len())
	}
	if t.Action.Len() != b.actionSize {
		return fmt.Errorf("add: invalid action size "+
			"\n\twant(%v)\n\thave(%v)", b.actionSize, t.Action.Len())
	}

	// Copy observations
	obsInd := b.nextIdx * b.obsSize
	copy(b.obsCache[obsInd:obsInd+b.obsSize], t.Observation.RawVector().Data)
	copy(b.nextObsCache[obsInd:obsInd+b.obsSize],
		t.NextObservation.RawVector().Data)

	// Copy action
	actionInd := b.nextIdx * b.actionSize
	copy(b.actionCache[actionInd:actionInd+b.actionSize],
		t.Action.RawVector().Data)

	b.rewardCache[b.nextIdx] = t.Reward
	if t.Done {
		b.doneCache[b.nextIdx] = 1.0
	} else {
		b.doneCache[b.nextIdx] = 0.0
	}

	b.nextIdx = (b.nextIdx + 1) % b.capacity
	b.size = intutils.Min(b.size+1, b.capacity)
	return nil
}

// Sample draws batchSize transitions independently and uniformly with
// replacement from the buffer and returns them as a batch of stacked
// columns
func (b *Buffer) Sample(batchSize int) (*Batch, error) {
	if batchSize <= 0 {
		return nil, &ExpReplayError{Op: "sample", Err: errInvalidBatchSize}
	}
	if b.size == 0 {
		return nil, &ExpReplayError{Op: "sample", Err: errEmptyBuffer}
	}

	indices := make([]int, batchSize)
	for i := range indices {
		indices[i] = b.sampler.Intn(b.size)
	}
	return b.encode(indices), nil
}

// encode gathers the transitions at the given ring slots into a batch
// of stacked columns. Every slot must be in [0, size).
func (b *Buffer) encode(indices []int) *Batch {
	batchSize := len(indices)

	obsBatch := make([]float64, batchSize*b.obsSize)
	nextObsBatch := make([]float64, batchSize*b.obsSize)
	for i, index := range indices {
		batchStartInd := i * b.obsSize
		expStartInd := index * b.obsSize
		copy(obsBatch[batchStartInd:batchStartInd+b.obsSize],
			b.obsCache[expStartInd:expStartInd+b.obsSize],
		)
		copy(nextObsBatch[batchStartInd:batchStartInd+b.obsSize],
			b.nextObsCache[expStartInd:expStartInd+b.obsSize],
		)
	}

	actionBatch := make([]float64, batchSize*b.actionSize)
	for i, index := range indices {
		batchStartInd := i * b.actionSize
		expStartInd := index * b.actionSize
		copy(actionBatch[batchStartInd:batchStartInd+b.actionSize],
			b.actionCache[expStartInd:expStartInd+b.actionSize],
		)
	}

	rewardBatch := make([]float64, batchSize)
	doneBatch := make([]float64, batchSize)
	for i, index := range indices {
		rewardBatch[i] = b.rewardCache[index]
		doneBatch[i] = b.doneCache[index]
	}

	return newBatch(obsBatch, actionBatch, rewardBatch, nextObsBatch,
		doneBatch, batchSize, b.obsSize, b.actionSize)
}

// String returns the string representation of the Buffer
func (b *Buffer) String() string {
	baseStr := "Size: %v \nNext Index: %v \nObservations: %v \nActions: " +
		"%v \nRewards: %v \nNext Observations: %v \nDones: %v"
	return fmt.Sprintf(baseStr, b.size, b.nextIdx, b.obsCache, b.actionCache,
		b.rewardCache, b.nextObsCache, b.doneCache)
}
