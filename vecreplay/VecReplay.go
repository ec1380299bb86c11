// Package vecreplay implements an experience replay buffer for
// multiple parallel environments where experience is stored and
// sampled as n-step segments. Raw observation frames are stored once
// and frame-stacked observation windows are rebuilt at sample time,
// with episode boundaries masked so stacked observations never mix
// frames from different episodes.
package vecreplay

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goreplay/utils/intutils"
)

// Sampler is the source of randomness the buffer draws slot indices
// from. A *rand.Rand from golang.org/x/exp/rand satisfies the
// interface.
type Sampler interface {
	// Intn returns a uniform random integer in [0, n). It panics if
	// n <= 0.
	Intn(n int) int
}

// NewSampler returns the default Sampler, backed by a generator
// seeded with seed
func NewSampler(seed uint64) Sampler {
	return rand.New(rand.NewSource(seed))
}

// Buffer implements a circular replay buffer over NumEnvs parallel
// environments. Each ring slot holds one n-step segment per
// environment: a window of NumSteps+StackSize raw frames together
// with the NumSteps actions, rewards, policy distributions, and
// episode-termination flags of the segment. A single write cursor is
// shared by all environments, so one Add populates one slot across
// every environment at once.
//
// Like the buffers in package expreplay, a Buffer performs no
// internal locking.
type Buffer struct {
	numEnvs    int
	numSteps   int
	stackSize  int
	numActions int

	// A raw frame holds frameChannels channel planes of frameSize
	// values each; frameLen is the full frame and windowLen the
	// number of raw frames stored per segment
	frameChannels int
	frameSize     int
	frameLen      int
	windowLen     int

	// Segment columns, stored flat. Within a slot, environments are
	// contiguous; within an environment, steps are contiguous.
	frameCache  []float64
	actionCache []float64
	rewardCache []float64
	probCache   []float64
	doneCache   []float64

	nextIdx int
	size    int
	slots   int

	sampler Sampler
}

// Config implements a specific configuration of a multi-environment
// replay Buffer. Capacity counts environment steps, so the buffer
// holds Capacity / NumSteps segment slots. FrameChannels and
// FrameSize describe a single raw (unstacked) observation frame:
// FrameChannels channel planes of FrameSize values each. NumActions
// sizes the stored policy distributions.
type Config struct {
	NumEnvs       int
	NumSteps      int
	StackSize     int
	Capacity      int
	FrameChannels int
	FrameSize     int
	NumActions    int
	Seed          uint64
}

// Validate returns an error describing why the Config cannot be
// created, or nil if the Config is valid
func (c Config) Validate() error {
	if c.NumEnvs <= 0 || c.NumSteps <= 0 || c.StackSize <= 0 {
		return fmt.Errorf("validate: environment count, step count, and "+
			"stack size must be positive \n\thave(%v, %v, %v)", c.NumEnvs,
			c.NumSteps, c.StackSize)
	}
	if c.FrameChannels <= 0 || c.FrameSize <= 0 || c.NumActions <= 0 {
		return fmt.Errorf("validate: frame dimensions and action count "+
			"must be positive \n\thave(%v, %v, %v)", c.FrameChannels,
			c.FrameSize, c.NumActions)
	}
	if c.Capacity/c.NumSteps < 1 {
		return &VecReplayError{Op: "validate", Err: errInvalidCapacity}
	}
	return nil
}

// Create creates and returns the Buffer with the specified Config
func (c Config) Create() (*Buffer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return New(c, NewSampler(c.Seed))
}

// New creates and returns a new Buffer with the specified Config,
// drawing randomness from sampler
func New(c Config, sampler Sampler) (*Buffer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Each slot stores NumSteps environment steps, so slots are
	// coarser grained than the configured step capacity
	slots := c.Capacity / c.NumSteps
	frameLen := c.FrameChannels * c.FrameSize
	windowLen := c.NumSteps + c.StackSize

	return &Buffer{
		numEnvs:       c.NumEnvs,
		numSteps:      c.NumSteps,
		stackSize:     c.StackSize,
		numActions:    c.NumActions,
		frameChannels: c.FrameChannels,
		frameSize:     c.FrameSize,
		frameLen:      frameLen,
		windowLen:     windowLen,
		frameCache:    make([]float64, slots*c.NumEnvs*windowLen*frameLen),
		actionCache:   make([]float64, slots*c.NumEnvs*c.NumSteps),
		rewardCache:   make([]float64, slots*c.NumEnvs*c.NumSteps),
		probCache:     make([]float64, slots*c.NumEnvs*c.NumSteps*c.NumActions),
		doneCache:     make([]float64, slots*c.NumEnvs*c.NumSteps),
		slots:         slots,
		sampler:       sampler,
	}, nil
}

// Len returns the current number of populated segment slots
func (b *Buffer) Len() int {
	return b.size
}

// Slots returns the total number of segment slots in the buffer
func (b *Buffer) Slots() int {
	return b.slots
}

// Add copies one n-step segment per environment into the slot at the
// shared write cursor, overwriting the oldest slot once the buffer is
// full. The expected tensor shapes are:
//
//	frames  (NumEnvs, NumSteps+StackSize, FrameChannels, FrameSize)
//	actions (NumEnvs, NumSteps)
//	rewards (NumEnvs, NumSteps)
//	probs   (NumEnvs, NumSteps, NumActions)
//	dones   (NumEnvs, NumSteps)
//
// All tensors must hold float64 values. Dones are 1.0 at steps that
// end an episode and 0.0 elsewhere.
func (b *Buffer) Add(frames, actions, rewards, probs,
	dones *tensor.Dense) error {
	frameData, err := b.rawData("frames", frames,
		tensor.Shape{b.numEnvs, b.windowLen, b.frameChannels, b.frameSize})
	if err != nil {
		return err
	}
	actionData, err := b.rawData("actions", actions,
		tensor.Shape{b.numEnvs, b.numSteps})
	if err != nil {
		return err
	}
	rewardData, err := b.rawData("rewards", rewards,
		tensor.Shape{b.numEnvs, b.numSteps})
	if err != nil {
		return err
	}
	probData, err := b.rawData("probs", probs,
		tensor.Shape{b.numEnvs, b.numSteps, b.numActions})
	if err != nil {
		return err
	}
	doneData, err := b.rawData("dones", dones,
		tensor.Shape{b.numEnvs, b.numSteps})
	if err != nil {
		return err
	}

	copy(b.frameCache[b.nextIdx*len(frameData):], frameData)
	copy(b.actionCache[b.nextIdx*len(actionData):], actionData)
	copy(b.rewardCache[b.nextIdx*len(rewardData):], rewardData)
	copy(b.probCache[b.nextIdx*len(probData):], probData)
	copy(b.doneCache[b.nextIdx*len(doneData):], doneData)

	b.nextIdx = (b.nextIdx + 1) % b.slots
	b.size = intutils.Min(b.size+1, b.slots)
	return nil
}

// rawData validates the shape and element type of an argument tensor
// and returns its backing data
func (b *Buffer) rawData(name string, t *tensor.Dense,
	want tensor.Shape) ([]float64, error) {
	if t.Dtype() != tensor.Float64 {
		return nil, fmt.Errorf("add: %v must hold float64 \n\thave(%v)",
			name, t.Dtype())
	}
	if !t.Shape().Eq(want) {
		return nil, fmt.Errorf("add: invalid %v shape \n\twant(%v)"+
			"\n\thave(%v)", name, want, t.Shape())
	}
	return t.Data().([]float64), nil
}

// Sample draws one populated slot per environment, uniformly and
// independently, rebuilds the frame-stacked observation window of
// each drawn segment, and returns the batch. Sampling per environment
// rather than one shared slot avoids the correlation a shared draw
// would introduce across environments.
func (b *Buffer) Sample() (*Batch, error) {
	if b.size == 0 {
		return nil, &VecReplayError{Op: "sample", Err: errEmptyBuffer}
	}

	slots := make([]int, b.numEnvs)
	for env := range slots {
		slots[env] = b.sampler.Intn(b.size)
	}
	return b.encode(slots), nil
}

// encode gathers, for each environment, the segment stored for that
// environment at the given slot, and stacks observation frames into
// windows of length NumSteps+1
func (b *Buffer) encode(slots []int) *Batch {
	stackedLen := b.stackSize * b.frameLen
	obs := make([]float64, b.numEnvs*(b.numSteps+1)*stackedLen)
	actions := make([]float64, b.numEnvs*b.numSteps)
	rewards := make([]float64, b.numEnvs*b.numSteps)
	probs := make([]float64, b.numEnvs*b.numSteps*b.numActions)
	dones := make([]float64, b.numEnvs*b.numSteps)

	frameEnvStride := b.windowLen * b.frameLen
	for env, slot := range slots {
		frameStart := slot*b.numEnvs*frameEnvStride + env*frameEnvStride
		frames := b.frameCache[frameStart : frameStart+frameEnvStride]

		stepStart := slot*b.numEnvs*b.numSteps + env*b.numSteps
		done := b.doneCache[stepStart : stepStart+b.numSteps]

		obsStart := env * (b.numSteps + 1) * stackedLen
		b.stackFrames(frames, done,
			obs[obsStart:obsStart+(b.numSteps+1)*stackedLen])

		copy(actions[env*b.numSteps:], b.actionCache[stepStart:stepStart+b.numSteps])
		copy(rewards[env*b.numSteps:], b.rewardCache[stepStart:stepStart+b.numSteps])
		copy(dones[env*b.numSteps:], done)

		probStride := b.numSteps * b.numActions
		probStart := slot*b.numEnvs*probStride + env*probStride
		copy(probs[env*probStride:], b.probCache[probStart:probStart+probStride])
	}

	return newBatch(obs, actions, rewards, probs, dones, b.numEnvs,
		b.numSteps, b.stackSize, b.frameChannels, b.frameSize, b.numActions)
}

// stackFrames rebuilds the frame-stacked observation window of one
// stored segment. The output holds NumSteps+1 stacked observations;
// stack depth d of the observation at window step t is raw frame d+t,
// so depth StackSize-1 is the current frame and depth 0 the oldest.
//
// A frame recorded before an episode boundary must not appear inside
// an observation taken after that boundary. The mask starts as the
// not-done indicator shifted one step forward and accumulates one
// additional not-done factor for each older stack depth, zeroing
// exactly the frames that an episode termination separates from the
// observation they would otherwise join.
func (b *Buffer) stackFrames(frames, done, out []float64) {
	window := b.numSteps + 1

	mask := make([]float64, window)
	mask[0] = 1.0
	for t := 1; t < window; t++ {
		mask[t] = 1.0 - done[t-1]
	}

	for d := b.stackSize - 1; d >= 0; d-- {
		for t := 0; t < window; t++ {
			src := frames[(d+t)*b.frameLen : (d+t+1)*b.frameLen]
			dstStart := (t*b.stackSize + d) * b.frameLen
			dst := out[dstStart : dstStart+b.frameLen]
			copy(dst, src)

			if d < b.stackSize-1 {
				for i := range dst {
					dst[i] *= mask[t]
				}
			}
		}

		if d < b.stackSize-1 {
			// Each older depth must also be zeroed by boundaries one
			// step closer to it, so fold the mask forward once per
			// depth
			for t := window - 1; t >= 1; t-- {
				mask[t] *= mask[t-1]
			}
		}
	}
}

// String returns the string representation of the Buffer
func (b *Buffer) String() string {
	baseStr := "Slots: %v \nSize: %v \nNext Index: %v \nEnvironments: " +
		"%v \nSteps Per Segment: %v \nStack Size: %v"
	return fmt.Sprintf(baseStr, b.slots, b.size, b.nextIdx, b.numEnvs,
		b.numSteps, b.stackSize)
}
