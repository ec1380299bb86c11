package vecreplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

// fixedSampler is a Sampler returning predetermined slot indices,
// cycling when the sequence is exhausted
type fixedSampler struct {
	ints []int
	next int
}

func (f *fixedSampler) Intn(n int) int {
	if len(f.ints) == 0 {
		return 0
	}
	v := f.ints[f.next%len(f.ints)] % n
	f.next++
	return v
}

// testConfig returns a small two-environment configuration with
// scalar frames, which keeps expected observations easy to write out
// by hand
func testConfig() Config {
	return Config{
		NumEnvs:       2,
		NumSteps:      3,
		StackSize:     2,
		Capacity:      6, // two segment slots
		FrameChannels: 1,
		FrameSize:     1,
		NumActions:    2,
		Seed:          1,
	}
}

// newSegment builds the Add arguments for one segment. Frames run
// through the full window (NumSteps+StackSize scalar frames per
// environment).
func newSegment(c Config, frames [][]float64, dones [][]float64,
	rewardBase float64) (f, a, r, p, d *tensor.Dense) {
	window := c.NumSteps + c.StackSize

	frameData := make([]float64, 0, c.NumEnvs*window)
	doneData := make([]float64, 0, c.NumEnvs*c.NumSteps)
	for env := 0; env < c.NumEnvs; env++ {
		frameData = append(frameData, frames[env]...)
		doneData = append(doneData, dones[env]...)
	}

	actionData := make([]float64, c.NumEnvs*c.NumSteps)
	rewardData := make([]float64, c.NumEnvs*c.NumSteps)
	probData := make([]float64, c.NumEnvs*c.NumSteps*c.NumActions)
	for i := range rewardData {
		actionData[i] = float64(i % c.NumActions)
		rewardData[i] = rewardBase + float64(i)
	}
	for i := range probData {
		probData[i] = 1.0 / float64(c.NumActions)
	}

	f = tensor.New(
		tensor.WithShape(c.NumEnvs, window, c.FrameChannels, c.FrameSize),
		tensor.WithBacking(frameData),
	)
	a = tensor.New(
		tensor.WithShape(c.NumEnvs, c.NumSteps),
		tensor.WithBacking(actionData),
	)
	r = tensor.New(
		tensor.WithShape(c.NumEnvs, c.NumSteps),
		tensor.WithBacking(rewardData),
	)
	p = tensor.New(
		tensor.WithShape(c.NumEnvs, c.NumSteps, c.NumActions),
		tensor.WithBacking(probData),
	)
	d = tensor.New(
		tensor.WithShape(c.NumEnvs, c.NumSteps),
		tensor.WithBacking(doneData),
	)
	return
}

func TestConfigValidate(t *testing.T) {
	valid := testConfig()
	require.NoError(t, valid.Validate())

	buffer, err := valid.Create()
	require.NoError(t, err)
	assert.Equal(t, 2, buffer.Slots())

	invalid := valid
	invalid.Capacity = 2 // less than one segment of 3 steps
	err = invalid.Validate()
	require.Error(t, err)
	assert.True(t, IsInvalidCapacity(err))

	invalid = valid
	invalid.NumEnvs = 0
	assert.Error(t, invalid.Validate())

	invalid = valid
	invalid.StackSize = -1
	assert.Error(t, invalid.Validate())
}

func TestFrameStackMasking(t *testing.T) {
	c := testConfig()
	buffer, err := New(c, &fixedSampler{ints: []int{0, 0}})
	require.NoError(t, err)

	// Environment 0 ends an episode at step 1 of the segment;
	// environment 1 never terminates
	frames := [][]float64{
		{1, 2, 3, 4, 5},
		{10, 20, 30, 40, 50},
	}
	dones := [][]float64{
		{0, 1, 0},
		{0, 0, 0},
	}

	f, a, r, p, d := newSegment(c, frames, dones, 0)
	require.NoError(t, buffer.Add(f, a, r, p, d))

	batch, err := buffer.Sample()
	require.NoError(t, err)

	assert.Equal(t, []int{2, 4, 2, 1}, []int(batch.Obs.Shape()))
	assert.Equal(t, []int{2, 3}, []int(batch.Dones.Shape()))
	assert.Equal(t, []int{2, 3, 2}, []int(batch.Probs.Shape()))

	// Each stacked observation is (older frame, current frame). The
	// termination after step 1 zeroes the older channel of
	// environment 0's observation at window step 2 and nowhere else.
	wantObs := []float64{
		// Environment 0
		1, 2,
		2, 3,
		0, 4,
		4, 5,
		// Environment 1
		10, 20,
		20, 30,
		30, 40,
		40, 50,
	}
	assert.Equal(t, wantObs, batch.Obs.Data().([]float64))

	wantDones := []float64{0, 1, 0, 0, 0, 0}
	assert.Equal(t, wantDones, batch.Dones.Data().([]float64))
}

func TestSharedCursorRingOverwrite(t *testing.T) {
	c := testConfig()
	buffer, err := New(c, &fixedSampler{ints: []int{0, 1}})
	require.NoError(t, err)

	frames := [][]float64{
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
	}
	dones := [][]float64{
		{0, 0, 0},
		{0, 0, 0},
	}

	// Three adds into two slots: the third wraps around and
	// overwrites slot 0 for every environment at once
	for i := 0; i < 3; i++ {
		f, a, r, p, d := newSegment(c, frames, dones, float64(100*(i+1)))
		require.NoError(t, buffer.Add(f, a, r, p, d))
		if i == 0 {
			assert.Equal(t, 1, buffer.Len())
		} else {
			assert.Equal(t, 2, buffer.Len())
		}
	}

	batch, err := buffer.Sample()
	require.NoError(t, err)

	rewards := batch.Rewards.Data().([]float64)
	// Environment 0 drew slot 0 (third segment), environment 1 drew
	// slot 1 (second segment)
	assert.Equal(t, []float64{300, 301, 302, 203, 204, 205}, rewards)
}

func TestSampleEmpty(t *testing.T) {
	buffer, err := testConfig().Create()
	require.NoError(t, err)

	_, err = buffer.Sample()
	require.Error(t, err)
	assert.True(t, IsEmptyBuffer(err))
}

func TestAddRejectsWrongShapes(t *testing.T) {
	c := testConfig()
	buffer, err := c.Create()
	require.NoError(t, err)

	frames := [][]float64{
		{1, 2, 3, 4, 5},
		{10, 20, 30, 40, 50},
	}
	dones := [][]float64{
		{0, 0, 0},
		{0, 0, 0},
	}
	f, a, r, p, d := newSegment(c, frames, dones, 0)

	// Frames with a truncated window
	badFrames := tensor.New(
		tensor.WithShape(c.NumEnvs, c.NumSteps+c.StackSize-1,
			c.FrameChannels, c.FrameSize),
		tensor.WithBacking(make([]float64, c.NumEnvs*(c.NumSteps+
			c.StackSize-1))),
	)
	assert.Error(t, buffer.Add(badFrames, a, r, p, d))

	// Rewards with the wrong element type
	badRewards := tensor.New(
		tensor.WithShape(c.NumEnvs, c.NumSteps),
		tensor.WithBacking(make([]float32, c.NumEnvs*c.NumSteps)),
	)
	assert.Error(t, buffer.Add(f, a, badRewards, p, d))

	// Failed adds must not advance the shared cursor
	assert.Equal(t, 0, buffer.Len())
	assert.Equal(t, 0, buffer.nextIdx)
}
