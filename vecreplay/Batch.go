package vecreplay

import "gorgonia.org/tensor"

// Batch packages together one sampled n-step segment per environment.
// Observations are frame-stacked windows of NumSteps+1 steps; the
// remaining fields cover the NumSteps steps of each segment.
// Conversion to a compute-device representation is left to the
// training code consuming the batch.
type Batch struct {
	Obs     *tensor.Dense // Shape (envs, steps+1, stack*channels, frameSize)
	Actions *tensor.Dense // Shape (envs, steps)
	Rewards *tensor.Dense // Shape (envs, steps)
	Probs   *tensor.Dense // Shape (envs, steps, actions)
	Dones   *tensor.Dense // Shape (envs, steps), 1.0 at episode ends
}

// newBatch wraps gathered segment columns in tensors. The slices
// become the tensors' backing storage and must not be reused.
func newBatch(obs, actions, rewards, probs, dones []float64,
	numEnvs, numSteps, stackSize, frameChannels, frameSize,
	numActions int) *Batch {
	return &Batch{
		Obs: tensor.New(
			tensor.WithShape(numEnvs, numSteps+1, stackSize*frameChannels,
				frameSize),
			tensor.WithBacking(obs),
		),
		Actions: tensor.New(
			tensor.WithShape(numEnvs, numSteps),
			tensor.WithBacking(actions),
		),
		Rewards: tensor.New(
			tensor.WithShape(numEnvs, numSteps),
			tensor.WithBacking(rewards),
		),
		Probs: tensor.New(
			tensor.WithShape(numEnvs, numSteps, numActions),
			tensor.WithBacking(probs),
		),
		Dones: tensor.New(
			tensor.WithShape(numEnvs, numSteps),
			tensor.WithBacking(dones),
		),
	}
}
