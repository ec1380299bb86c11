package expreplay

import "gorgonia.org/tensor"

// Batch packages together a batch of transitions sampled from a
// replay buffer. Each field stacks one transition column with a
// leading batch dimension. Conversion to a compute-device
// representation is left to the training code consuming the batch.
type Batch struct {
	Obs     *tensor.Dense // Shape (batch, obsSize)
	Actions *tensor.Dense // Shape (batch, actionSize)
	Rewards *tensor.Dense // Shape (batch)
	NextObs *tensor.Dense // Shape (batch, obsSize)
	Dones   *tensor.Dense // Shape (batch), 1.0 at episode ends
}

// Size returns the number of transitions in the batch
func (b *Batch) Size() int {
	return b.Rewards.Shape()[0]
}

// newBatch wraps stacked transition columns in tensors. The slices
// become the tensors' backing storage and must not be reused.
func newBatch(obs, actions, rewards, nextObs, dones []float64,
	batchSize, obsSize, actionSize int) *Batch {
	return &Batch{
		Obs: tensor.New(
			tensor.WithShape(batchSize, obsSize),
			tensor.WithBacking(obs),
		),
		Actions: tensor.New(
			tensor.WithShape(batchSize, actionSize),
			tensor.WithBacking(actions),
		),
		Rewards: tensor.New(
			tensor.WithShape(batchSize),
			tensor.WithBacking(rewards),
		),
		NextObs: tensor.New(
			tensor.WithShape(batchSize, obsSize),
			tensor.WithBacking(nextObs),
		),
		Dones: tensor.New(
			tensor.WithShape(batchSize),
			tensor.WithBacking(dones),
		),
	}
}
