package expreplay

import "golang.org/x/exp/rand"

// Sampler is the source of randomness a replay buffer draws from. It
// abstracts the two operations replay buffers need from a random
// number generator so that callers may substitute their own
// generator. A *rand.Rand from golang.org/x/exp/rand satisfies the
// interface.
type Sampler interface {
	// Float64 returns a uniform random real in [0.0, 1.0)
	Float64() float64

	// Intn returns a uniform random integer in [0, n). It panics if
	// n <= 0.
	Intn(n int) int
}

// NewSampler returns the default Sampler, backed by a generator
// seeded with seed
func NewSampler(seed uint64) Sampler {
	source := rand.NewSource(seed)
	return rand.New(source)
}
