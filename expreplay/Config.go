package expreplay

import "fmt"

// Config implements a specific configuration of a uniform replay
// Buffer. Capacity bounds the number of stored transitions, and
// ObsSize and ActionSize give the lengths of the observation and
// action vectors of the environment the buffer serves.
type Config struct {
	Capacity   int
	ObsSize    int
	ActionSize int
	Seed       uint64
}

// Validate returns an error describing why the Config cannot be
// created, or nil if the Config is valid
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ExpReplayError{Op: "validate", Err: errInvalidCapacity}
	}
	if c.ObsSize <= 0 {
		return fmt.Errorf("validate: observation size must be positive "+
			"\n\thave(%v)", c.ObsSize)
	}
	if c.ActionSize <= 0 {
		return fmt.Errorf("validate: action size must be positive "+
			"\n\thave(%v)", c.ActionSize)
	}
	return nil
}

// Create creates and returns the Buffer with the specified Config
func (c Config) Create() (*Buffer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return NewBuffer(c.Capacity, c.ObsSize, c.ActionSize,
		NewSampler(c.Seed))
}

// PrioritizedConfig implements a specific configuration of a
// Prioritized replay buffer. Alpha sets the prioritization sharpness
// (0 uniform, 1 fully proportional) and Beta the importance-sampling
// correction exponent.
type PrioritizedConfig struct {
	Config
	Alpha float64
	Beta  float64
}

// Validate returns an error describing why the PrioritizedConfig
// cannot be created, or nil if the PrioritizedConfig is valid
func (c PrioritizedConfig) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.Alpha < 0 {
		return fmt.Errorf("validate: alpha must be non-negative "+
			"\n\thave(%v)", c.Alpha)
	}
	return nil
}

// Create creates and returns the Prioritized replay buffer with the
// specified PrioritizedConfig
func (c PrioritizedConfig) Create() (*Prioritized, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return NewPrioritized(c.Capacity, c.ObsSize, c.ActionSize, c.Alpha,
		c.Beta, NewSampler(c.Seed))
}
