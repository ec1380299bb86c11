package timestep

import "gonum.org/v1/gonum/mat"

// Transition packages together a single transition of the
// agent-environment interaction: the observation the agent saw, the
// action it took, the reward it received, the observation that
// followed, and whether the episode terminated on that step.
//
// Replay buffers copy the contents of a Transition when storing it,
// so the vectors backing a Transition may be reused by the caller
// after the Transition is added to a buffer.
type Transition struct {
	Observation     *mat.VecDense
	Action          *mat.VecDense
	Reward          float64
	NextObservation *mat.VecDense
	Done            bool
}

// NewTransition creates and returns a new Transition
func NewTransition(obs, action *mat.VecDense, reward float64,
	nextObs *mat.VecDense, done bool) Transition {
	return Transition{
		Observation:     obs,
		Action:          action,
		Reward:          reward,
		NextObservation: nextObs,
		Done:            done,
	}
}

// FromSteps creates and returns the Transition between two successive
// TimeSteps, given the action selected on the first of the two. The
// transition is terminal if the second TimeStep ends its episode.
func FromSteps(step TimeStep, action *mat.VecDense,
	nextStep TimeStep) Transition {
	return Transition{
		Observation:     mat.VecDenseCopyOf(step.Observation),
		Action:          action,
		Reward:          nextStep.Reward,
		NextObservation: mat.VecDenseCopyOf(nextStep.Observation),
		Done:            nextStep.Last(),
	}
}
