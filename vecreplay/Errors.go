package vecreplay

import "errors"

// VecReplayError implements errors unique to a multi-environment
// replay buffer.
type VecReplayError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *VecReplayError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

var errEmptyBuffer = errors.New("buffer empty")

var errInvalidCapacity = errors.New("capacity must hold at least one segment")

// IsEmptyBuffer returns whether or not an error reports that a
// replay buffer is empty.
func IsEmptyBuffer(err error) bool {
	if replayErr, ok := err.(*VecReplayError); ok {
		err = replayErr.Err
	}
	return err == errEmptyBuffer
}

// IsInvalidCapacity returns whether or not an error reports that a
// buffer was configured with too small a capacity for even a single
// n-step segment.
func IsInvalidCapacity(err error) bool {
	if replayErr, ok := err.(*VecReplayError); ok {
		err = replayErr.Err
	}
	return err == errInvalidCapacity
}
