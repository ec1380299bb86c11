package expreplay

import "errors"

// ExpReplayError implements errors unique to an experience replay
// buffer.
type ExpReplayError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *ExpReplayError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

var errEmptyBuffer = errors.New("buffer empty")

var errInvalidCapacity = errors.New("capacity must be positive")

var errInvalidBatchSize = errors.New("batch size must be positive")

var errLengthMismatch = errors.New("indices and priorities differ in length")

var errInvalidPriority = errors.New("priority must be positive")

var errIndexOutOfRange = errors.New("index out of range")

// IsEmptyBuffer returns whether or not an error reports that a
// replay buffer is empty.
func IsEmptyBuffer(err error) bool {
	if replayErr, ok := err.(*ExpReplayError); ok {
		err = replayErr.Err
	}
	return err == errEmptyBuffer
}

// IsInvalidCapacity returns whether or not an error reports that a
// replay buffer was constructed with a non-positive capacity.
func IsInvalidCapacity(err error) bool {
	if replayErr, ok := err.(*ExpReplayError); ok {
		err = replayErr.Err
	}
	return err == errInvalidCapacity
}

// IsInvalidBatchSize returns whether or not an error reports that a
// non-positive batch size was requested from a replay buffer.
func IsInvalidBatchSize(err error) bool {
	if replayErr, ok := err.(*ExpReplayError); ok {
		err = replayErr.Err
	}
	return err == errInvalidBatchSize
}

// IsLengthMismatch returns whether or not an error reports that the
// indices and priorities given to a priority update had different
// lengths.
func IsLengthMismatch(err error) bool {
	if replayErr, ok := err.(*ExpReplayError); ok {
		err = replayErr.Err
	}
	return err == errLengthMismatch
}

// IsInvalidPriority returns whether or not an error reports that a
// non-positive priority was given to a priority update. A slot with
// zero priority mass could never be sampled again, so such priorities
// are rejected rather than clamped.
func IsInvalidPriority(err error) bool {
	if replayErr, ok := err.(*ExpReplayError); ok {
		err = replayErr.Err
	}
	return err == errInvalidPriority
}

// IsIndexOutOfRange returns whether or not an error reports that an
// index argument was outside the populated region of a replay buffer.
func IsIndexOutOfRange(err error) bool {
	if replayErr, ok := err.(*ExpReplayError); ok {
		err = replayErr.Err
	}
	return err == errIndexOutOfRange
}
