package segtree

import "errors"

// TreeError implements errors unique to a segment tree.
type TreeError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *TreeError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

var errInvalidCapacity = errors.New("capacity must be a positive power of 2")

var errIndexOutOfRange = errors.New("index out of range")

var errOutOfRange = errors.New("target outside cumulative sum range")

// IsInvalidCapacity returns whether or not an error reports that a
// tree was constructed with a capacity that is not a positive power
// of two.
func IsInvalidCapacity(err error) bool {
	if treeErr, ok := err.(*TreeError); ok {
		err = treeErr.Err
	}
	return err == errInvalidCapacity
}

// IsIndexOutOfRange returns whether or not an error reports that an
// index argument was outside the tree's leaves.
func IsIndexOutOfRange(err error) bool {
	if treeErr, ok := err.(*TreeError); ok {
		err = treeErr.Err
	}
	return err == errIndexOutOfRange
}

// IsOutOfRange returns whether or not an error reports that a
// prefix-sum target was outside the total mass of a SumTree.
func IsOutOfRange(err error) bool {
	if treeErr, ok := err.(*TreeError); ok {
		err = treeErr.Err
	}
	return err == errOutOfRange
}
