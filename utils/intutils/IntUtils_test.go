package intutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMax(t *testing.T) {
	assert.Equal(t, 1, Min(3, 1, 2))
	assert.Equal(t, -5, Min(-5))
	assert.Equal(t, 3, Max(3, 1, 2))
	assert.Equal(t, -5, Max(-5))
}

func TestIsPowOf2(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 1024} {
		assert.True(t, IsPowOf2(n), "n = %v", n)
	}
	for _, n := range []int{0, -1, -2, 3, 6, 12, 1000} {
		assert.False(t, IsPowOf2(n), "n = %v", n)
	}
}

func TestNextPowOf2(t *testing.T) {
	expected := map[int]int{
		1:    1,
		2:    2,
		3:    4,
		4:    4,
		5:    8,
		100:  128,
		1024: 1024,
	}
	for n, want := range expected {
		assert.Equal(t, want, NextPowOf2(n), "n = %v", n)
	}
}
