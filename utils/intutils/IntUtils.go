// Package intutils provides utilities for working with ints
package intutils

// Min calculates and returns the minimum integer in a list
func Min(ints ...int) int {
	min := ints[0]
	for _, val := range ints {
		if val < min {
			min = val
		}
	}
	return min
}

// Max calculates and returns the maximum integer in a list
func Max(ints ...int) int {
	max := ints[0]
	for _, val := range ints {
		if val > max {
			max = val
		}
	}
	return max
}

// IsPowOf2 returns whether n is a positive power of two
func IsPowOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowOf2 returns the smallest power of two that is greater than
// or equal to n
func NextPowOf2(n int) int {
	pow := 1
	for pow < n {
		pow *= 2
	}
	return pow
}
