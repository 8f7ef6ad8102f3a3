package perm

import "slices"

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1].
//
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	if n <= 0 {
		return []int{}
	}
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n! (n factorial), the product 1 × 2 × ... × n.
// For n <= 1, Factorial returns 1.
//
// Note that factorials grow extremely fast: 13! = 6,227,020,800 exceeds 32-bit int.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// NextLex rearranges p into the lexicographically next permutation and
// reports whether one existed. When p is already the last permutation
// (descending), NextLex leaves it unchanged and returns false.
func NextLex(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])
	return true
}

// Lex calls fn with every permutation of [0, 1, ..., n-1] in lexicographic
// order, starting from the identity. Iteration stops early when fn returns
// false. The slice handed to fn is reused; fn must not retain or modify it.
//
// For n <= 0, fn is called once with an empty slice.
func Lex(n int, fn func(p []int) bool) {
	p := Seq(n)
	for {
		if !fn(p) {
			return
		}
		if !NextLex(p) {
			return
		}
	}
}
