// Package perm provides permutation enumeration for category relabeling.
//
// # Overview
//
// Reordering the category bands of one time step means choosing a bijection
// from the step's k groups onto the labels 0..k-1. The number of candidates
// grows factorially, which is fine for the handful of clusters a flow
// diagram shows but explodes beyond a dozen.
//
//   - [Lex]: visits every permutation in lexicographic order through one
//     reused buffer. This is the enumeration order the minimizer relies on
//     for tie breaking.
//   - [NextLex]: the in-place step underlying [Lex].
//   - [Factorial] and [Seq]: small helpers for sizing and initialization.
//
// # Usage
//
//	perm.Lex(3, func(p []int) bool {
//	    fmt.Println(p) // [0 1 2], [0 2 1], [1 0 2], ...
//	    return true
//	})
//
// The slice passed to the callback is reused between calls; clone it to keep it.
package perm
