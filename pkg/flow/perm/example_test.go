package perm_test

import (
	"fmt"

	"github.com/matzehuels/provflow/pkg/flow/perm"
)

// Exhaustive ordering visits candidate labelings in this order and keeps
// the first one with the fewest crossings.
func ExampleLex() {
	perm.Lex(3, func(p []int) bool {
		fmt.Println(p)
		return true
	})
	// Output:
	// [0 1 2]
	// [0 2 1]
	// [1 0 2]
	// [1 2 0]
	// [2 0 1]
	// [2 1 0]
}

func ExampleLex_stop() {
	// Stop as soon as group 0 would be labeled 1.
	n := 0
	perm.Lex(4, func(p []int) bool {
		if p[0] == 1 {
			return false
		}
		n++
		return true
	})
	fmt.Println(n, "labelings keep group 0 first")
	// Output:
	// 6 labelings keep group 0 first
}

func ExampleFactorial() {
	for _, k := range []int{4, 9, 10} {
		fmt.Printf("%d categories: %d labelings\n", k, perm.Factorial(k))
	}
	// Output:
	// 4 categories: 24 labelings
	// 9 categories: 362880 labelings
	// 10 categories: 3628800 labelings
}
