package perm

import (
	"fmt"
	"slices"
	"testing"
)

func TestSeq(t *testing.T) {
	if got := Seq(0); len(got) != 0 {
		t.Errorf("Seq(0) = %v, want empty", got)
	}
	if got := Seq(-3); len(got) != 0 {
		t.Errorf("Seq(-3) = %v, want empty", got)
	}
	if got, want := Seq(4), []int{0, 1, 2, 3}; !slices.Equal(got, want) {
		t.Errorf("Seq(4) = %v, want %v", got, want)
	}
}

func TestNextLex(t *testing.T) {
	tests := []struct {
		in   []int
		want []int
		ok   bool
	}{
		{[]int{0, 1, 2}, []int{0, 2, 1}, true},
		{[]int{0, 2, 1}, []int{1, 0, 2}, true},
		{[]int{1, 2, 0}, []int{2, 0, 1}, true},
		{[]int{2, 1, 0}, []int{2, 1, 0}, false},
		{[]int{0}, []int{0}, false},
		{[]int{}, []int{}, false},
	}

	for _, tt := range tests {
		p := slices.Clone(tt.in)
		ok := NextLex(p)
		if ok != tt.ok || !slices.Equal(p, tt.want) {
			t.Errorf("NextLex(%v) = %v, %v; want %v, %v", tt.in, p, ok, tt.want, tt.ok)
		}
	}
}

func TestLexVisitsEveryPermutationOnce(t *testing.T) {
	for n := 0; n <= 6; n++ {
		seen := make(map[string]bool)
		var prev []int
		Lex(n, func(p []int) bool {
			key := fmt.Sprint(p)
			if seen[key] {
				t.Fatalf("n=%d: permutation %v visited twice", n, p)
			}
			seen[key] = true
			if prev != nil && slices.Compare(prev, p) >= 0 {
				t.Fatalf("n=%d: %v does not follow %v lexicographically", n, p, prev)
			}
			prev = slices.Clone(p)
			return true
		})
		if len(seen) != Factorial(n) {
			t.Errorf("n=%d: visited %d permutations, want %d", n, len(seen), Factorial(n))
		}
	}
}

func TestLexStopsEarly(t *testing.T) {
	calls := 0
	Lex(5, func(p []int) bool {
		calls++
		return calls < 3
	})
	if calls != 3 {
		t.Errorf("Lex should stop after the callback returns false, got %d calls", calls)
	}
}

