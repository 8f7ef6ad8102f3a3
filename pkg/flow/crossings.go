package flow

import (
	"slices"

	"github.com/matzehuels/provflow/pkg/flow/perm"
)

// CountCrossings returns the number of entity pairs whose relative order
// flips between previous and current when current's group i is placed at
// label order[i]. A nil order means the identity.
//
// Only entities present in both partitions take part. A pair counts when
//
//	(prev(B) - prev(A)) * (curr(B) - curr(A)) < 0
//
// so pairs that share a group in either step never cross.
//
// Instead of comparing all n² pairs, the shared entities are sorted by their
// previous index and the crossings are counted as strict inversions of the
// current index with a Fenwick tree, in O(n log k).
func CountCrossings(previous, current Partition, order []int) int {
	if order == nil {
		order = perm.Seq(len(current))
	}
	prevIdx := previous.Index()

	type pos struct{ prev, curr int }
	shared := make([]pos, 0, len(prevIdx))
	for i, g := range current {
		for _, id := range g {
			if p, ok := prevIdx[id]; ok {
				shared = append(shared, pos{p, order[i]})
			}
		}
	}
	if len(shared) < 2 {
		return 0
	}

	slices.SortFunc(shared, func(a, b pos) int { return a.prev - b.prev })

	ft := newFenwick(len(current))
	crossings, total := 0, 0
	for start := 0; start < len(shared); {
		end := start
		for end < len(shared) && shared[end].prev == shared[start].prev {
			end++
		}
		// Query the whole run before inserting it: equal previous indices
		// must not be compared against each other.
		for _, s := range shared[start:end] {
			crossings += total - ft.prefix(s.curr)
		}
		for _, s := range shared[start:end] {
			ft.add(s.curr)
			total++
		}
		start = end
	}
	return crossings
}

// fenwick is a binary indexed tree over positions 0..n-1.
type fenwick []int

func newFenwick(n int) fenwick { return make(fenwick, n+1) }

// add increments the count at position i.
func (f fenwick) add(i int) {
	for idx := i + 1; idx < len(f); idx += idx & (-idx) {
		f[idx]++
	}
}

// prefix returns the number of inserted positions <= i.
func (f fenwick) prefix(i int) int {
	sum := 0
	for q := i + 1; q > 0; q -= q & (-q) {
		sum += f[q]
	}
	return sum
}

// costMatrix holds, for every ordered pair of current groups (i, j), the
// number of crossings incurred when group i is placed above group j:
// cost[i][j] counts pairs (a in i, b in j) of shared entities with
// prev(a) > prev(b).
//
// The total for an order is the sum of cost[i][j] over all i, j with
// order[i] < order[j], which reduces each candidate evaluation to O(k²)
// regardless of the number of entities.
type costMatrix [][]int

func newCostMatrix(previous, current Partition) costMatrix {
	k := len(current)
	prevIdx := previous.Index()
	width := len(previous)

	// below[i][p] = number of shared entities in current group i whose
	// previous index is strictly less than p.
	below := make([][]int, k)
	hist := make([][]int, k)
	for i, g := range current {
		hist[i] = make([]int, width)
		for _, id := range g {
			if p, ok := prevIdx[id]; ok {
				hist[i][p]++
			}
		}
		below[i] = make([]int, width+1)
		for p := 0; p < width; p++ {
			below[i][p+1] = below[i][p] + hist[i][p]
		}
	}

	cost := make(costMatrix, k)
	for i := range cost {
		cost[i] = make([]int, k)
		for j := range cost[i] {
			if i == j {
				continue
			}
			for p, n := range hist[i] {
				if n > 0 {
					cost[i][j] += n * below[j][p]
				}
			}
		}
	}
	return cost
}

// eval returns the crossing count of order.
func (c costMatrix) eval(order []int) int {
	total := 0
	for i := range c {
		for j := range c {
			if order[i] < order[j] {
				total += c[i][j]
			}
		}
	}
	return total
}
