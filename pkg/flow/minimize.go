package flow

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/provflow/pkg/errors"
	"github.com/matzehuels/provflow/pkg/flow/perm"
)

// Result is the outcome of ordering one time step.
type Result struct {
	// Partition is the relabeled current partition: Partition[Order[i]] holds
	// the members of the input's group i.
	Partition Partition `json:"partition"`

	// Order maps each input group index to its new label.
	Order []int `json:"order"`

	// Crossings is the crossing count achieved by Order.
	Crossings int `json:"crossings"`

	// Baseline is the crossing count of the input labeling (identity order).
	Baseline int `json:"baseline"`
}

// Orderer chooses a labeling for the current step given the previous one.
type Orderer interface {
	Order(previous, current Partition) Result
}

// Orderer names accepted by [ByName].
const (
	OrderingExhaustive  = "exhaustive"
	OrderingBarycentric = "barycentric"
	OrderingAuto        = "auto"
)

// DefaultExhaustiveLimit is the largest category count [Auto] searches
// exhaustively. 9! is about 360k candidates.
const DefaultExhaustiveLimit = 9

// Minimize returns current relabeled so that the number of crossings against
// previous is minimal over all len(current)! label permutations.
//
// Permutations are visited in lexicographic order and the incumbent is only
// replaced on a strict improvement, so among equally good orders the first
// one wins and the result is deterministic. Runtime is O(k!·k²) for k groups;
// the caller is responsible for keeping k small.
func Minimize(previous, current Partition) Result {
	return Exhaustive{}.Order(previous, current)
}

// Exhaustive is the brute-force [Orderer] behind [Minimize].
type Exhaustive struct{}

// Order implements [Orderer].
func (Exhaustive) Order(previous, current Partition) Result {
	k := len(current)
	if k <= 1 {
		return Result{
			Partition: current.Clone(),
			Order:     perm.Seq(k),
		}
	}

	cost := newCostMatrix(previous, current)
	var best []int
	bestCount := 0
	perm.Lex(k, func(p []int) bool {
		n := cost.eval(p)
		if best == nil || n < bestCount {
			best = slices.Clone(p)
			bestCount = n
		}
		// Nothing beats zero.
		return bestCount > 0
	})

	return Result{
		Partition: Relabel(current, best),
		Order:     best,
		Crossings: bestCount,
		Baseline:  cost.eval(perm.Seq(k)),
	}
}

// Barycentric orders the current groups by the mean previous-step label of
// the entities they share with the previous step. Groups sharing nothing go
// last. Ties keep the input order. The result is not guaranteed optimal.
type Barycentric struct{}

// Order implements [Orderer].
func (Barycentric) Order(previous, current Partition) Result {
	k := len(current)
	prevIdx := previous.Index()

	type center struct {
		group  int
		mean   float64
		shared bool
	}
	centers := make([]center, k)
	for i, g := range current {
		sum, n := 0, 0
		for _, id := range g {
			if p, ok := prevIdx[id]; ok {
				sum += p
				n++
			}
		}
		centers[i] = center{group: i}
		if n > 0 {
			centers[i].mean = float64(sum) / float64(n)
			centers[i].shared = true
		}
	}
	slices.SortStableFunc(centers, func(a, b center) int {
		if a.shared != b.shared {
			if a.shared {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.mean, b.mean)
	})

	order := make([]int, k)
	for label, c := range centers {
		order[c.group] = label
	}

	cost := newCostMatrix(previous, current)
	return Result{
		Partition: Relabel(current, order),
		Order:     order,
		Crossings: cost.eval(order),
		Baseline:  cost.eval(perm.Seq(k)),
	}
}

// Auto searches exhaustively while the current step has at most Limit
// groups and falls back to [Barycentric] above it. A zero Limit means
// [DefaultExhaustiveLimit].
type Auto struct {
	Limit int
}

// Order implements [Orderer].
func (a Auto) Order(previous, current Partition) Result {
	limit := a.Limit
	if limit <= 0 {
		limit = DefaultExhaustiveLimit
	}
	if len(current) > limit {
		return Barycentric{}.Order(previous, current)
	}
	return Exhaustive{}.Order(previous, current)
}

// ByName returns the orderer registered under name. An empty name selects
// exhaustive search. limit is only used by "auto".
func ByName(name string, limit int) (Orderer, error) {
	switch strings.ToLower(name) {
	case "", OrderingExhaustive:
		return Exhaustive{}, nil
	case OrderingBarycentric:
		return Barycentric{}, nil
	case OrderingAuto:
		return Auto{Limit: limit}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidOrdering, "unknown ordering %q (must be one of: exhaustive, barycentric, auto)", name)
	}
}

// Thread orders a whole timeline. The first step is normalized and kept in
// its natural label order; each later step is normalized and then ordered by
// o against the previous step's result. A nil o means [Exhaustive].
func Thread(steps []Partition, names Namer, o Orderer) []Result {
	if o == nil {
		o = Exhaustive{}
	}
	results := make([]Result, len(steps))
	var prev Partition
	for t, step := range steps {
		current := Normalize(step, names)
		if t == 0 {
			results[t] = Result{Partition: current, Order: perm.Seq(len(current))}
		} else {
			results[t] = o.Order(prev, current)
		}
		prev = results[t].Partition
	}
	return results
}
