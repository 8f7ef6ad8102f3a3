package flow

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/provflow/pkg/flow/perm"
)

// pairwiseCrossings is the textbook O(n²) definition used as an oracle.
func pairwiseCrossings(previous, current Partition, order []int) int {
	prev := previous.Index()
	type pos struct{ prev, curr int }
	var table []pos
	for i, g := range current {
		for _, id := range g {
			if p, ok := prev[id]; ok {
				table = append(table, pos{p, order[i]})
			}
		}
	}
	n := 0
	for a := 0; a < len(table); a++ {
		for b := a + 1; b < len(table); b++ {
			if (table[b].prev-table[a].prev)*(table[b].curr-table[a].curr) < 0 {
				n++
			}
		}
	}
	return n
}

// randomStep spreads entities over k groups; drop removes some entities.
func randomStep(r *rand.Rand, entities []string, k int, drop float64) Partition {
	p := make(Partition, k)
	for _, id := range entities {
		if r.Float64() < drop {
			continue
		}
		g := r.IntN(k)
		p[g] = append(p[g], id)
	}
	return p
}

func entityNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("e%02d", i)
	}
	return out
}

func TestMinimizeScenario(t *testing.T) {
	previous := Partition{{"A", "B"}, {"C", "D"}}
	current := Partition{{"B", "C"}, {"A", "D"}}

	// Identity flips (A,C); the swap flips (B,D). Equal counts keep the
	// first order visited.
	if got := CountCrossings(previous, current, []int{0, 1}); got != 1 {
		t.Fatalf("identity crossings = %d, want 1", got)
	}
	if got := CountCrossings(previous, current, []int{1, 0}); got != 1 {
		t.Fatalf("swapped crossings = %d, want 1", got)
	}

	res := Minimize(previous, current)
	want := Result{
		Partition: Partition{{"B", "C"}, {"A", "D"}},
		Order:     []int{0, 1},
		Crossings: 1,
		Baseline:  1,
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("Minimize mismatch (-want +got):\n%s", diff)
	}
}

func TestMinimizeSwapsReversedBands(t *testing.T) {
	previous := Partition{{"A", "B"}, {"C", "D"}}
	current := Partition{{"C", "D"}, {"A", "B"}}

	res := Minimize(previous, current)
	want := Result{
		Partition: Partition{{"A", "B"}, {"C", "D"}},
		Order:     []int{1, 0},
		Crossings: 0,
		Baseline:  4,
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("Minimize mismatch (-want +got):\n%s", diff)
	}
}

func TestMinimizeDeterministic(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	ids := entityNames(20)
	previous := randomStep(r, ids, 4, 0)
	current := randomStep(r, ids, 5, 0.1)

	first := Minimize(previous, current)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, Minimize(previous, current)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestMinimizePreservesMembership(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	ids := entityNames(25)
	for trial := 0; trial < 20; trial++ {
		previous := randomStep(r, ids, 3+r.IntN(3), 0.2)
		current := randomStep(r, ids, 2+r.IntN(4), 0.2)

		res := Minimize(previous, current)

		got := res.Partition.Entities()
		want := current.Entities()
		sort.Strings(got)
		sort.Strings(want)
		if !slices.Equal(got, want) {
			t.Fatalf("trial %d: entities changed: got %v, want %v", trial, got, want)
		}
		for i, g := range current {
			if !slices.Equal(res.Partition[res.Order[i]], g) {
				t.Fatalf("trial %d: group %d not moved intact to label %d", trial, i, res.Order[i])
			}
		}
	}
}

func TestMinimizeIsOptimal(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	ids := entityNames(14)
	for trial := 0; trial < 30; trial++ {
		previous := randomStep(r, ids, 2+r.IntN(4), 0.15)
		current := randomStep(r, ids, 1+r.IntN(5), 0.15)

		res := Minimize(previous, current)
		if got := pairwiseCrossings(previous, current, res.Order); got != res.Crossings {
			t.Fatalf("trial %d: reported %d crossings, oracle counts %d", trial, res.Crossings, got)
		}
		for _, p := range allOrders(len(current), 0) {
			if n := pairwiseCrossings(previous, current, p); n < res.Crossings {
				t.Fatalf("trial %d: order %v has %d crossings, better than reported %d",
					trial, p, n, res.Crossings)
			}
		}
	}
}

func TestMinimizeTieBreaksOnFirstLexOrder(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	ids := entityNames(12)
	for trial := 0; trial < 30; trial++ {
		previous := randomStep(r, ids, 3, 0.2)
		current := randomStep(r, ids, 4, 0.2)

		res := Minimize(previous, current)
		var first []int
		perm.Lex(len(current), func(p []int) bool {
			if pairwiseCrossings(previous, current, p) == res.Crossings {
				first = slices.Clone(p)
				return false
			}
			return true
		})
		if !slices.Equal(first, res.Order) {
			t.Fatalf("trial %d: chose %v, first optimal order is %v", trial, res.Order, first)
		}
	}
}

func TestMinimizeNoCrossingStability(t *testing.T) {
	previous := Partition{{"a", "b"}, {"c"}, {"d", "e"}}
	current := Partition{{"a"}, {"b", "c"}, {"d"}, {"e", "x"}}

	if CountCrossings(previous, current, nil) != 0 {
		t.Fatal("fixture should have zero identity crossings")
	}
	res := Minimize(previous, current)
	if res.Crossings != 0 {
		t.Errorf("Crossings = %d, want 0", res.Crossings)
	}
	if !slices.Equal(res.Order, []int{0, 1, 2, 3}) {
		t.Errorf("Order = %v, want identity", res.Order)
	}
}

func TestMinimizeDisjointEntities(t *testing.T) {
	previous := Partition{{"a", "b"}, {"c"}}
	current := Partition{{"x"}, {"y", "z"}, {"w"}}

	res := Minimize(previous, current)
	if res.Crossings != 0 || res.Baseline != 0 {
		t.Errorf("disjoint steps: Crossings = %d, Baseline = %d, want 0", res.Crossings, res.Baseline)
	}
	for _, p := range allOrders(len(current), 0) {
		if n := CountCrossings(previous, current, p); n != 0 {
			t.Errorf("order %v counted %d crossings, want 0", p, n)
		}
	}
}

func TestMinimizeSingleGroup(t *testing.T) {
	previous := Partition{{"b"}, {"a"}}
	current := Partition{{"a", "b", "c"}}

	res := Minimize(previous, current)
	if diff := cmp.Diff(current, res.Partition); diff != "" {
		t.Errorf("single group changed (-want +got):\n%s", diff)
	}
	if res.Crossings != 0 {
		t.Errorf("Crossings = %d, want 0", res.Crossings)
	}
}

func TestMinimizeEmpty(t *testing.T) {
	res := Minimize(Partition{{"a"}}, Partition{})
	if len(res.Partition) != 0 || res.Crossings != 0 || len(res.Order) != 0 {
		t.Errorf("Minimize(empty) = %+v, want empty result", res)
	}
}

func TestMinimizeDoesNotMutateInputs(t *testing.T) {
	previous := Partition{{"A", "B"}, {"C", "D"}}
	current := Partition{{"B", "C"}, {"A", "D"}}
	prevCopy, currCopy := previous.Clone(), current.Clone()

	res := Minimize(previous, current)
	res.Partition[0][0] = "mutated"

	if diff := cmp.Diff(prevCopy, previous); diff != "" {
		t.Errorf("previous mutated:\n%s", diff)
	}
	if diff := cmp.Diff(currCopy, current); diff != "" {
		t.Errorf("current mutated:\n%s", diff)
	}
}

func TestCountCrossingsMatchesPairwise(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 10))
	ids := entityNames(40)
	for trial := 0; trial < 50; trial++ {
		previous := randomStep(r, ids, 1+r.IntN(6), 0.25)
		current := randomStep(r, ids, 1+r.IntN(6), 0.25)
		for _, p := range allOrders(len(current), 10) {
			want := pairwiseCrossings(previous, current, p)
			if got := CountCrossings(previous, current, p); got != want {
				t.Fatalf("trial %d order %v: CountCrossings = %d, pairwise = %d", trial, p, got, want)
			}
			if got := newCostMatrix(previous, current).eval(p); got != want {
				t.Fatalf("trial %d order %v: cost matrix = %d, pairwise = %d", trial, p, got, want)
			}
		}
	}
}

func TestBarycentric(t *testing.T) {
	previous := Partition{{"A", "B"}, {"C", "D"}}
	current := Partition{{"C", "D"}, {"new"}, {"A", "B"}}

	res := Barycentric{}.Order(previous, current)
	want := Partition{{"A", "B"}, {"C", "D"}, {"new"}}
	if diff := cmp.Diff(want, res.Partition); diff != "" {
		t.Errorf("Barycentric partition (-want +got):\n%s", diff)
	}
	if res.Crossings != 0 {
		t.Errorf("Crossings = %d, want 0", res.Crossings)
	}
	if res.Baseline != 4 {
		t.Errorf("Baseline = %d, want 4", res.Baseline)
	}
}

func TestAutoSwitchesAtLimit(t *testing.T) {
	previous := Partition{{"a"}, {"b"}, {"c"}}
	current := Partition{{"c"}, {"b"}, {"a"}}

	small := Auto{Limit: 3}.Order(previous, current)
	if diff := cmp.Diff(Minimize(previous, current), small); diff != "" {
		t.Errorf("Auto within limit should match Minimize:\n%s", diff)
	}
	large := Auto{Limit: 2}.Order(previous, current)
	if diff := cmp.Diff(Barycentric{}.Order(previous, current), large); diff != "" {
		t.Errorf("Auto above limit should match Barycentric:\n%s", diff)
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Orderer
		wantErr bool
	}{
		{"", Exhaustive{}, false},
		{"exhaustive", Exhaustive{}, false},
		{"Barycentric", Barycentric{}, false},
		{"auto", Auto{Limit: 5}, false},
		{"optimal", nil, true},
	}

	for _, tt := range tests {
		got, err := ByName(tt.name, 5)
		if (err != nil) != tt.wantErr {
			t.Errorf("ByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ByName(%q) = %#v, want %#v", tt.name, got, tt.want)
		}
	}
}

func TestThread(t *testing.T) {
	names := NamerFunc(func(id string) string {
		return map[string]string{"1": "Beijing", "2": "Anhui", "3": "Chongqing", "4": "Fujian"}[id]
	})
	steps := []Partition{
		{{"1", "2"}, {"3", "4"}},
		{{"1", "3"}, {"2", "4"}},
		{{"2", "4"}, {"1", "3"}},
	}

	results := Thread(steps, names, nil)
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	// First step: sorted by display name, label order kept.
	if diff := cmp.Diff(Partition{{"2", "1"}, {"3", "4"}}, results[0].Partition); diff != "" {
		t.Errorf("first step (-want +got):\n%s", diff)
	}
	for i := 1; i < len(results); i++ {
		want := Minimize(results[i-1].Partition, Normalize(steps[i], names))
		if diff := cmp.Diff(want, results[i]); diff != "" {
			t.Errorf("step %d not threaded from its predecessor (-want +got):\n%s", i, diff)
		}
	}
	// The last step repeats the second with swapped labels and must be
	// relabeled back onto it.
	if diff := cmp.Diff(results[1].Partition, results[2].Partition); diff != "" {
		t.Errorf("relabeled repeat step (-want +got):\n%s", diff)
	}
}

func TestNormalize(t *testing.T) {
	names := NamerFunc(func(id string) string {
		return map[string]string{"a": "Zhejiang", "b": "Anhui", "c": "Anhui"}[id]
	})
	in := Partition{{"a", "c", "b"}, {}}

	got := Normalize(in, names)
	if diff := cmp.Diff(Partition{{"b", "c", "a"}, {}}, got); diff != "" {
		t.Errorf("Normalize (-want +got):\n%s", diff)
	}
	if in[0][0] != "a" {
		t.Error("Normalize must not modify its input")
	}
}

func TestNormalizePinyinOrder(t *testing.T) {
	names := NamerFunc(func(id string) string {
		return map[string]string{"11": "北京", "33": "浙江", "34": "安徽", "44": "广东"}[id]
	})
	got := Normalize(Partition{{"11", "33", "34", "44"}}, names)
	// An'hui, Beijing, Guangdong, Zhejiang; byte order would put 北京 first.
	if diff := cmp.Diff(Partition{{"34", "11", "44", "33"}}, got); diff != "" {
		t.Errorf("Normalize (-want +got):\n%s", diff)
	}
}
