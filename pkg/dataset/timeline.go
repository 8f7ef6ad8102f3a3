package dataset

import (
	"maps"
	"slices"

	"github.com/matzehuels/provflow/pkg/flow"
)

// Step is the category assignment of one year.
type Step struct {
	Year   int            `json:"year"`
	Labels map[string]int `json:"labels"`
}

// Partition groups the step's entities by label. Groups follow ascending
// label value; labels nobody carries produce no group. Each group is sorted
// by display name.
func (s Step) Partition(names flow.Namer) flow.Partition {
	byLabel := make(map[int][]string)
	for id, label := range s.Labels {
		byLabel[label] = append(byLabel[label], id)
	}
	p := make(flow.Partition, 0, len(byLabel))
	for _, label := range slices.Sorted(maps.Keys(byLabel)) {
		p = append(p, byLabel[label])
	}
	return flow.Normalize(p, names)
}

// Timeline is a chronologically ordered list of steps.
type Timeline struct {
	Steps []Step `json:"steps"`
}

// Years returns the year of every step.
func (t Timeline) Years() []int {
	out := make([]int, len(t.Steps))
	for i, s := range t.Steps {
		out[i] = s.Year
	}
	return out
}

// Partitions converts every step with [Step.Partition].
func (t Timeline) Partitions(names flow.Namer) []flow.Partition {
	out := make([]flow.Partition, len(t.Steps))
	for i, s := range t.Steps {
		out[i] = s.Partition(names)
	}
	return out
}

// Entities returns the sorted union of entity IDs over all steps.
func (t Timeline) Entities() []string {
	seen := make(map[string]struct{})
	for _, s := range t.Steps {
		for id := range s.Labels {
			seen[id] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// MaxGroups returns the largest number of distinct labels in any step.
func (t Timeline) MaxGroups() int {
	best := 0
	for _, s := range t.Steps {
		labels := make(map[int]struct{})
		for _, l := range s.Labels {
			labels[l] = struct{}{}
		}
		best = max(best, len(labels))
	}
	return best
}
