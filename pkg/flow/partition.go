package flow

import (
	"cmp"
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Partition is an ordered sequence of groups of entity IDs. The position of a
// group is its category label. Groups are disjoint.
type Partition [][]string

// Namer resolves an entity ID to the display name used for deterministic
// ordering inside a group.
type Namer interface {
	Name(id string) string
}

// NamerFunc adapts a function to the [Namer] interface.
type NamerFunc func(id string) string

// Name calls f(id).
func (f NamerFunc) Name(id string) string { return f(id) }

// IDNamer uses the entity ID itself as its display name.
var IDNamer Namer = NamerFunc(func(id string) string { return id })

// Clone returns a deep copy of p.
func (p Partition) Clone() Partition {
	if p == nil {
		return nil
	}
	out := make(Partition, len(p))
	for i, g := range p {
		out[i] = slices.Clone(g)
	}
	return out
}

// Len returns the total number of entities across all groups.
func (p Partition) Len() int {
	n := 0
	for _, g := range p {
		n += len(g)
	}
	return n
}

// Index maps every entity to the index of its group.
func (p Partition) Index() map[string]int {
	idx := make(map[string]int, p.Len())
	for i, g := range p {
		for _, id := range g {
			idx[id] = i
		}
	}
	return idx
}

// Entities returns all entity IDs in group order.
func (p Partition) Entities() []string {
	out := make([]string, 0, p.Len())
	for _, g := range p {
		out = append(out, g...)
	}
	return out
}

// collators holds Chinese collators, which order Han names by pinyin the way
// the dashboard's localeCompare does. A Collator is not safe for concurrent
// use.
var collators = sync.Pool{
	New: func() any { return collate.New(language.Chinese) },
}

// Normalize returns a copy of p in which every group is sorted by display
// name under Chinese collation (ties broken by ID). Group order, and
// therefore labeling, is kept.
//
// This is the ordering used for the first step of a timeline, where no
// previous step exists to minimize against.
func Normalize(p Partition, names Namer) Partition {
	if names == nil {
		names = IDNamer
	}
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)

	out := p.Clone()
	for _, g := range out {
		slices.SortFunc(g, func(a, b string) int {
			return cmp.Or(c.CompareString(names.Name(a), names.Name(b)), cmp.Compare(a, b))
		})
	}
	return out
}

// Relabel applies order to p: group i of p becomes group order[i] of the
// result. order must be a permutation of 0..len(p)-1.
func Relabel(p Partition, order []int) Partition {
	out := make(Partition, len(p))
	for i, g := range p {
		out[order[i]] = slices.Clone(g)
	}
	return out
}
