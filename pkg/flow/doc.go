// Package flow orders the category bands of an alluvial diagram so that
// entities can be followed from one time step to the next.
//
// # Overview
//
// Each time step assigns every entity (a province, say) to exactly one
// category. Drawn as stacked bands connected by ribbons, the diagram is only
// readable when ribbons rarely cross. The category labels produced by an
// external clustering step are arbitrary, so the bands of each step may be
// reordered freely. This package picks the order.
//
// A step is a [Partition]: group i holds the entities carrying label i. The
// [Minimize] function receives the previous step's finalized partition and
// the current step's raw partition, and returns the current groups relabeled
// so that the number of crossings against the previous step is minimal.
//
// # Crossings
//
// Two entities present in both steps cross when their relative vertical
// order flips:
//
//	(prev(B) - prev(A)) * (curr(B) - curr(A)) < 0
//
// Pairs sharing a group in either step never cross, and entities missing
// from one of the steps are ignored. [CountCrossings] evaluates a single
// candidate order.
//
// # Search
//
// [Exhaustive] tries all k! orders in lexicographic sequence and keeps the
// first one with the strictly lowest count, so results are deterministic.
// That is affordable for the handful of clusters a flow diagram shows. For
// larger k, [Barycentric] offers an explicit heuristic and [Auto] switches
// between the two at a configurable limit.
//
// # Threading
//
// [Thread] runs a whole timeline: the first step is only normalized, every
// later step is ordered against its predecessor's result.
//
// # Concurrency
//
// All functions are pure. Inputs are never mutated and outputs are freshly
// allocated, so results may be shared freely between goroutines.
package flow
