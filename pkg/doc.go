// Package pkg provides the core libraries for provflow alluvial diagrams.
//
// # Overview
//
// Provflow turns a timeline of province clusterings into an alluvial
// diagram: every year is a column of stacked category bands and every
// province is a ribbon flowing between them. Cluster labels are arbitrary
// from one year to the next, so the categories of each year are relabeled
// to make as few ribbons cross as possible. The pkg directory is organized
// into four main areas:
//
//  1. [flow] - Domain logic (partitions, crossing counts, orderers)
//  2. [diagram] - Geometry and output sinks (JSON, DOT, SVG)
//  3. [pipeline] - Orchestration (load → order → layout → render)
//  4. [server] - HTTP service with [store] persistence and [cache] reuse
//
// # Architecture
//
// The typical data flow:
//
//	Assignments file (year → province → [x, y, label])
//	         ↓
//	    [dataset] package (timeline of label steps)
//	         ↓
//	    [flow] package (normalize + order every step)
//	         ↓
//	    [diagram] package (bands and ribbons)
//	         ↓
//	    JSON / DOT / SVG output
//
// # Quick Start
//
// Order a timeline and build its diagram:
//
//	import (
//	    "github.com/matzehuels/provflow/pkg/dataset"
//	    "github.com/matzehuels/provflow/pkg/diagram"
//	    "github.com/matzehuels/provflow/pkg/flow"
//	)
//
//	// 1. Load assignments
//	a, _ := dataset.ReadAssignments("clusters.json")
//	tl := a.Timeline()
//
//	// 2. Order every step against its predecessor
//	results := flow.Thread(tl.Partitions(nil), nil, flow.Exhaustive{})
//
//	// 3. Compute geometry
//	d := diagram.Build(tl.Years(), results, nil, diagram.Options{})
//
// # Main Packages
//
// [flow] - Partitions, pairwise crossing counts and the orderers:
// exhaustive search over label permutations, the barycentric heuristic and
// "auto", which picks between them by category count.
//
// [flow/perm] - Permutation generation in lexicographic order.
//
// [dataset] - Cluster assignment files (JSON, YAML) and indicator records
// that carry province names.
//
// [diagram] - Band and ribbon geometry. [diagram/sink] writes diagrams as
// JSON and as a Graphviz band graph (DOT source or SVG).
//
// [pipeline] - The load → order → layout → render pipeline shared by the
// CLI and the HTTP service, with per-step and per-diagram caching.
//
// [cache] - Cache interface with file, Redis and null implementations plus
// the key scheme for orderings and diagrams.
//
// [store] - Persistence for rendered diagrams (memory, MongoDB).
//
// [server] - chi-based HTTP API.
//
// [observability] - Hook interfaces with a Prometheus implementation in
// observability/prom.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/flow/...               # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [flow]: https://pkg.go.dev/github.com/matzehuels/provflow/pkg/flow
// [flow/perm]: https://pkg.go.dev/github.com/matzehuels/provflow/pkg/flow/perm
// [dataset]: https://pkg.go.dev/github.com/matzehuels/provflow/pkg/dataset
// [diagram]: https://pkg.go.dev/github.com/matzehuels/provflow/pkg/diagram
// [diagram/sink]: https://pkg.go.dev/github.com/matzehuels/provflow/pkg/diagram/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/provflow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/provflow/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/provflow/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/provflow/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/provflow/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/provflow/pkg/errors
package pkg
