package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/provflow/pkg/diagram"
	"github.com/matzehuels/provflow/pkg/flow"
	"github.com/matzehuels/provflow/pkg/observability"
)

// Layout computes diagram geometry for ordered results. It cannot fail; the
// context only carries observability.
func (r *Runner) Layout(ctx context.Context, years []int, results []flow.Result, names flow.Namer, opts Options) diagram.Diagram {
	hooks := observability.Flow()
	hooks.OnLayoutStart(ctx, entityCount(results))
	start := time.Now()

	opts.SetDefaults()
	d := diagram.Build(years, results, names, opts.DiagramOptions())

	hooks.OnLayoutComplete(ctx, time.Since(start), nil)
	return d
}

func entityCount(results []flow.Result) int {
	seen := make(map[string]struct{})
	for _, res := range results {
		for _, id := range res.Partition.Entities() {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}
