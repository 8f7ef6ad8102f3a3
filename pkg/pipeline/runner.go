package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/provflow/pkg/cache"
	"github.com/matzehuels/provflow/pkg/dataset"
	"github.com/matzehuels/provflow/pkg/errors"
	"github.com/matzehuels/provflow/pkg/flow"
	"github.com/matzehuels/provflow/pkg/flow/perm"
	"github.com/matzehuels/provflow/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer means DefaultKeyer; a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → order → layout → render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// Stage 1: Load
	in, err := Load(opts)
	if err != nil {
		return nil, err
	}
	hash, err := cache.HashValue(in)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash dataset")
	}
	tl := in.Assignments.Timeline()
	opts.Logger.Debug("loaded dataset", "steps", len(tl.Steps), "hash", hash[:12])

	result, err := r.cachedResult(ctx, hash, opts)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result, err = r.compute(ctx, tl, in, hash, opts)
		if err != nil {
			return nil, err
		}
	}

	// Stage 4: Render
	if len(opts.Formats) > 0 {
		start := time.Now()
		artifacts, err := Render(ctx, result.Diagram, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(start)
		opts.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)
	}
	return result, nil
}

func (r *Runner) compute(ctx context.Context, tl dataset.Timeline, in *Input, hash string, opts Options) (*Result, error) {
	names := in.Names
	result := &Result{
		Years:       tl.Years(),
		DatasetHash: hash,
		Stats: Stats{
			Steps:     len(tl.Steps),
			Entities:  len(tl.Entities()),
			MaxGroups: tl.MaxGroups(),
		},
	}

	// Stage 2: Order
	start := time.Now()
	results, hits, err := r.Order(ctx, tl.Partitions(names), names, opts)
	if err != nil {
		return nil, fmt.Errorf("order: %w", err)
	}
	result.Results = results
	result.Stats.OrderTime = time.Since(start)
	result.Stats.OrderHits = hits
	for _, res := range results {
		result.Stats.Crossings += res.Crossings
		result.Stats.Baseline += res.Baseline
	}
	opts.Logger.Info("ordered timeline",
		"steps", result.Stats.Steps,
		"crossings", result.Stats.Crossings,
		"baseline", result.Stats.Baseline,
		"cached_steps", hits,
		"duration", result.Stats.OrderTime)

	// Stage 3: Layout
	start = time.Now()
	result.Diagram = r.Layout(ctx, result.Years, results, names, opts)
	if len(in.Indicators) > 0 {
		result.Diagram.Annotate(in.Indicators.Values)
	}
	result.Stats.LayoutTime = time.Since(start)
	opts.Logger.Info("computed layout", "flows", len(result.Diagram.Flows), "duration", result.Stats.LayoutTime)

	if data, err := json.Marshal(result); err == nil {
		key := r.Keyer.DiagramKey(hash, opts.DiagramKeyOpts())
		if err := r.Cache.Set(ctx, key, data, cache.TTLDiagram); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "diagram", len(data))
		}
	}
	return result, nil
}

// cachedResult returns the cached diagram for hash, or nil on a miss.
func (r *Runner) cachedResult(ctx context.Context, hash string, opts Options) (*Result, error) {
	if opts.Refresh {
		return nil, nil
	}
	key := r.Keyer.DiagramKey(hash, opts.DiagramKeyOpts())
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, nil
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "diagram")
		return nil, nil
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		opts.Logger.Debug("discarding unreadable cache entry", "key", key, "err", err)
		return nil, nil
	}
	observability.Cache().OnCacheHit(ctx, "diagram")
	result.CacheHit = true
	opts.Logger.Info("diagram from cache", "steps", result.Stats.Steps)
	return &result, nil
}

// Order threads the configured orderer through steps, consulting the cache
// for every transition. It returns the per-step results and the number of
// transitions served from cache. The result is identical to
// [flow.Thread] with the same orderer.
func (r *Runner) Order(ctx context.Context, steps []flow.Partition, names flow.Namer, opts Options) ([]flow.Result, int, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.ValidateOrdering(); err != nil {
		return nil, 0, err
	}
	o, err := opts.Orderer()
	if err != nil {
		return nil, 0, err
	}
	for i, s := range steps {
		if err := errors.ValidatePartition(s, opts.GroupCap()); err != nil {
			return nil, 0, errors.Wrap(errors.GetCode(err), err, "step %d", i)
		}
	}

	hooks := observability.Flow()
	hooks.OnOrderStart(ctx, opts.Ordering, len(steps))
	start := time.Now()

	results := make([]flow.Result, len(steps))
	hits, crossings := 0, 0
	var prev flow.Partition
	var prevHash string
	for t, step := range steps {
		if err := ctx.Err(); err != nil {
			hooks.OnOrderComplete(ctx, opts.Ordering, len(steps), crossings, time.Since(start), err)
			return nil, hits, err
		}
		current := flow.Normalize(step, names)
		if t == 0 {
			results[t] = flow.Result{Partition: current, Order: perm.Seq(len(current))}
		} else {
			key := r.Keyer.OrderKey(prevHash, partitionHash(current), r.orderingKey(opts))
			res, ok := flow.Result{}, false
			if !opts.Refresh {
				res, ok = r.cachedStep(ctx, key, current)
			}
			if ok {
				hits++
			} else {
				res = o.Order(prev, current)
				if data, err := json.Marshal(res); err == nil {
					if r.Cache.Set(ctx, key, data, cache.TTLOrder) == nil {
						observability.Cache().OnCacheSet(ctx, "order", len(data))
					}
				}
			}
			results[t] = res
			crossings += res.Crossings
			opts.Logger.Debug("ordered step", "step", t, "groups", len(current), "order", res.Order,
				"crossings", res.Crossings, "baseline", res.Baseline, "cached", ok)
		}
		prev = results[t].Partition
		prevHash = partitionHash(prev)
	}

	hooks.OnOrderComplete(ctx, opts.Ordering, len(steps), crossings, time.Since(start), nil)
	return results, hits, nil
}

// cachedStep loads a step result and checks it still describes current.
func (r *Runner) cachedStep(ctx context.Context, key string, current flow.Partition) (flow.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "order")
		return flow.Result{}, false
	}
	var res flow.Result
	if err := json.Unmarshal(data, &res); err != nil || errors.ValidateOrder(res.Order, len(current)) != nil {
		observability.Cache().OnCacheMiss(ctx, "order")
		return flow.Result{}, false
	}
	observability.Cache().OnCacheHit(ctx, "order")
	return res, true
}

func (r *Runner) orderingKey(opts Options) string {
	if opts.Ordering == flow.OrderingAuto {
		return fmt.Sprintf("%s-%d", opts.Ordering, opts.ExhaustiveLimit)
	}
	return opts.Ordering
}

func partitionHash(p flow.Partition) string {
	data, _ := json.Marshal(p)
	return cache.Hash(data)
}

// Input is a loaded dataset. Indicators is empty unless a records file was
// given.
type Input struct {
	Assignments dataset.Assignments `json:"assignments"`
	Names       dataset.Names       `json:"names"`
	Indicators  dataset.Indicators  `json:"indicators,omitempty"`
}

// Load reads the assignments and records named by opts. In-memory inputs
// take precedence over paths; missing names fall back to entity IDs.
func Load(opts Options) (*Input, error) {
	in := &Input{Assignments: opts.Dataset, Names: opts.Names}
	if in.Assignments == nil {
		a, err := dataset.ReadAssignments(opts.Assignments)
		if err != nil {
			return nil, err
		}
		in.Assignments = a
	}
	if opts.Records != "" {
		records, err := dataset.ReadRecordsFile(opts.Records)
		if err != nil {
			return nil, err
		}
		in.Indicators = dataset.IndicatorsOf(records)
		if in.Names == nil {
			in.Names = dataset.NamesOf(records)
		}
	}
	if in.Names == nil {
		in.Names = dataset.Names{}
	}
	return in, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
