// Package pipeline provides the load → order → layout → render pipeline
// shared by the CLI and the HTTP service.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read cluster assignments (and optionally display names)
//  2. Order: Thread a crossing minimizer through the timeline
//  3. Layout: Compute band and ribbon geometry
//  4. Render: Serialize the diagram (JSON, DOT, SVG)
//
// Ordering is the expensive stage; its per-step results and the finished
// diagram are both cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Assignments: "clusters.json",
//	    Records:     "gdp.json",
//	    Formats:     []string{"json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Crossings, "crossings")
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/provflow/pkg/cache"
	"github.com/matzehuels/provflow/pkg/dataset"
	"github.com/matzehuels/provflow/pkg/diagram"
	"github.com/matzehuels/provflow/pkg/errors"
	"github.com/matzehuels/provflow/pkg/flow"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultOrdering is the default ordering strategy.
	DefaultOrdering = flow.OrderingExhaustive

	// DefaultExhaustiveLimit is where "auto" switches to the heuristic.
	DefaultExhaustiveLimit = flow.DefaultExhaustiveLimit

	// MaxExhaustiveGroups is the largest category count accepted for plain
	// exhaustive ordering. 10! candidates take seconds; 11! takes minutes.
	MaxExhaustiveGroups = 10

	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = diagram.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = diagram.DefaultHeight
)

// Format constants for output artifacts.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats lists the supported artifact formats.
var ValidFormats = []string{FormatJSON, FormatDOT, FormatSVG}

// ValidOrderings lists the accepted ordering names.
var ValidOrderings = []string{flow.OrderingExhaustive, flow.OrderingBarycentric, flow.OrderingAuto}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run. It supports JSON
// for API requests; in-memory inputs are not serialized.
type Options struct {
	// Load options
	Assignments string `json:"assignments,omitempty"` // path to assignments file
	Records     string `json:"records,omitempty"`     // path to indicator records (names)
	Refresh     bool   `json:"refresh,omitempty"`     // bypass cached results

	// Order options
	Ordering        string `json:"ordering,omitempty"`
	ExhaustiveLimit int    `json:"exhaustive_limit,omitempty"`

	// Layout options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Members bool     `json:"members,omitempty"` // list entity names in DOT bands

	// Runtime options (not serialized)
	Dataset dataset.Assignments `json:"-"` // takes precedence over Assignments
	Names   dataset.Names       `json:"-"` // takes precedence over Records
	Logger  *log.Logger         `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Years   []int           `json:"years"`
	Results []flow.Result   `json:"results"`
	Diagram diagram.Diagram `json:"diagram"`

	// DatasetHash identifies the loaded assignments and names.
	DatasetHash string `json:"dataset_hash"`

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte `json:"-"`

	Stats    Stats `json:"stats"`
	CacheHit bool  `json:"cache_hit"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Steps      int           `json:"steps"`
	Entities   int           `json:"entities"`
	MaxGroups  int           `json:"max_groups"`
	Crossings  int           `json:"crossings"`
	Baseline   int           `json:"baseline"`
	OrderHits  int           `json:"order_hits"` // steps served from cache
	OrderTime  time.Duration `json:"order_time"`
	LayoutTime time.Duration `json:"layout_time"`
	RenderTime time.Duration `json:"render_time"`
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills every zero field with its default.
func (o *Options) SetDefaults() {
	o.Ordering = strings.ToLower(o.Ordering)
	if o.Ordering == "" {
		o.Ordering = DefaultOrdering
	}
	if o.ExhaustiveLimit == 0 {
		o.ExhaustiveLimit = DefaultExhaustiveLimit
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(f)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks inputs and option ranges. Call after [Options.SetDefaults].
func (o *Options) Validate() error {
	if o.Dataset == nil && o.Assignments == "" {
		return errors.New(errors.ErrCodeInvalidInput, "assignments are required")
	}
	if err := o.ValidateOrdering(); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must be positive")
	}
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f, ValidFormats...); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOrdering checks the strategy name and the exhaustive limit. It is
// the part of [Options.Validate] that applies to single snapshot pairs.
func (o *Options) ValidateOrdering() error {
	if err := errors.ValidateFormat(o.Ordering, ValidOrderings...); err != nil {
		return errors.New(errors.ErrCodeInvalidOrdering, "invalid ordering %q (must be one of: exhaustive, barycentric, auto)", o.Ordering)
	}
	if o.ExhaustiveLimit < 1 || o.ExhaustiveLimit > MaxExhaustiveGroups {
		return errors.New(errors.ErrCodeInvalidInput, "exhaustive limit %d out of range 1..%d", o.ExhaustiveLimit, MaxExhaustiveGroups)
	}
	return nil
}

// GroupCap is the largest category count one step may have under the
// configured ordering, or 0 for no cap. Auto needs none once its limit is
// validated, since it only searches at or below the limit.
func (o *Options) GroupCap() int {
	if o.Ordering == flow.OrderingExhaustive {
		return MaxExhaustiveGroups
	}
	return 0
}

// Orderer returns the configured strategy.
func (o *Options) Orderer() (flow.Orderer, error) {
	return flow.ByName(o.Ordering, o.ExhaustiveLimit)
}

// DiagramOptions returns the geometry options.
func (o *Options) DiagramOptions() diagram.Options {
	return diagram.Options{Width: o.Width, Height: o.Height}
}

// DiagramKeyOpts returns cache key options for the finished diagram.
func (o *Options) DiagramKeyOpts() cache.DiagramKeyOpts {
	return cache.DiagramKeyOpts{
		Ordering: o.Ordering,
		Limit:    o.ExhaustiveLimit,
		Width:    o.Width,
		Height:   o.Height,
	}
}
