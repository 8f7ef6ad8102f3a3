// Package observability defines the instrumentation hooks called by the
// pipeline, the caches and the HTTP service.
//
// Hooks default to no-ops. The binary decides where events go; package prom
// records them as Prometheus metrics. Install hooks once at startup:
//
//	func main() {
//	    m := prom.New(nil)
//	    observability.SetFlowHooks(m)
//	    observability.SetCacheHooks(m)
//	    // ... run application
//	}
//
// Callers emit events around their work:
//
//	observability.Flow().OnOrderStart(ctx, "exhaustive", len(steps))
//	// ... order the timeline ...
//	observability.Flow().OnOrderComplete(ctx, "exhaustive", len(steps), crossings, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Flow Hooks
// =============================================================================

// FlowHooks receives events from the ordering and layout stages.
type FlowHooks interface {
	OnOrderStart(ctx context.Context, ordering string, steps int)
	OnOrderComplete(ctx context.Context, ordering string, steps, crossings int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, flows int)
	OnLayoutComplete(ctx context.Context, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. keyType is "order" or
// "diagram".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP service. route is the matched
// route pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFlowHooks is a no-op implementation of FlowHooks.
type NoopFlowHooks struct{}

func (NoopFlowHooks) OnOrderStart(context.Context, string, int) {}
func (NoopFlowHooks) OnOrderComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopFlowHooks) OnLayoutStart(context.Context, int)                     {}
func (NoopFlowHooks) OnLayoutComplete(context.Context, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

type registry struct {
	mu    sync.RWMutex
	flow  FlowHooks
	cache CacheHooks
	http  HTTPHooks
}

var hooks = &registry{
	flow:  NoopFlowHooks{},
	cache: NoopCacheHooks{},
	http:  NoopHTTPHooks{},
}

// set stores h in *slot under the write lock; nil keeps the current value.
func set[T any](slot *T, h T, isNil bool) {
	if isNil {
		return
	}
	hooks.mu.Lock()
	*slot = h
	hooks.mu.Unlock()
}

func get[T any](slot *T) T {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return *slot
}

// SetFlowHooks installs h for ordering and layout events. Call at startup.
func SetFlowHooks(h FlowHooks) { set(&hooks.flow, h, h == nil) }

// SetCacheHooks installs h for cache events. Call at startup.
func SetCacheHooks(h CacheHooks) { set(&hooks.cache, h, h == nil) }

// SetHTTPHooks installs h for request events. Call at startup.
func SetHTTPHooks(h HTTPHooks) { set(&hooks.http, h, h == nil) }

// Flow returns the installed flow hooks.
func Flow() FlowHooks { return get(&hooks.flow) }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return get(&hooks.cache) }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return get(&hooks.http) }

// Reset puts the no-op hooks back. Tests call it in cleanup.
func Reset() {
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.flow = NoopFlowHooks{}
	hooks.cache = NoopCacheHooks{}
	hooks.http = NoopHTTPHooks{}
}
