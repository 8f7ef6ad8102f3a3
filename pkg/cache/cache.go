// Package cache stores computed orderings and diagrams between runs.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// service, and [NullCache] when caching is disabled. Keys come from a
// [Keyer] so the service can namespace tenants with [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Default lifetimes. Orderings depend only on their inputs and never go
// stale; diagrams also depend on geometry defaults that change between
// releases, so they expire sooner.
const (
	TTLOrder   = 30 * 24 * time.Hour
	TTLDiagram = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
