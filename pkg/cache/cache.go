// Package cache stores rendered chart artifacts.
//
// Rendering a chart is cheap for SVG and JSON but not for PNG (which shells
// out to rsvg-convert) or PDF and XLSX documents. The pipeline runner keys
// each artifact by a hash of the layout it was drawn from plus the render
// options, so repeated requests for the same chart skip the sink entirely.
//
// Four backends are provided:
//   - [NullCache]: caching disabled (the default)
//   - [MemoryCache]: bounded in-process cache for the HTTP server
//   - [FileCache]: on-disk cache shared between CLI invocations
//   - [RedisCache]: shared cache for several HTTP servers
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
