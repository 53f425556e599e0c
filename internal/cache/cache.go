// Package cache stores rendered pages for a bounded time.
//
// Entries are never invalidated by writes to the underlying data; they live
// until their TTL runs out or the cache is cleared explicitly.
package cache

import (
	"context"
	"time"
)

type PageCache interface {
	// Get returns the cached body and true, or nil and false on a miss or expired entry.
	// A non-nil error means the backend failed; callers treat it as a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
	// Clear drops every entry owned by this cache.
	Clear(ctx context.Context) error
}
