package keycache

import (
	"context"
	"time"
)

// ReadThrough fills a Cache from a loader on miss.
type ReadThrough[V any] struct {
	cache     *Cache[V]
	fn        func(ctx context.Context, key string) (V, error)
	skipCache bool
}

// NewReadThrough wraps cache with loader fn. With skipCache set every Get
// calls fn directly.
func NewReadThrough[V any](cache *Cache[V], fn func(ctx context.Context, key string) (V, error), skipCache bool) *ReadThrough[V] {
	return &ReadThrough[V]{cache: cache, fn: fn, skipCache: skipCache}
}

// Get returns the cached value for any spelling of key, loading and
// caching it under key on miss. Loader errors are returned uncached.
func (r *ReadThrough[V]) Get(ctx context.Context, key string, ttl time.Duration) (V, error) {
	if r.skipCache {
		return r.fn(ctx, key)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fn(ctx, key)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}

// Invalidate drops every cached spelling of key.
func (r *ReadThrough[V]) Invalidate(ctx context.Context, key string) int {
	return r.cache.Delete(ctx, key)
}
