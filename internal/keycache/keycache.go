// Package keycache is an in-memory cache that answers lookups under any
// spelling of a document key.
//
// Values are stored under whatever spelling the writer used. A read tries
// that exact spelling first and then asks the Matcher which stored key
// denotes the same document, so a value cached under "../docs/a.md" is
// found by "/abs/root/docs/a.md", "a.md" or a logical address.
package keycache

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const DefaultExpiration = 10 * time.Minute
const DefaultCleanupInterval = 30 * time.Minute

// Matcher canonicalizes and matches key spellings. *resolver.Engine
// satisfies it.
type Matcher interface {
	ResolveToCanonical(address string) string
	FindByAnyKey(query string, candidates []string) (string, bool)
	SameEntity(query, candidate string) bool
}

// Stats counts cache outcomes since creation.
type Stats struct {
	UseCase   string `json:"use_case"`
	Items     int    `json:"items"`
	Hits      int64  `json:"hits"`
	AliasHits int64  `json:"alias_hits"`
	Misses    int64  `json:"misses"`
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for hit/miss debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Cache is safe for concurrent use.
type Cache[V any] struct {
	useCase string
	matcher Matcher
	cache   *gocache.Cache
	logger  *slog.Logger

	hits, aliasHits, misses atomic.Int64
}

// New creates a Cache. useCase names the cache in logs and stats.
func New[V any](useCase string, m Matcher, defaultExpiration, cleanupInterval time.Duration, opts ...Option) *Cache[V] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache[V]{
		useCase: useCase,
		matcher: m,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
		logger:  o.logger.With("cache", useCase),
	}
}

// Set stores value under key exactly as spelled.
func (c *Cache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// Get returns the value cached under any spelling of key.
func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool) {
	if v, ok := c.typed(key); ok {
		c.hits.Add(1)
		c.logger.Debug("cache hit", "key", key)
		return v, true
	}

	if stored, ok := c.alias(key); ok {
		if v, ok := c.typed(stored); ok {
			c.aliasHits.Add(1)
			c.logger.Debug("cache alias hit", "key", key, "stored", stored)
			return v, true
		}
	}

	c.misses.Add(1)
	var zero V
	return zero, false
}

// GetWithRefresh is Get that also extends the entry's TTL.
func (c *Cache[V]) GetWithRefresh(ctx context.Context, key string, ttl time.Duration) (V, bool) {
	if v, ok := c.typed(key); ok {
		c.hits.Add(1)
		c.cache.Set(key, v, ttl)
		return v, true
	}
	if stored, ok := c.alias(key); ok {
		if v, ok := c.typed(stored); ok {
			c.aliasHits.Add(1)
			c.cache.Set(stored, v, ttl)
			return v, true
		}
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Delete removes every stored spelling of the documents keys denote and
// returns the number of entries removed.
func (c *Cache[V]) Delete(ctx context.Context, keys ...string) int {
	if len(keys) == 0 {
		return 0
	}

	stored := c.Keys()
	targets := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		targets[c.matcher.ResolveToCanonical(k)] = struct{}{}
		// A bare filename only names an entity through a unique match.
		if match, ok := c.matcher.FindByAnyKey(k, stored); ok && c.matcher.SameEntity(k, match) {
			targets[c.matcher.ResolveToCanonical(match)] = struct{}{}
		}
	}

	removed := 0
	for _, k := range stored {
		if _, ok := targets[c.matcher.ResolveToCanonical(k)]; ok {
			c.cache.Delete(k)
			removed++
		}
	}
	return removed
}

// Flush removes every entry.
func (c *Cache[V]) Flush(ctx context.Context) {
	c.cache.Flush()
}

// Keys returns the stored spellings of unexpired entries, sorted.
func (c *Cache[V]) Keys() []string {
	items := c.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats reports item count and hit counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		UseCase:   c.useCase,
		Items:     c.cache.ItemCount(),
		Hits:      c.hits.Load(),
		AliasHits: c.aliasHits.Load(),
		Misses:    c.misses.Load(),
	}
}

// alias finds the stored spelling of the entity key names. A path that
// only shares a filename with a stored key is a different document.
func (c *Cache[V]) alias(key string) (string, bool) {
	stored, ok := c.matcher.FindByAnyKey(key, c.Keys())
	if !ok || !c.matcher.SameEntity(key, stored) {
		return "", false
	}
	return stored, true
}

func (c *Cache[V]) typed(key string) (V, bool) {
	var zero V
	value, found := c.cache.Get(key)
	if !found {
		return zero, false
	}
	v, ok := value.(V)
	if !ok {
		c.logger.Error("wrong type assertion when getting value", "key", key)
		return zero, false
	}
	return v, true
}
