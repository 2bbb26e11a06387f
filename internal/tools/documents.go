package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/HendryAvila/keysync/internal/content"
	"github.com/HendryAvila/keysync/internal/keycache"
)

// Documents serves document content for any key spelling through an
// any-spelling read-through cache. A nil *Documents has no content.
type Documents struct {
	src   content.Source
	cache *keycache.Cache[*content.Document]
	rt    *keycache.ReadThrough[*content.Document]
	ttl   time.Duration
}

// NewDocuments caches documents from src in cache for ttl. A nil cache
// disables caching.
func NewDocuments(src content.Source, cache *keycache.Cache[*content.Document], ttl time.Duration) *Documents {
	d := &Documents{src: src, cache: cache, ttl: ttl}
	if cache != nil {
		d.rt = keycache.NewReadThrough(cache, src.Document, false)
	}
	return d
}

// Document returns the document key denotes.
func (d *Documents) Document(ctx context.Context, key string) (*content.Document, error) {
	if d == nil {
		return nil, fmt.Errorf("tools: content store disabled: %w", content.ErrNotFound)
	}
	if d.rt == nil {
		return d.src.Document(ctx, key)
	}
	return d.rt.Get(ctx, key, d.ttl)
}

// Invalidate drops every cached document. Called after the tree or the
// store changed.
func (d *Documents) Invalidate(ctx context.Context) {
	if d == nil || d.cache == nil {
		return
	}
	d.cache.Flush(ctx)
}

// CacheStats reports the cache counters, or nil when uncached.
func (d *Documents) CacheStats() *keycache.Stats {
	if d == nil || d.cache == nil {
		return nil
	}
	st := d.cache.Stats()
	return &st
}
