package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/HendryAvila/keysync/internal/resolver"
)

// Registry is the part of the resolver the indexer walks.
type Registry interface {
	Resolver
	Build(ctx context.Context) error
	Entries() []resolver.Entry
}

// IndexResult summarizes one Index run.
type IndexResult struct {
	Added     int           `json:"added"`
	Updated   int           `json:"updated"`
	Unchanged int           `json:"unchanged"`
	Failed    int           `json:"failed"`
	Errors    []string      `json:"errors,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// Indexer copies every registered document from the tree into a Store.
type Indexer struct {
	registry Registry
	store    *Store
	files    FileSource
	logger   *slog.Logger
}

// NewIndexer returns an Indexer. A nil logger discards output.
func NewIndexer(reg Registry, store *Store, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Indexer{
		registry: reg,
		store:    store,
		files:    FileSource{Resolver: reg, MaxBytes: store.cfg.MaxDocumentBytes},
		logger:   logger,
	}
}

// Index builds the registry if needed and stores the body of every entry
// under its canonical key. Per-document failures are counted, not fatal.
func (ix *Indexer) Index(ctx context.Context) (*IndexResult, error) {
	start := time.Now()
	if err := ix.registry.Build(ctx); err != nil {
		return nil, fmt.Errorf("content: index: %w", err)
	}

	res := &IndexResult{}
	for _, entry := range ix.registry.Entries() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := ix.indexOne(ctx, entry, res); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", entry.Key, err))
			ix.logger.Warn("index document failed", "key", entry.Key, "error", err)
		}
	}
	res.Duration = time.Since(start)

	ix.logger.Info("content indexed",
		"added", res.Added,
		"updated", res.Updated,
		"unchanged", res.Unchanged,
		"failed", res.Failed,
		"duration", res.Duration,
	)
	return res, nil
}

func (ix *Indexer) indexOne(ctx context.Context, entry resolver.Entry, res *IndexResult) error {
	doc, err := ix.files.Document(ctx, entry.Key)
	if err != nil {
		return err
	}

	prev, err := ix.store.Get(entry.Key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if _, err := ix.store.Put(PutParams{
		Key:     entry.Key,
		Address: entry.Address.String(),
		Title:   doc.Title,
		Body:    doc.Body,
	}); err != nil {
		return err
	}

	switch {
	case prev == nil:
		res.Added++
	case prev.Checksum == doc.Checksum:
		res.Unchanged++
	default:
		res.Updated++
	}
	return nil
}
