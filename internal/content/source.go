package content

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/HendryAvila/keysync/internal/resolver"
)

// Source yields a document for a key in any spelling.
type Source interface {
	Document(ctx context.Context, key string) (*Document, error)
}

// Resolver maps spellings onto canonical keys and physical paths.
// *resolver.Engine satisfies it.
type Resolver interface {
	ResolveToCanonical(address string) string
	ResolveToPhysical(address string) string
}

// addresser is implemented by resolvers that know logical addresses.
type addresser interface {
	LogicalAddressOf(key string) (resolver.LogicalAddress, bool)
}

// ─── FileSource ──────────────────────────────────────────────────────────────

// FileSource reads documents straight from the project tree.
type FileSource struct {
	Resolver Resolver
	MaxBytes int
}

// Document reads the file key resolves to.
func (f FileSource) Document(ctx context.Context, key string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canonical := f.Resolver.ResolveToCanonical(key)
	if canonical == "" || resolver.IsLogicalAddress(canonical) {
		return nil, fmt.Errorf("content: %q: %w", key, ErrNotFound)
	}
	path := f.Resolver.ResolveToPhysical(canonical)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("content: %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("content: stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("content: %q is not a regular file: %w", key, ErrNotFound)
	}
	if f.MaxBytes > 0 && info.Size() > int64(f.MaxBytes) {
		return nil, fmt.Errorf("content: %q (%d bytes): %w", key, info.Size(), ErrTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}

	body := string(data)
	doc := &Document{
		Key:       canonical,
		Title:     DeriveTitle(canonical, body),
		Body:      body,
		Size:      len(body),
		Checksum:  checksum(body),
		Revision:  1,
		IndexedAt: Now(),
		UpdatedAt: info.ModTime().UTC().Format(timeLayout),
	}
	if a, ok := f.Resolver.(addresser); ok {
		if addr, found := a.LogicalAddressOf(canonical); found {
			doc.Address = addr.String()
		}
	}
	return doc, nil
}

// ─── StoreSource ─────────────────────────────────────────────────────────────

// StoreSource serves documents from a Store, matching any spelling.
type StoreSource struct {
	Store   *Store
	Matcher Matcher
}

// Document looks key up in the store.
func (s StoreSource) Document(ctx context.Context, key string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Store.Lookup(s.Matcher, key)
}

// ─── Layered ─────────────────────────────────────────────────────────────────

// Layered tries each source in order and returns the first document found.
type Layered []Source

// Document returns the first hit. A source failing with anything other than
// ErrNotFound is remembered and reported if no later source has the key.
func (l Layered) Document(ctx context.Context, key string) (*Document, error) {
	var firstErr error
	for _, src := range l {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := src.Document(ctx, key)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, ErrNotFound) && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, fmt.Errorf("content: %q: %w", key, ErrNotFound)
}
