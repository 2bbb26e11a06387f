package resolver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Entry is one registered logical address.
type Entry struct {
	Address LogicalAddress `json:"address"`
	Key     string         `json:"key"`
}

// Collision records a logical address claimed by more than one file
// during a build. Kept is the first registrant, which the address keeps
// resolving to; Rejected is the later file.
type Collision struct {
	Address  LogicalAddress `json:"address"`
	Kept     string         `json:"kept"`
	Rejected string         `json:"rejected"`
}

type registry struct {
	built      bool
	byAddress  map[LogicalAddress]string
	byKey      map[string]LogicalAddress
	collisions []Collision
	kinds      map[string]int
	scanned    int
	buildID    string
	duration   time.Duration
	builtAt    time.Time
	lastErr    error
}

func (r *registry) reset() {
	*r = registry{
		byAddress: make(map[LogicalAddress]string),
		byKey:     make(map[string]LogicalAddress),
		kinds:     make(map[string]int),
	}
}

// register applies first-write-wins. It reports false on a collision.
func (r *registry) register(addr LogicalAddress, key string) bool {
	if kept, taken := r.byAddress[addr]; taken {
		r.collisions = append(r.collisions, Collision{Address: addr, Kept: kept, Rejected: key})
		return false
	}
	r.byAddress[addr] = key
	r.byKey[key] = addr
	r.kinds[addr.Kind]++
	return true
}

// Build scans the project tree and populates the logical address registry.
// It is a no-op once the registry is built; use Rebuild after the tree
// changes.
func (e *Engine) Build(ctx context.Context) error {
	e.mu.RLock()
	built := e.reg.built
	e.mu.RUnlock()
	if built {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.reg.built {
		return nil
	}
	return e.buildLocked(ctx)
}

// Rebuild discards the registry and scans the tree again.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildLocked(ctx)
}

func (e *Engine) buildLocked(ctx context.Context) error {
	ctx, span := e.tracer.Start(ctx, "resolver.build")
	defer span.End()

	start := time.Now()
	e.reg.reset()
	reg := &e.reg
	reg.buildID = uuid.NewString()

	walkErr := filepath.WalkDir(e.osRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == e.osRoot {
				return err
			}
			e.logger.Warn("registry walk: skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != e.osRoot && e.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		reg.scanned++
		rel, err := filepath.Rel(e.osRoot, path)
		if err != nil {
			return nil
		}
		e.registerFile(reg, filepath.ToSlash(rel))
		return nil
	})

	reg.duration = time.Since(start)
	reg.builtAt = time.Now()

	span.SetAttributes(
		attribute.String("resolver.build_id", reg.buildID),
		attribute.Int("resolver.files_scanned", reg.scanned),
		attribute.Int("resolver.mappings", len(reg.byAddress)),
		attribute.Int("resolver.collisions", len(reg.collisions)),
	)

	if walkErr != nil {
		span.RecordError(walkErr)
		span.SetStatus(codes.Error, walkErr.Error())
		reg.lastErr = walkErr
		// A cancelled build leaves the registry unbuilt so the next caller
		// retries; any other failure keeps whatever was registered.
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			reg.built = false
		} else {
			reg.built = true
		}
		return fmt.Errorf("resolver: build registry: %w", walkErr)
	}

	reg.built = true
	reg.lastErr = nil
	e.logger.Info("registry built",
		"build_id", reg.buildID,
		"files", reg.scanned,
		"mappings", len(reg.byAddress),
		"collisions", len(reg.collisions),
		"duration", reg.duration,
	)
	return nil
}

func (e *Engine) registerFile(reg *registry, key string) {
	kind, ok := e.kinds.kindOf(key)
	if !ok {
		return
	}
	name := DeriveName(baseName(key), kind)
	if !validName(name) {
		if name != "" {
			e.logger.Debug("skipping unaddressable name", "key", key, "name", name)
		}
		return
	}

	addr := LogicalAddress{Kind: kind, Name: name}
	if !reg.register(addr, key) {
		e.logger.Warn("logical address collision",
			"address", addr.String(),
			"kept", reg.byAddress[addr],
			"rejected", key,
		)
	}
}

func (e *Engine) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, skip := e.ignore[name]
	return skip
}

// ensureBuilt triggers the lazy build. Failures are logged rather than
// returned: resolution degrades to pass-through instead of failing.
func (e *Engine) ensureBuilt() {
	if err := e.Build(context.Background()); err != nil {
		e.logger.Warn("lazy registry build failed", "root", e.root, "error", err)
	}
}

func (e *Engine) lookup(addr LogicalAddress) (string, bool) {
	e.ensureBuilt()

	e.mu.RLock()
	defer e.mu.RUnlock()
	if key, ok := e.reg.byAddress[addr]; ok {
		return key, true
	}
	key, ok := e.reg.byAddress[LogicalAddress{Kind: addr.Kind, Name: normalizeName(addr.Name)}]
	return key, ok
}

// LogicalAddressOf returns the logical address registered for a canonical
// key, if any.
func (e *Engine) LogicalAddressOf(key string) (LogicalAddress, bool) {
	e.ensureBuilt()

	e.mu.RLock()
	defer e.mu.RUnlock()
	addr, ok := e.reg.byKey[key]
	return addr, ok
}

// Entries returns a snapshot of the registry sorted by address. It does
// not trigger a build.
func (e *Engine) Entries() []Entry {
	e.mu.RLock()
	out := make([]Entry, 0, len(e.reg.byAddress))
	for addr, key := range e.reg.byAddress {
		out = append(out, Entry{Address: addr, Key: key})
	}
	e.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Address.String() < out[j].Address.String()
	})
	return out
}
