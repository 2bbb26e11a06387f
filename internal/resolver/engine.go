// Package resolver maps every spelling of a document key onto one
// canonical, root-relative key.
//
// The same file is routinely addressed as an absolute path, as a path
// relative to some working directory ("../docs/a.md"), as a bare filename
// and as a logical address ("abstract://standard:registry"). Caches that
// are filled under one spelling and queried under another silently miss.
// An Engine canonicalizes spellings, resolves logical addresses through a
// registry built from the project tree, enumerates aliases, and finds a
// key among differently spelled candidates.
//
// Engines are explicit values: construct one per project root and pass it
// to whatever needs it.
package resolver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Root validation errors returned by New.
var (
	ErrRootNotFound = errors.New("root does not exist")
	ErrRootNotDir   = errors.New("root is not a directory")
)

// DefaultIgnoreDirs are directory names never descended into during a
// registry build, in addition to any dot-directory.
var DefaultIgnoreDirs = []string{"node_modules", "__pycache__", ".venv"}

// Engine resolves document keys for one project root. It is safe for
// concurrent use.
type Engine struct {
	root   string   // absolute, forward slashes
	osRoot string   // absolute, OS separators
	roots  []string // accepted absolute spellings of root
	kinds  kindTable
	ignore map[string]struct{}
	logger *slog.Logger
	tracer trace.Tracer

	mu  sync.RWMutex
	reg registry
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	kinds  []KindRule
	ignore []string
	logger *slog.Logger
	tracer trace.Tracer
}

// WithKindRules replaces the default folder-keyword table.
func WithKindRules(rules []KindRule) Option {
	return func(o *options) { o.kinds = rules }
}

// WithIgnoreDirs replaces the default list of skipped directory names.
func WithIgnoreDirs(names ...string) Option {
	return func(o *options) { o.ignore = names }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTracer sets the tracer used for registry build spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// New creates an Engine rooted at root. The root must be an existing
// directory; the registry is not built until first needed.
func New(root string, opts ...Option) (*Engine, error) {
	o := options{
		kinds:  DefaultKindRules(),
		ignore: DefaultIgnoreDirs,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.tracer == nil {
		o.tracer = noop.NewTracerProvider().Tracer("resolver")
	}
	if err := ValidateKindRules(o.kinds); err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolver: resolve root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("resolver: %s: %w", abs, ErrRootNotFound)
		}
		return nil, fmt.Errorf("resolver: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("resolver: %s: %w", abs, ErrRootNotDir)
	}

	e := &Engine{
		root:   filepath.ToSlash(abs),
		osRoot: abs,
		kinds:  compileKinds(o.kinds),
		ignore: make(map[string]struct{}, len(o.ignore)),
		logger: o.logger,
		tracer: o.tracer,
	}
	e.roots = []string{e.root}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		if real = filepath.ToSlash(real); real != e.root {
			e.roots = append(e.roots, real)
		}
	}
	for _, name := range o.ignore {
		e.ignore[name] = struct{}{}
	}
	e.reg.reset()

	return e, nil
}

// Root returns the absolute project root with forward slashes.
func (e *Engine) Root() string { return e.root }

// NormalizeKey canonicalizes any path-like spelling into a root-relative
// key. Logical addresses are returned unchanged; use ResolveToCanonical to
// resolve them. NormalizeKey is pure, never fails and is idempotent.
func (e *Engine) NormalizeKey(input string) string {
	return canonicalize(input, e.roots)
}

// ResolveToCanonical resolves a logical address to its canonical key,
// building the registry on first use. An address with no mapping is
// returned unchanged, so output == input means "not found". Any other
// spelling is canonicalized as by NormalizeKey.
func (e *Engine) ResolveToCanonical(address string) string {
	addr, ok := ParseLogicalAddress(address)
	if !ok {
		return e.NormalizeKey(address)
	}
	if key, found := e.lookup(addr); found {
		return key
	}
	return address
}

// ResolveToPhysical resolves address to an absolute path under the root.
// The path is not checked for existence.
func (e *Engine) ResolveToPhysical(address string) string {
	key := e.ResolveToCanonical(address)
	if key == "" {
		return e.osRoot
	}
	return filepath.Join(e.osRoot, filepath.FromSlash(key))
}

// identity is the comparison form of a spelling: its canonical key, or for
// an unresolved logical address its normalized rendering.
func (e *Engine) identity(s string) string {
	resolved := e.ResolveToCanonical(s)
	if addr, ok := ParseLogicalAddress(resolved); ok {
		return LogicalAddress{Kind: addr.Kind, Name: normalizeName(addr.Name)}.String()
	}
	return resolved
}
