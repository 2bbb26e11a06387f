// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the engine, content store,
// cache and tracer and injects them into the tools, prompts and resources.
// No resolution logic lives here.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/HendryAvila/keysync/internal/config"
	"github.com/HendryAvila/keysync/internal/content"
	"github.com/HendryAvila/keysync/internal/keycache"
	"github.com/HendryAvila/keysync/internal/prompts"
	"github.com/HendryAvila/keysync/internal/resolver"
	"github.com/HendryAvila/keysync/internal/resources"
	"github.com/HendryAvila/keysync/internal/tools"
	"github.com/HendryAvila/keysync/internal/tracing"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/trace"
)

// Version is set at build time via ldflags.
var Version = "dev"

// shutdownTimeout bounds flushing buffered spans on cleanup.
const shutdownTimeout = 5 * time.Second

// tool is what every keysync tool handler provides.
type tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// NewEngine creates the resolver engine described by cfg.
func NewEngine(cfg config.Config, logger *slog.Logger, tracer trace.Tracer) (*resolver.Engine, error) {
	opts, err := cfg.ResolverOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, resolver.WithLogger(logger.With("component", "resolver")))
	if tracer != nil {
		opts = append(opts, resolver.WithTracer(tracer))
	}
	return resolver.New(cfg.Root, opts...)
}

// New creates and configures the MCP server with all tools, prompts and
// resources registered.
//
// The returned cleanup function closes the content store and flushes the
// tracer. It is always non-nil and safe to call even if New failed.
func New(cfg config.Config, logger *slog.Logger) (*server.MCPServer, func(), error) {
	provider, err := tracing.NewProvider(cfg.Tracing, Version)
	if err != nil {
		return nil, noop, fmt.Errorf("creating tracer: %w", err)
	}
	cleanups := []func(){func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("tracer shutdown", "error", err)
		}
	}}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var tracer trace.Tracer
	if provider.Enabled() {
		tracer = provider.Tracer()
	}

	engine, err := NewEngine(cfg, logger, tracer)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("creating resolver: %w", err)
	}

	s := server.NewMCPServer(
		"keysync",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	add := func(t tool) {
		name := t.Definition().Name
		s.AddTool(t.Definition(), tracing.WrapTool(tracer, name, t.Handle))
	}

	// --- Content store ---
	//
	// The store is an independent subsystem: if it fails to open, the
	// resolver tools keep working and documents are read from the tree.

	var store *content.Store
	if cfg.Content.Enabled {
		var storeErr error
		store, storeErr = content.New(cfg.StoreConfig())
		if storeErr != nil {
			logger.Warn("content store disabled", "error", storeErr)
		} else {
			cleanups = append(cleanups, func() {
				if err := store.Close(); err != nil {
					logger.Warn("content store close", "error", err)
				}
			})
		}
	}

	files := content.FileSource{Resolver: engine, MaxBytes: cfg.Content.MaxDocumentBytes}
	var src content.Source = files
	if store != nil {
		src = content.Layered{content.StoreSource{Store: store, Matcher: engine}, files}
	}
	cache := keycache.New[*content.Document]("documents", engine,
		cfg.Cache.TTL, cfg.Cache.CleanupInterval,
		keycache.WithLogger(logger.With("component", "keycache")),
	)
	docs := tools.NewDocuments(src, cache, cfg.Cache.TTL)

	// --- Tools ---

	add(tools.NewResolveTool(engine, docs, cfg.ResolveTimeout, logger.With("component", "tools")))
	add(tools.NewNormalizeTool(engine))
	add(tools.NewAliasesTool(engine))
	add(tools.NewFindTool(engine))
	add(tools.NewStatsTool(engine, store, docs))
	add(tools.NewRebuildTool(engine, docs))
	if store != nil {
		indexer := content.NewIndexer(engine, store, logger.With("component", "indexer"))
		add(tools.NewIndexTool(indexer, docs))
	}

	// --- Prompts ---

	lookupPrompt := prompts.NewLookupPrompt()
	s.AddPrompt(lookupPrompt.Definition(), lookupPrompt.Handle)

	healthPrompt := prompts.NewHealthPrompt()
	s.AddPrompt(healthPrompt.Definition(), healthPrompt.Handle)

	// --- Resources ---

	resourceHandler := resources.NewHandler(engine)
	s.AddResource(resourceHandler.StatsResource(), resourceHandler.HandleStats)
	s.AddResource(resourceHandler.EntriesResource(), resourceHandler.HandleEntries)

	logger.Info("server ready",
		"root", engine.Root(),
		"content_store", store != nil,
		"tracing", provider.Enabled(),
	)
	return s, cleanup, nil
}

// noop is the cleanup returned when New fails.
func noop() {}

// serverInstructions tells the AI how to use keysync.
func serverInstructions() string {
	return `keysync resolves document addresses. The same document may be named as an
absolute path, a path relative to some working directory (../docs/x.md), a bare
filename, or a logical address such as abstract://standard:registry. keysync maps
all of them onto one canonical, root-relative key.

## Tools

- keysync_resolve: fetch a document by any spelling. Prefer logical addresses; they
  survive renames that keep the title.
- keysync_normalize: show the canonical key for a spelling.
- keysync_aliases: list every spelling of a document, e.g. to invalidate caches.
- keysync_find: pick the entry among differently spelled keys that denotes a document.
  A filename shared by two documents matches nothing.
- keysync_stats: registry counters and collisions. Never triggers a scan.
- keysync_rebuild: rescan after documents were added, moved or renamed.
- keysync_index: copy documents into the content store (when enabled).

## Rules

- A logical address that resolves to nothing is returned unchanged; treat it as
  "not found", and rebuild once before giving up.
- Never guess between documents with the same filename; ask for a path.`
}
