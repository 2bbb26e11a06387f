// Package resources implements the keysync MCP resources.
//
// Resources are read-only JSON views of the logical address registry,
// addressed as keysync://registry/...
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/keysync/internal/resolver"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	StatsURI   = "keysync://registry/stats"
	EntriesURI = "keysync://registry/entries"
)

// Handler serves registry resources.
type Handler struct {
	engine *resolver.Engine
}

// NewHandler creates a resource Handler over engine.
func NewHandler(engine *resolver.Engine) *Handler {
	return &Handler{engine: engine}
}

// StatsResource returns the MCP resource definition for registry statistics.
func (h *Handler) StatsResource() mcp.Resource {
	return mcp.NewResource(
		StatsURI,
		"Registry Statistics",
		mcp.WithResourceDescription("Logical address registry counters, collisions and per-kind totals"),
		mcp.WithMIMEType("application/json"),
	)
}

// EntriesResource returns the MCP resource definition for registry entries.
func (h *Handler) EntriesResource() mcp.Resource {
	return mcp.NewResource(
		EntriesURI,
		"Registry Entries",
		mcp.WithResourceDescription("Every logical address and the canonical key it resolves to"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStats returns the registry statistics as JSON. It does not build
// the registry.
func (h *Handler) HandleStats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.engine.Statistics())
}

// HandleEntries returns the registry entries as JSON, building the
// registry first if needed.
func (h *Handler) HandleEntries(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if err := h.engine.Build(ctx); err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	entries := h.engine.Entries()
	out := make([]entryView, len(entries))
	for i, e := range entries {
		out[i] = entryView{Address: e.Address.String(), Kind: e.Address.Kind, Key: e.Key}
	}
	return jsonResource(req.Params.URI, out)
}

type entryView struct {
	Address string `json:"address"`
	Kind    string `json:"kind"`
	Key     string `json:"key"`
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("resources: marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
