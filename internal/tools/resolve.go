package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/HendryAvila/keysync/internal/content"
	"github.com/HendryAvila/keysync/internal/resolver"
	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultResolveTimeout bounds a keysync_resolve call when none is set.
const DefaultResolveTimeout = 2 * time.Second

// ResolveResponse is the JSON body keysync_resolve returns.
type ResolveResponse struct {
	Success       bool           `json:"success"`
	Address       string         `json:"address"`
	CanonicalPath string         `json:"canonical_path,omitempty"`
	Content       map[string]any `json:"content,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// ResolveTool handles the keysync_resolve MCP tool: it resolves an address
// in any spelling and returns the document stored under it.
type ResolveTool struct {
	engine  *resolver.Engine
	docs    *Documents
	timeout time.Duration
	logger  *slog.Logger
}

// NewResolveTool creates a ResolveTool. docs may be nil, in which case only
// the canonical path is reported. A non-positive timeout means
// DefaultResolveTimeout.
func NewResolveTool(engine *resolver.Engine, docs *Documents, timeout time.Duration, logger *slog.Logger) *ResolveTool {
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ResolveTool{engine: engine, docs: docs, timeout: timeout, logger: logger}
}

// Definition returns the MCP tool definition for keysync_resolve.
func (t *ResolveTool) Definition() mcp.Tool {
	return mcp.NewTool("keysync_resolve",
		mcp.WithDescription(
			"Resolve a document address and return its content. "+
				"The address may be a logical address (abstract://standard:registry), "+
				"an absolute path, a relative path (../docs/x.md) or a bare filename.",
		),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("Document address in any spelling"),
		),
		mcp.WithString("format",
			mcp.Description("Content shape: full (default), summary or checklist"),
			mcp.Enum(content.FormatValues()...),
		),
		mcp.WithString("context",
			mcp.Description("Optional free-form note about why the document is requested; logged only"),
		),
	)
}

// Handle processes the keysync_resolve tool call. The result body is always
// a ResolveResponse; failures set success to false.
func (t *ResolveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp := t.resolve(ctx, req)
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (t *ResolveTool) resolve(ctx context.Context, req mcp.CallToolRequest) ResolveResponse {
	address := req.GetString("address", "")
	resp := ResolveResponse{Address: address}
	if address == "" {
		resp.Error = "address is required"
		return resp
	}
	format := content.ParseFormat(req.GetString("format", ""))

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	t.logger.Debug("resolve", "address", address, "format", format, "context", req.GetString("context", ""))

	canonical := t.engine.ResolveToCanonical(address)
	if canonical == "" || resolver.IsLogicalAddress(canonical) {
		resp.Error = fmt.Sprintf("no document registered for %q", address)
		return resp
	}
	resp.CanonicalPath = canonical

	if t.docs == nil {
		resp.Success = true
		return resp
	}

	doc, err := t.docs.Document(ctx, address)
	switch {
	case err == nil:
	case errors.Is(err, content.ErrNotFound):
		resp.Error = fmt.Sprintf("no content for %q", canonical)
		return resp
	case errors.Is(err, context.DeadlineExceeded):
		resp.Error = fmt.Sprintf("timed out after %s", t.timeout)
		return resp
	default:
		t.logger.Warn("resolve: content lookup failed", "address", address, "error", err)
		resp.Error = err.Error()
		return resp
	}

	if !t.engine.SameEntity(address, doc.Key) {
		t.logger.Warn("resolve: content key mismatch", "address", address, "canonical", canonical, "key", doc.Key)
		resp.Error = fmt.Sprintf("no content for %q", canonical)
		return resp
	}

	resp.Success = true
	resp.CanonicalPath = doc.Key
	resp.Content = content.Render(doc, format)
	return resp
}
