package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/keysync/internal/resolver"
	"github.com/mark3labs/mcp-go/mcp"
)

// NormalizeTool handles the keysync_normalize MCP tool.
type NormalizeTool struct {
	engine *resolver.Engine
}

// NewNormalizeTool creates a NormalizeTool.
func NewNormalizeTool(engine *resolver.Engine) *NormalizeTool {
	return &NormalizeTool{engine: engine}
}

// Definition returns the MCP tool definition for keysync_normalize.
func (t *NormalizeTool) Definition() mcp.Tool {
	return mcp.NewTool("keysync_normalize",
		mcp.WithDescription(
			"Show the canonical, root-relative key for any spelling of a document key, "+
				"the file it resolves to, and its logical address if registered.",
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Key in any spelling: absolute, relative, bare filename or abstract:// address"),
		),
	)
}

// Handle processes the keysync_normalize tool call.
func (t *NormalizeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requiredString(req, "key")
	if errRes != nil {
		return errRes, nil
	}

	normalized := t.engine.NormalizeKey(key)
	canonical := t.engine.ResolveToCanonical(key)

	var sb strings.Builder
	sb.WriteString("## Normalized Key\n\n")
	fmt.Fprintf(&sb, "- **Input**: `%s`\n", key)
	fmt.Fprintf(&sb, "- **Normalized**: `%s`\n", normalized)
	if resolver.IsLogicalAddress(canonical) {
		sb.WriteString("- **Resolved**: unresolved logical address\n")
		return mcp.NewToolResultText(sb.String()), nil
	}
	if canonical != normalized {
		fmt.Fprintf(&sb, "- **Resolved**: `%s`\n", canonical)
	}
	fmt.Fprintf(&sb, "- **Physical**: `%s`\n", t.engine.ResolveToPhysical(canonical))
	if addr, ok := t.engine.LogicalAddressOf(canonical); ok {
		fmt.Fprintf(&sb, "- **Logical address**: `%s`\n", addr)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
