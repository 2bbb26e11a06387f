package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/keysync/internal/resolver"
	"github.com/mark3labs/mcp-go/mcp"
)

// FindTool handles the keysync_find MCP tool.
type FindTool struct {
	engine *resolver.Engine
}

// NewFindTool creates a FindTool.
func NewFindTool(engine *resolver.Engine) *FindTool {
	return &FindTool{engine: engine}
}

// Definition returns the MCP tool definition for keysync_find.
func (t *FindTool) Definition() mcp.Tool {
	return mcp.NewTool("keysync_find",
		mcp.WithDescription(
			"Find which of a set of differently spelled keys (for example, the keys of a cache) "+
				"denotes the same document as the query. Ambiguous filename matches return nothing.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Key to look for, in any spelling"),
		),
		mcp.WithArray("candidates",
			mcp.Required(),
			mcp.Description("Keys to search, as stored"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

// Handle processes the keysync_find tool call.
func (t *FindTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, errRes := requiredString(req, "query")
	if errRes != nil {
		return errRes, nil
	}
	candidates := stringSliceArg(req, "candidates")
	if len(candidates) == 0 {
		return mcp.NewToolResultError("'candidates' must be a non-empty array of strings"), nil
	}

	var sb strings.Builder
	sb.WriteString("## Key Match\n\n")
	fmt.Fprintf(&sb, "- **Query**: `%s`\n", query)
	fmt.Fprintf(&sb, "- **Candidates**: %d\n", len(candidates))

	match, ok := t.engine.FindByAnyKey(query, candidates)
	if !ok {
		sb.WriteString("- **Match**: none\n")
		return mcp.NewToolResultText(sb.String()), nil
	}
	fmt.Fprintf(&sb, "- **Match**: `%s`\n", match)
	return mcp.NewToolResultText(sb.String()), nil
}
