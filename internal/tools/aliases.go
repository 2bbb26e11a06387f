package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/keysync/internal/resolver"
	"github.com/mark3labs/mcp-go/mcp"
)

// AliasesTool handles the keysync_aliases MCP tool.
type AliasesTool struct {
	engine *resolver.Engine
}

// NewAliasesTool creates an AliasesTool.
func NewAliasesTool(engine *resolver.Engine) *AliasesTool {
	return &AliasesTool{engine: engine}
}

// Definition returns the MCP tool definition for keysync_aliases.
func (t *AliasesTool) Definition() mcp.Tool {
	return mcp.NewTool("keysync_aliases",
		mcp.WithDescription(
			"List every spelling that denotes the same document as the given key. "+
				"Use it to invalidate a cache entry under all its spellings.",
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Key in any spelling"),
		),
	)
}

// Handle processes the keysync_aliases tool call.
func (t *AliasesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requiredString(req, "key")
	if errRes != nil {
		return errRes, nil
	}

	aliases := t.engine.GetAllAliases(key)
	if len(aliases) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no aliases for %q", key)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Aliases (%d)\n\n", len(aliases))
	bulletList(&sb, aliases)
	return mcp.NewToolResultText(sb.String()), nil
}
