package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/keysync/internal/content"
	"github.com/mark3labs/mcp-go/mcp"
)

// maxReportedErrors caps the per-document failures listed in the result.
const maxReportedErrors = 10

// IndexTool handles the keysync_index MCP tool.
type IndexTool struct {
	indexer *content.Indexer
	docs    *Documents
}

// NewIndexTool creates an IndexTool. docs may be nil.
func NewIndexTool(indexer *content.Indexer, docs *Documents) *IndexTool {
	return &IndexTool{indexer: indexer, docs: docs}
}

// Definition returns the MCP tool definition for keysync_index.
func (t *IndexTool) Definition() mcp.Tool {
	return mcp.NewTool("keysync_index",
		mcp.WithDescription(
			"Copy every document with a logical address from the project tree into the content store, "+
				"keyed by canonical key. Unchanged documents keep their revision.",
		),
	)
}

// Handle processes the keysync_index tool call.
func (t *IndexTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := t.indexer.Index(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("index failed: %v", err)), nil
	}
	t.docs.Invalidate(ctx)

	var sb strings.Builder
	sb.WriteString("## Content Indexed\n\n")
	fmt.Fprintf(&sb, "- **Added**: %d\n", res.Added)
	fmt.Fprintf(&sb, "- **Updated**: %d\n", res.Updated)
	fmt.Fprintf(&sb, "- **Unchanged**: %d\n", res.Unchanged)
	fmt.Fprintf(&sb, "- **Failed**: %d\n", res.Failed)
	fmt.Fprintf(&sb, "- **Duration**: %s\n", res.Duration)

	if len(res.Errors) > 0 {
		sb.WriteString("\n### Failures\n\n")
		for i, e := range res.Errors {
			if i == maxReportedErrors {
				fmt.Fprintf(&sb, "- ... and %d more\n", len(res.Errors)-maxReportedErrors)
				break
			}
			fmt.Fprintf(&sb, "- %s\n", e)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
