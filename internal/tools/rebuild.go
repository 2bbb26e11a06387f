package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/keysync/internal/resolver"
	"github.com/mark3labs/mcp-go/mcp"
)

// RebuildTool handles the keysync_rebuild MCP tool.
type RebuildTool struct {
	engine *resolver.Engine
	docs   *Documents
}

// NewRebuildTool creates a RebuildTool. docs may be nil.
func NewRebuildTool(engine *resolver.Engine, docs *Documents) *RebuildTool {
	return &RebuildTool{engine: engine, docs: docs}
}

// Definition returns the MCP tool definition for keysync_rebuild.
func (t *RebuildTool) Definition() mcp.Tool {
	return mcp.NewTool("keysync_rebuild",
		mcp.WithDescription(
			"Rescan the project tree and rebuild the logical address registry. "+
				"Call after documents were added, moved or renamed. Also drops cached documents.",
		),
	)
}

// Handle processes the keysync_rebuild tool call.
func (t *RebuildTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.engine.Rebuild(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rebuild failed: %v", err)), nil
	}
	t.docs.Invalidate(ctx)

	st := t.engine.Statistics()
	var sb strings.Builder
	sb.WriteString("## Registry Rebuilt\n\n")
	fmt.Fprintf(&sb, "- **Build**: %s\n", st.BuildID)
	fmt.Fprintf(&sb, "- **Files scanned**: %d\n", st.FilesScanned)
	fmt.Fprintf(&sb, "- **Logical mappings**: %d\n", st.LogicalMappings)
	fmt.Fprintf(&sb, "- **Collisions**: %d\n", st.Collisions)
	fmt.Fprintf(&sb, "- **Duration**: %s\n", st.BuildDuration)
	return mcp.NewToolResultText(sb.String()), nil
}
