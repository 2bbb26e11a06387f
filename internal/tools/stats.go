package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/HendryAvila/keysync/internal/content"
	"github.com/HendryAvila/keysync/internal/resolver"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatsTool handles the keysync_stats MCP tool.
type StatsTool struct {
	engine *resolver.Engine
	store  *content.Store
	docs   *Documents
}

// NewStatsTool creates a StatsTool. store and docs may be nil.
func NewStatsTool(engine *resolver.Engine, store *content.Store, docs *Documents) *StatsTool {
	return &StatsTool{engine: engine, store: store, docs: docs}
}

// Definition returns the MCP tool definition for keysync_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("keysync_stats",
		mcp.WithDescription(
			"Show registry statistics (logical mappings, collisions, per-kind counts), "+
				"content store totals and document cache counters.",
		),
	)
}

// Handle processes the keysync_stats tool call. It never triggers a
// registry build.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := t.engine.Statistics()

	var sb strings.Builder
	sb.WriteString("## Registry Statistics\n\n")
	fmt.Fprintf(&sb, "- **Root**: `%s`\n", st.Root)
	fmt.Fprintf(&sb, "- **Built**: %t\n", st.Built)
	fmt.Fprintf(&sb, "- **Logical mappings**: %d\n", st.LogicalMappings)
	fmt.Fprintf(&sb, "- **Collisions**: %d\n", st.Collisions)
	if st.Built {
		fmt.Fprintf(&sb, "- **Files scanned**: %d\n", st.FilesScanned)
		fmt.Fprintf(&sb, "- **Build**: %s in %s\n", st.BuildID, st.BuildDuration)
	}
	if st.LastError != "" {
		fmt.Fprintf(&sb, "- **Last error**: %s\n", st.LastError)
	}

	if len(st.Kinds) > 0 {
		kinds := make([]string, 0, len(st.Kinds))
		for k := range st.Kinds {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		sb.WriteString("\n### Kinds\n\n")
		for _, k := range kinds {
			fmt.Fprintf(&sb, "- **%s**: %d\n", k, st.Kinds[k])
		}
	}

	if len(st.CollisionDetails) > 0 {
		sb.WriteString("\n### Collisions\n\n")
		for _, c := range st.CollisionDetails {
			fmt.Fprintf(&sb, "- `%s`: kept `%s`, rejected `%s`\n", c.Address, c.Kept, c.Rejected)
		}
	}

	sb.WriteString("\n### Content Store\n\n")
	if t.store == nil {
		sb.WriteString("- disabled\n")
	} else if cs, err := t.store.Stats(); err != nil {
		fmt.Fprintf(&sb, "- **Error**: %v\n", err)
	} else {
		fmt.Fprintf(&sb, "- **Documents**: %d\n", cs.TotalDocuments)
		fmt.Fprintf(&sb, "- **Bytes**: %d\n", cs.TotalBytes)
		fmt.Fprintf(&sb, "- **With logical address**: %d\n", cs.Addressed)
		if cs.LastIndexedAt != nil {
			fmt.Fprintf(&sb, "- **Last indexed**: %s\n", *cs.LastIndexedAt)
		}
	}

	if cache := t.docs.CacheStats(); cache != nil {
		sb.WriteString("\n### Document Cache\n\n")
		fmt.Fprintf(&sb, "- **Items**: %d\n", cache.Items)
		fmt.Fprintf(&sb, "- **Hits**: %d (%d via another spelling)\n", cache.Hits, cache.AliasHits)
		fmt.Fprintf(&sb, "- **Misses**: %d\n", cache.Misses)
	}

	return mcp.NewToolResultText(sb.String()), nil
}
