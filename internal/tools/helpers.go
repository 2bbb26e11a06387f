// Package tools implements the keysync MCP tool handlers.
//
// Each tool is a struct holding its dependencies, with Definition()
// returning the mcp.Tool schema and Handle() processing a call. Domain
// failures are reported as tool results, never as Go errors.
package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// stringSliceArg extracts a string array argument. JSON arrays arrive as
// []interface{}; non-string elements are skipped.
func stringSliceArg(req mcp.CallToolRequest, key string) []string {
	switch v := req.GetArguments()[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// requiredString returns a trimmed-non-empty string argument or a tool
// error naming it.
func requiredString(req mcp.CallToolRequest, key string) (string, *mcp.CallToolResult) {
	v := req.GetString(key, "")
	if strings.TrimSpace(v) == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("'%s' is required", key))
	}
	return v, nil
}

// bulletList renders items as a markdown list, one per line.
func bulletList(sb *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(sb, "- `%s`\n", item)
	}
}
