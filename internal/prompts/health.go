package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// HealthPrompt handles the keysync-health MCP prompt.
type HealthPrompt struct{}

// NewHealthPrompt creates a HealthPrompt.
func NewHealthPrompt() *HealthPrompt {
	return &HealthPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *HealthPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("keysync-health",
		mcp.WithPromptDescription(
			"Review the registry: mappings, collisions between documents that derive "+
				"the same logical address, and content store freshness.",
		),
	)
}

// Handle processes the keysync-health prompt request.
func (p *HealthPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "keysync registry health",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `keysync_stats` and report on the registry.\n\n" +
						"Then:\n" +
						"1. If it is not built, run `keysync_rebuild` first\n" +
						"2. List every collision and suggest which file to rename\n" +
						"3. If the content store is older than the last build, suggest `keysync_index`",
				),
			},
		},
	}, nil
}
