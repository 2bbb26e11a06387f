// Package prompts implements the keysync MCP prompts.
//
// Prompts are user-triggered workflows: they hand the AI a short
// instruction sequence built on the keysync tools.
package prompts

import (
	"context"
	"fmt"

	"github.com/HendryAvila/keysync/internal/content"
	"github.com/mark3labs/mcp-go/mcp"
)

// LookupPrompt handles the keysync-lookup MCP prompt.
type LookupPrompt struct{}

// NewLookupPrompt creates a LookupPrompt.
func NewLookupPrompt() *LookupPrompt {
	return &LookupPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *LookupPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("keysync-lookup",
		mcp.WithPromptDescription(
			"Fetch a document by any spelling of its address, "+
				"rebuilding the registry once if the address is unknown.",
		),
		mcp.WithArgument("address",
			mcp.ArgumentDescription("Logical address, path or filename of the document"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("format",
			mcp.ArgumentDescription("full, summary or checklist. Default: full"),
		),
	)
}

// Handle processes the keysync-lookup prompt request.
func (p *LookupPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	address := req.Params.Arguments["address"]
	if address == "" {
		return nil, fmt.Errorf("prompts: keysync-lookup: address is required")
	}
	format := content.ParseFormat(req.Params.Arguments["format"])

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Look up %s", address),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Fetch the document %q.\n\n"+
						"1. Run `keysync_resolve` with address=%q and format=%q\n"+
						"2. If success is false because nothing is registered, run `keysync_rebuild` once and retry\n"+
						"3. If it still fails, run `keysync_aliases` on the address and tell me which spellings were tried\n"+
						"4. Otherwise show me the content and its canonical path",
					address, address, format,
				)),
			},
		},
	}, nil
}
