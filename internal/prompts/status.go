package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the quickchat-status MCP prompt.
// It asks the host to summarize the session and the user's messages.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("quickchat-status",
		mcp.WithPromptDescription(
			"Summarize the current QuickChat session: who is logged in, "+
				"new messages, and what has been sent.",
		),
	)
}

// Handle processes the quickchat-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "QuickChat Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please read the `quickchat://session/status` resource.\n\n" +
						"If nobody is logged in, tell me and suggest `qc_login`. Otherwise:\n" +
						"1. Run `qc_inbox` and list any messages I have not read yet\n" +
						"2. Run `qc_report` and summarize what I sent and what is still stored\n" +
						"3. Run `qc_longest` and show my longest message",
				),
			},
		},
	}, nil
}
