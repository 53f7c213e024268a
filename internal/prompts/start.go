// Package prompts implements the QuickChat MCP prompts.
//
// Prompts are user-triggered workflows (like slash commands) that tell
// the host which tools to call and in what order.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the quickchat-start MCP prompt.
// It walks a new or returning user through registration, login and a
// first message.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("quickchat-start",
		mcp.WithPromptDescription(
			"Start using QuickChat: register if needed, log in, "+
				"then compose and send a first message.",
		),
		mcp.WithArgument("username",
			mcp.ArgumentDescription("Your QuickChat username, if you already have one"),
		),
	)
}

// Handle processes the quickchat-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	username := ""
	if args := req.Params.Arguments; args != nil {
		username = args["username"]
	}

	var steps string
	if username == "" {
		steps = "1. Ask me for a username, password, cellphone number, first name and last name, then run `qc_register`\n" +
			"2. If any line of the feedback says a field is wrong, help me fix it and run `qc_register` again\n" +
			"3. Once registration succeeds, run `qc_login` with the same username and password\n"
	} else {
		steps = fmt.Sprintf("1. Ask me for my password and run `qc_login` with username='%s'\n"+
			"2. If login fails, offer to register a new account with `qc_register`\n"+
			"3. Run `qc_inbox` and tell me whether anything new arrived\n", username)
	}

	return &mcp.GetPromptResult{
		Description: "Start QuickChat",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"I want to use QuickChat.\n\n" +
						"Please:\n" +
						steps +
						"4. Ask who I want to message (+27 followed by nine digits) and what to say (at most 250 characters)\n" +
						"5. Ask whether to send it, store it for later or disregard it, then run `qc_compose` with that action\n" +
						"6. Finish with `qc_total_sent`",
				),
			},
		},
	}, nil
}
