package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/quickchat/internal/app"
	"github.com/mark3labs/mcp-go/mcp"
)

// InboxTool handles the qc_inbox MCP tool.
type InboxTool struct {
	session *app.Session
}

// NewInboxTool creates an InboxTool.
func NewInboxTool(session *app.Session) *InboxTool {
	return &InboxTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *InboxTool) Definition() mcp.Tool {
	return mcp.NewTool("qc_inbox",
		mcp.WithDescription(
			"List the messages addressed to the logged-in user. "+
				"Messages shown for the first time are marked delivered.",
		),
	)
}

// Handle processes the qc_inbox tool call.
func (t *InboxTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inbox, err := t.session.Inbox()
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(listMessages("Your inbox:", "No messages in your inbox.", inbox)), nil
}

// ReadTool handles the qc_read MCP tool.
type ReadTool struct {
	session *app.Session
}

// NewReadTool creates a ReadTool.
func NewReadTool(session *app.Session) *ReadTool {
	return &ReadTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *ReadTool) Definition() mcp.Tool {
	return mcp.NewTool("qc_read",
		mcp.WithDescription("Open a message from your inbox by ID and mark it read."),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("Ten-digit message ID as shown by qc_inbox"),
		),
	)
}

// Handle processes the qc_read tool call.
func (t *ReadTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("message_id", "")
	if id == "" {
		return mcp.NewToolResultError("message_id is required"), nil
	}

	m, err := t.session.Read(id)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"From: %s\nTo: %s\nHash: %s\n\n%s",
		m.Sender, m.Recipient, m.Hash, m.Payload,
	)), nil
}
