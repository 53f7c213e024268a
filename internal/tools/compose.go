package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/quickchat/internal/app"
	"github.com/HendryAvila/quickchat/internal/message"
	"github.com/mark3labs/mcp-go/mcp"
)

// ComposeTool handles the qc_compose MCP tool: it creates a message from
// the logged-in user and sends, stores or disregards it.
type ComposeTool struct {
	session *app.Session
}

// NewComposeTool creates a ComposeTool.
func NewComposeTool(session *app.Session) *ComposeTool {
	return &ComposeTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *ComposeTool) Definition() mcp.Tool {
	return mcp.NewTool("qc_compose",
		mcp.WithDescription(
			"Compose a message from the logged-in user. "+
				"'send' validates it, assigns the next index and hash, and saves it. "+
				"'store' saves it for later without sending. "+
				"'disregard' throws it away without saving anything.",
		),
		mcp.WithString("recipient",
			mcp.Required(),
			mcp.Description("Recipient cellphone: +27 followed by nine digits"),
		),
		mcp.WithString("payload",
			mcp.Required(),
			mcp.Description("Message text, 1 to 250 characters"),
		),
		mcp.WithString("action",
			mcp.Description("What to do with the message. Default: send"),
			mcp.Enum("send", "store", "disregard"),
		),
	)
}

// Handle processes the qc_compose tool call.
func (t *ComposeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipient := req.GetString("recipient", "")
	payload := req.GetString("payload", "")

	action, err := app.ParseAction(req.GetString("action", string(app.ActionSend)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	m, err := t.session.Compose(recipient, payload, action)
	if err != nil {
		return errorResult(err), nil
	}

	var response string
	switch action {
	case app.ActionSend:
		// The index is the counter value this send took, so the reply
		// describes this message even when other sends interleave.
		response = fmt.Sprintf(
			"%s\n\n%s\n\nTotal messages sent: %d",
			message.SendSuccess, m.Snapshot(), m.Index,
		)
	case app.ActionStore:
		response = fmt.Sprintf("Message stored for later.\n\nID: `%s`", m.ID)
	case app.ActionDisregard:
		response = "Message disregarded."
	}
	return mcp.NewToolResultText(response), nil
}
