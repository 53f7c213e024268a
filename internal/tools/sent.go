package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/quickchat/internal/app"
	"github.com/mark3labs/mcp-go/mcp"
)

// SentTool handles the qc_sent MCP tool.
type SentTool struct {
	session *app.Session
}

// NewSentTool creates a SentTool.
func NewSentTool(session *app.Session) *SentTool {
	return &SentTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *SentTool) Definition() mcp.Tool {
	return mcp.NewTool("qc_sent",
		mcp.WithDescription("List the messages the logged-in user has sent."),
		mcp.WithBoolean("include_stored",
			mcp.Description("Also list messages stored for later. Default: false"),
		),
	)
}

// Handle processes the qc_sent tool call.
func (t *SentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if boolArg(req, "include_stored", false) {
		out, err := t.session.Outgoing()
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(listMessages("Your sent and stored messages:", "No sent or stored messages.", out)), nil
	}

	sent, err := t.session.Sent()
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(listMessages("Your sent messages:", "No sent messages.", sent)), nil
}

// LongestTool handles the qc_longest MCP tool.
type LongestTool struct {
	session *app.Session
}

// NewLongestTool creates a LongestTool.
func NewLongestTool(session *app.Session) *LongestTool {
	return &LongestTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *LongestTool) Definition() mcp.Tool {
	return mcp.NewTool("qc_longest",
		mcp.WithDescription("Show the longest message the logged-in user has sent."),
	)
}

// Handle processes the qc_longest tool call.
func (t *LongestTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, ok, err := t.session.Longest()
	if err != nil {
		return errorResult(err), nil
	}
	if !ok {
		return mcp.NewToolResultText("No sent messages."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Longest message: %s", m.Payload)), nil
}

// DeleteByHashTool handles the qc_delete_by_hash MCP tool.
type DeleteByHashTool struct {
	session *app.Session
}

// NewDeleteByHashTool creates a DeleteByHashTool.
func NewDeleteByHashTool(session *app.Session) *DeleteByHashTool {
	return &DeleteByHashTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteByHashTool) Definition() mcp.Tool {
	return mcp.NewTool("qc_delete_by_hash",
		mcp.WithDescription(
			"Delete one of your sent messages by its hash, e.g. '00:1:HITONIGHT'. "+
				"Matching ignores case. The message file is removed from disk.",
		),
		mcp.WithString("hash",
			mcp.Required(),
			mcp.Description("Message hash as shown by qc_sent or qc_report"),
		),
	)
}

// Handle processes the qc_delete_by_hash tool call.
func (t *DeleteByHashTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hash := req.GetString("hash", "")
	if hash == "" {
		return mcp.NewToolResultError("hash is required"), nil
	}

	m, err := t.session.DeleteByHash(hash)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Message %q successfully deleted.", m.Payload)), nil
}
