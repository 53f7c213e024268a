package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/quickchat/internal/app"
	"github.com/HendryAvila/quickchat/internal/reports"
	"github.com/mark3labs/mcp-go/mcp"
)

// ReportTool handles the qc_report MCP tool.
type ReportTool struct {
	session *app.Session
}

// NewReportTool creates a ReportTool.
func NewReportTool(session *app.Session) *ReportTool {
	return &ReportTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("qc_report",
		mcp.WithDescription(
			"Full report of every message the logged-in user composed, sent or stored: "+
				"hash, recipient, message and status.",
		),
	)
}

// Handle processes the qc_report tool call.
func (t *ReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lines, err := t.session.Report()
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(reports.FormatReport(lines)), nil
}

// SearchTool handles the qc_search MCP tool.
type SearchTool struct {
	session *app.Session
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(session *app.Session) *SearchTool {
	return &SearchTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("qc_search",
		mcp.WithDescription(
			"Search the loaded messages by message ID or by recipient. "+
				"Provide exactly one of `message_id` or `recipient`.",
		),
		mcp.WithString("message_id",
			mcp.Description("Ten-digit message ID"),
		),
		mcp.WithString("recipient",
			mcp.Description("Recipient cellphone, +27 followed by nine digits"),
		),
	)
}

// Handle processes the qc_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("message_id", "")
	recipient := req.GetString("recipient", "")

	switch {
	case id != "" && recipient != "":
		return mcp.NewToolResultError("Provide either message_id or recipient, not both."), nil
	case id != "":
		m, err := t.session.SearchByID(id)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Recipient: %s\nMessage: %s", m.Recipient, m.Payload)), nil
	case recipient != "":
		found, err := t.session.SearchByRecipient(recipient)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(listMessages(
			fmt.Sprintf("Messages to %s:", recipient),
			fmt.Sprintf("No messages found for %s.", recipient),
			found,
		)), nil
	default:
		return mcp.NewToolResultError("Provide message_id or recipient."), nil
	}
}

// TotalSentTool handles the qc_total_sent MCP tool.
type TotalSentTool struct {
	session *app.Session
}

// NewTotalSentTool creates a TotalSentTool.
func NewTotalSentTool(session *app.Session) *TotalSentTool {
	return &TotalSentTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *TotalSentTool) Definition() mcp.Tool {
	return mcp.NewTool("qc_total_sent",
		mcp.WithDescription(
			"How many messages have been sent since the server started, and the last one sent.",
		),
	)
}

// Handle processes the qc_total_sent tool call.
func (t *TotalSentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(fmt.Sprintf(
		"Total messages sent: %d\nLast sent: %s",
		t.session.TotalSent(), t.session.LastSent(),
	)), nil
}
