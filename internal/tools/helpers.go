// Package tools implements the QuickChat MCP tool handlers.
//
// Each tool is a struct holding the session it works on, with
// Definition() returning the mcp.Tool schema and Handle() processing
// the request.
//
// User-facing failures (bad input, not logged in, not found, failed
// validation, storage errors) come back as error results so the host can
// show them. A Go error is returned only when a handler cannot build a
// response at all.
package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/quickchat/internal/app"
	"github.com/HendryAvila/quickchat/internal/message"
	"github.com/HendryAvila/quickchat/internal/reports"
	"github.com/mark3labs/mcp-go/mcp"
)

const notLoggedIn = "You are not logged in. Use `qc_login` first."

// errorResult maps a session error onto the text shown to the user.
func errorResult(err error) *mcp.CallToolResult {
	var sendErr *message.SendError
	switch {
	case errors.Is(err, app.ErrNotLoggedIn):
		return mcp.NewToolResultError(notLoggedIn)
	case errors.As(err, &sendErr):
		return mcp.NewToolResultError(sendErr.Error())
	case errors.Is(err, reports.ErrNotFound):
		return mcp.NewToolResultError("Message not found.")
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Storage error: %v", err))
	}
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// listMessages renders one line per message under a header, or empty
// when there is nothing to list.
func listMessages(header, empty string, msgs []*message.Message) string {
	if len(msgs) == 0 {
		return empty
	}
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, m := range msgs {
		b.WriteString(m.String())
		b.WriteString("\n")
	}
	return b.String()
}
