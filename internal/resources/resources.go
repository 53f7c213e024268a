// Package resources implements the QuickChat MCP resources.
//
// Resources provide read-only views of the session that the host can
// pull in for context, addressed by quickchat:// URIs.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/quickchat/internal/app"
	"github.com/HendryAvila/quickchat/internal/reports"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	StatusURI = "quickchat://session/status"
	ReportURI = "quickchat://session/report"
)

// Handler serves the session resources.
type Handler struct {
	session *app.Session
}

// NewHandler creates a resource Handler over the session.
func NewHandler(session *app.Session) *Handler {
	return &Handler{session: session}
}

// StatusResource returns the MCP resource definition for session status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		StatusURI,
		"QuickChat Session Status",
		mcp.WithResourceDescription("Logged-in user, session id, loaded message count and send totals"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the session status as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(h.session.Status(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling status: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// ReportResource returns the MCP resource definition for the sender report.
func (h *Handler) ReportResource() mcp.Resource {
	return mcp.NewResource(
		ReportURI,
		"QuickChat Message Report",
		mcp.WithResourceDescription("Every message the logged-in user composed, with hash, recipient and status"),
		mcp.WithMIMEType("text/plain"),
	)
}

// HandleReport returns the full report for the logged-in user.
func (h *Handler) HandleReport(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	lines, err := h.session.Report()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return textResource(req.Params.URI, reports.FormatReport(lines)), nil
}
