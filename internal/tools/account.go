package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/quickchat/internal/app"
	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterTool handles the qc_register MCP tool.
type RegisterTool struct {
	session *app.Session
}

// NewRegisterTool creates a RegisterTool.
func NewRegisterTool(session *app.Session) *RegisterTool {
	return &RegisterTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *RegisterTool) Definition() mcp.Tool {
	return mcp.NewTool("qc_register",
		mcp.WithDescription(
			"Register a new QuickChat user. Every field is checked and reported on its own line; "+
				"the user is only saved when all five pass.",
		),
		mcp.WithString("username",
			mcp.Required(),
			mcp.Description("At most five characters and must contain an underscore, e.g. 'kyl_1'"),
		),
		mcp.WithString("password",
			mcp.Required(),
			mcp.Description("At least eight characters with a capital letter, a number and one of !@#$%^&*()"),
		),
		mcp.WithString("cellphone",
			mcp.Required(),
			mcp.Description("South African number with international code: +27 followed by nine digits"),
		),
		mcp.WithString("first_name",
			mcp.Required(),
			mcp.Description("Letters only"),
		),
		mcp.WithString("last_name",
			mcp.Required(),
			mcp.Description("Letters only"),
		),
	)
}

// Handle processes the qc_register tool call.
func (t *RegisterTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fb, err := t.session.Register(
		req.GetString("username", ""),
		req.GetString("password", ""),
		req.GetString("cellphone", ""),
		req.GetString("first_name", ""),
		req.GetString("last_name", ""),
	)
	if err != nil {
		return errorResult(err), nil
	}
	if !fb.Registered {
		return mcp.NewToolResultError(fb.String()), nil
	}
	return mcp.NewToolResultText(fb.String()), nil
}

// LoginTool handles the qc_login MCP tool.
type LoginTool struct {
	session *app.Session
}

// NewLoginTool creates a LoginTool.
func NewLoginTool(session *app.Session) *LoginTool {
	return &LoginTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *LoginTool) Definition() mcp.Tool {
	return mcp.NewTool("qc_login",
		mcp.WithDescription(
			"Log in as a registered user. Loads every stored message the user sent or received. "+
				"Logging in as someone else replaces the current session.",
		),
		mcp.WithString("username",
			mcp.Required(),
			mcp.Description("Registered username"),
		),
		mcp.WithString("password",
			mcp.Required(),
			mcp.Description("Password, compared exactly"),
		),
	)
}

// Handle processes the qc_login tool call.
func (t *LoginTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username := req.GetString("username", "")
	if username == "" {
		return mcp.NewToolResultError("username is required"), nil
	}
	password := req.GetString("password", "")

	res, err := t.session.Login(username, password)
	if err != nil {
		return errorResult(err), nil
	}
	if !res.OK {
		return mcp.NewToolResultError(res.Greeting), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"%s\n\nSession: `%s`\nMessages loaded: %d",
		res.Greeting, res.SessionID, res.Loaded,
	)), nil
}

// LogoutTool handles the qc_logout MCP tool.
type LogoutTool struct {
	session *app.Session
}

// NewLogoutTool creates a LogoutTool.
func NewLogoutTool(session *app.Session) *LogoutTool {
	return &LogoutTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *LogoutTool) Definition() mcp.Tool {
	return mcp.NewTool("qc_logout",
		mcp.WithDescription("Log out the current user and drop the loaded messages."),
	)
}

// Handle processes the qc_logout tool call.
func (t *LogoutTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.session.Logout(); err != nil {
		if errors.Is(err, app.ErrNotLoggedIn) {
			return mcp.NewToolResultError("Nobody is logged in."), nil
		}
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("Logged out successfully."), nil
}
