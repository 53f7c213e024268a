// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the concrete stores from the
// configuration and injects them into the session, tools, prompts and
// resources. No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HendryAvila/quickchat/internal/app"
	"github.com/HendryAvila/quickchat/internal/config"
	"github.com/HendryAvila/quickchat/internal/message"
	"github.com/HendryAvila/quickchat/internal/prompts"
	"github.com/HendryAvila/quickchat/internal/resources"
	"github.com/HendryAvila/quickchat/internal/tools"
	"github.com/HendryAvila/quickchat/internal/users"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Tool is the shape every handler in internal/tools has.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New creates the MCP server with every tool, prompt and resource
// registered.
//
// The returned cleanup function closes the user store when it holds a
// database connection and must be called on shutdown (typically via
// defer). It is always non-nil.
func New(cfg config.Config, logger *slog.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	// --- Create shared dependencies ---

	userStore, cleanup, err := openUserStore(cfg, logger)
	if err != nil {
		return nil, noop, err
	}

	dir, err := users.NewDirectory(userStore, logger)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("loading user directory: %w", err)
	}

	msgStore := message.NewFileStore(cfg.DataDir, logger)
	session := app.New(dir, msgStore, logger)

	logger.Info("quickchat ready",
		"data_dir", cfg.DataDir,
		"user_backend", string(cfg.UserBackend),
		"users", len(dir.All()),
	)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"quickchat",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	for _, t := range Tools(session) {
		s.AddTool(t.Definition(), t.Handle)
	}

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(session)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)
	s.AddResource(resourceHandler.ReportResource(), resourceHandler.HandleReport)

	return s, cleanup, nil
}

// Tools returns every QuickChat tool bound to the session, in the order
// they are registered.
func Tools(session *app.Session) []Tool {
	return []Tool{
		// --- Account ---
		tools.NewRegisterTool(session),
		tools.NewLoginTool(session),
		tools.NewLogoutTool(session),

		// --- Messaging ---
		tools.NewComposeTool(session),
		tools.NewInboxTool(session),
		tools.NewReadTool(session),

		// --- Reports ---
		tools.NewSentTool(session),
		tools.NewLongestTool(session),
		tools.NewDeleteByHashTool(session),
		tools.NewReportTool(session),
		tools.NewSearchTool(session),
		tools.NewTotalSentTool(session),
	}
}

// openUserStore creates the configured user backend.
func openUserStore(cfg config.Config, logger *slog.Logger) (users.Store, func(), error) {
	switch cfg.UserBackend {
	case config.BackendSQLite:
		st, err := users.NewSQLiteStore(cfg.DataDir)
		if err != nil {
			return nil, noop, fmt.Errorf("opening user database: %w", err)
		}
		cleanup := func() {
			if err := st.Close(); err != nil {
				logger.Warn("user store close", "error", err)
			}
		}
		return st, cleanup, nil
	default:
		return users.NewFileStore(cfg.DataDir), noop, nil
	}
}

// noop is the cleanup used when nothing needs closing.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use QuickChat.
func serverInstructions() string {
	return `You have access to QuickChat, a single-user messaging utility.
Messages are kept on disk; nothing is delivered over a network.

## Getting started
1. qc_register creates an account. Every field is checked and reported on its own line.
   - username: at most 5 characters, must contain an underscore
   - password: at least 8 characters, a capital letter, a number and one of !@#$%^&*()
   - cellphone: +27 followed by 9 digits
   - first_name / last_name: letters only
2. qc_login starts a session and loads the user's messages.
3. qc_logout ends it.

## Messages
- qc_compose creates a message from the logged-in user's cellphone.
  action=send validates and sends it (assigns an index and a hash such as 00:1:HITONIGHT),
  action=store keeps it for later, action=disregard throws it away.
- A send can fail with one of:
  "Failed to send message: Invalid recipient", "... Message content cannot be empty",
  "... Payload too long" (more than 250 characters). Show the reason to the user as is.
- qc_inbox lists messages addressed to the user and marks new ones delivered.
- qc_read opens one by ID and marks it read.

## Reports
- qc_sent (include_stored=true for drafts too), qc_longest, qc_report
- qc_search by message_id or recipient
- qc_delete_by_hash removes one of the user's sent messages
- qc_total_sent shows how many messages were sent since the server started

Never invent message IDs or hashes: take them from qc_inbox, qc_sent or qc_report output.`
}
