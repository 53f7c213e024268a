// QuickChat: a single-user messaging utility served over MCP.
//
// Users register, log in, and compose messages to +27 cellphone numbers.
// Each message is sent, stored for later or disregarded, and kept as one
// JSON file on disk.
//
// Usage:
//
//	quickchat serve    # Start MCP server (stdio transport)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/HendryAvila/quickchat/internal/config"
	"github.com/HendryAvila/quickchat/internal/logging"
	qcserver "github.com/HendryAvila/quickchat/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("quickchat v%s\n", qcserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Logs go to stderr so they don't interfere with MCP's stdio
	// transport on stdout.
	logger := logging.Setup(cfg.LogLevel)

	s, cleanup, err := qcserver.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.ServeStdio(s) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `QuickChat v%s: messaging over MCP

Usage:
  quickchat serve    Start the MCP server (stdio transport)
  quickchat version  Print the version

Environment (also read from ./.env):
  QUICKCHAT_DATA_DIR       Where users and messages are kept (default ~/.quickchat)
  QUICKCHAT_USER_BACKEND   json (default) or sqlite
  LOG_LEVEL                DEBUG, INFO, WARN or ERROR (default INFO)

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "quickchat": {
        "command": "quickchat",
        "args": ["serve"]
      }
    }
  }
`, qcserver.Version)
}
