// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to search and manage the job index via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobfinder/jobfinder/internal/config"
	"github.com/jobfinder/jobfinder/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs JobFinder as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to search and manage the job index via stdio.

All tool calls run with the role configured in JOBFINDER_MCP_ROLE
(default: admin).`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  jobfinder mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "jobfinder": {
  #       "command": "jobfinder",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings and answer synthesis will not work")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	engine, store, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	server := mcpserver.NewMCPServer(
		"JobFinder Search",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, engine, cfg.MCPRole)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Printf("JobFinder MCP server starting on stdio (role: %s)...", cfg.MCPRole)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}
		if err := store.Close(); err != nil {
			log.Printf("Warning: Error closing storage: %v", err)
		}
		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
