// Package main provides the ladle-mcp server for MCP client integration.
//
// ladle-mcp exposes the recipe database via the Model Context Protocol,
// letting MCP-compatible clients search recipes, fetch details, and read
// the search history.
//
// Usage:
//
//	ladle-mcp [flags]
//
// The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ladle-sh/ladle/internal/config"
	"github.com/ladle-sh/ladle/internal/db"
	"github.com/ladle-sh/ladle/internal/mcp"
	"github.com/ladle-sh/ladle/internal/search"
	"github.com/ladle-sh/ladle/internal/telemetry"
	"github.com/ladle-sh/ladle/pkg/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("ladle-mcp %s\n", version.Short())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		printHelp()
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = database.Close()
	}()

	// MCP sessions are single-user; the acting account comes from
	// LADLE_USER and falls back to the local account name.
	username := os.Getenv("LADLE_USER")
	if username == "" {
		username = os.Getenv("USER")
	}
	if username == "" {
		username = "default"
	}
	user, err := database.EnsureUser(username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve user: %v\n", err)
		os.Exit(1)
	}

	telemetryClient := telemetry.New()
	defer telemetryClient.Close()

	searchSvc := search.New(database, search.DefaultConfig())

	server := mcp.NewServer(database, searchSvc, user.ID, telemetryClient)
	if err := server.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `ladle-mcp - MCP server for the Ladle recipe box

USAGE:
    ladle-mcp [FLAGS]

FLAGS:
    -h, --help       Print this help message
    -v, --version    Print version information

DESCRIPTION:
    ladle-mcp is a Model Context Protocol (MCP) server that exposes the
    Ladle recipe database to MCP-compatible clients.

    The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).

CONFIGURATION:
    Add to your client's MCP configuration:

    {
      "mcpServers": {
        "ladle": {
          "type": "stdio",
          "command": "ladle-mcp"
        }
      }
    }

    Set LADLE_USER to pick the acting account (defaults to $USER).

TOOLS PROVIDED:
    ladle_search          Search recipes with full-text search and filters
    ladle_get_recipe      Get full recipe details by id
    ladle_search_history  Get recent search history
    ladle_stats           Get database statistics
`
	fmt.Print(help)
}
