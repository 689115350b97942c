// Package mcp provides the Model Context Protocol server for Ladle.
//
// This package exposes the recipe database to MCP-compatible clients.
// It reuses the internal/db and internal/search packages so tool calls
// behave exactly like CLI and HTTP searches.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ladle-sh/ladle/internal/db"
	"github.com/ladle-sh/ladle/internal/search"
	"github.com/ladle-sh/ladle/internal/telemetry"
	"github.com/ladle-sh/ladle/pkg/version"
)

// Server wraps the MCP server with Ladle-specific functionality.
type Server struct {
	db        *db.DB
	search    *search.Service
	userID    string
	server    *server.MCPServer
	telemetry telemetry.Client
}

// NewServer creates a new MCP server instance. All tool calls run as the
// given user; MCP sessions are single-user by construction.
func NewServer(database *db.DB, searchSvc *search.Service, userID string, tc telemetry.Client) *Server {
	s := &Server{
		db:        database,
		search:    searchSvc,
		userID:    userID,
		telemetry: tc,
	}

	s.server = server.NewMCPServer(
		"ladle",
		version.Short(),
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// Serve starts the MCP server over stdio.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.server)
}

// registerTools adds all Ladle tools to the MCP server.
func (s *Server) registerTools() {
	s.server.AddTool(searchTool(), s.handleSearch)
	s.server.AddTool(getRecipeTool(), s.handleGetRecipe)
	s.server.AddTool(searchHistoryTool(), s.handleSearchHistory)
	s.server.AddTool(statsTool(), s.handleStats)
}
