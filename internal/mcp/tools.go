package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions for the Ladle MCP server.

// searchTool returns the ladle_search tool definition.
func searchTool() mcp.Tool {
	return mcp.NewTool("ladle_search",
		mcp.WithDescription("Search recipes using full-text search with relevance ranking. Supports filtering by cuisine, difficulty, tags, times, and servings."),
		mcp.WithString("query",
			mcp.Description("Free-text search query - matches titles, descriptions, cuisines, and falls back to ingredients and instructions"),
		),
		mcp.WithString("cuisine",
			mcp.Description("Filter by cuisine (comma-separated for multiple)"),
		),
		mcp.WithString("difficulty",
			mcp.Description("Filter by difficulty: easy, medium, hard (comma-separated for multiple)"),
		),
		mcp.WithString("tags",
			mcp.Description("Filter by tags (comma-separated, recipe must have all of them)"),
		),
		mcp.WithNumber("max_prep_time",
			mcp.Description("Maximum preparation time in minutes"),
		),
		mcp.WithNumber("max_cook_time",
			mcp.Description("Maximum cooking time in minutes"),
		),
		mcp.WithNumber("servings",
			mcp.Description("Exact number of servings"),
		),
		mcp.WithString("sort_by",
			mcp.Description("Sort key: relevance, title, created_at, updated_at, prep_time, cook_time, servings (default: relevance)"),
		),
		mcp.WithString("sort_order",
			mcp.Description("Sort direction: asc or desc (default: asc)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 20, max: 100)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of results to skip for pagination (default: 0)"),
		),
	)
}

// getRecipeTool returns the ladle_get_recipe tool definition.
func getRecipeTool() mcp.Tool {
	return mcp.NewTool("ladle_get_recipe",
		mcp.WithDescription("Get a recipe by id with full details: ingredients in order, numbered instructions, images, notes, and tags."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The recipe's unique id"),
		),
	)
}

// searchHistoryTool returns the ladle_search_history tool definition.
func searchHistoryTool() mcp.Tool {
	return mcp.NewTool("ladle_search_history",
		mcp.WithDescription("Get the user's recent search history, most recent first. Each entry records the query, how many times it ran, and the last result count."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default: 20, max: 100)"),
		),
	)
}

// statsTool returns the ladle_stats tool definition.
func statsTool() mcp.Tool {
	return mcp.NewTool("ladle_stats",
		mcp.WithDescription("Get database statistics including total recipes, tags, users, and store size."),
	)
}
