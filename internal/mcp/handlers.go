package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ladle-sh/ladle/internal/models"
	"github.com/ladle-sh/ladle/internal/search"
)

// Pagination constants for MCP tool handlers.
const (
	defaultSearchLimit  = 20
	maxSearchLimit      = 100
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// parseLimit extracts and validates a limit parameter from MCP tool arguments.
// Returns defaultVal if not present, caps at maxVal if exceeded.
func parseLimit(arguments map[string]interface{}, defaultVal, maxVal int) int {
	if l, ok := arguments["limit"].(float64); ok && l > 0 {
		limit := int(l)
		if limit > maxVal {
			return maxVal
		}
		return limit
	}
	return defaultVal
}

// optionalInt reads a numeric argument, nil when absent or non-positive.
func optionalInt(arguments map[string]interface{}, key string) *int {
	if v, ok := arguments[key].(float64); ok && v >= 0 {
		n := int(v)
		return &n
	}
	return nil
}

// stringArg reads a string argument, empty when absent.
func stringArg(arguments map[string]interface{}, key string) string {
	s, _ := arguments[key].(string)
	return s
}

// trackToolCall is a helper to track MCP tool invocations.
func (s *Server) trackToolCall(toolName string, start time.Time, success bool) {
	if s.telemetry != nil {
		s.telemetry.TrackMCPToolCalled(toolName, success, time.Since(start).Milliseconds())
	}
}

// RecipeResponse represents a recipe in MCP tool responses.
type RecipeResponse struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description,omitempty"`
	Cuisine         string               `json:"cuisine,omitempty"`
	Difficulty      string               `json:"difficulty"`
	Servings        int                  `json:"servings,omitempty"`
	PrepTimeMinutes int                  `json:"prep_time_minutes,omitempty"`
	CookTimeMinutes int                  `json:"cook_time_minutes,omitempty"`
	IsPublic        bool                 `json:"is_public"`
	SourceURL       string               `json:"source_url,omitempty"`
	Tags            []string             `json:"tags,omitempty"`
	Ingredients     []IngredientResponse `json:"ingredients,omitempty"`
	Instructions    []string             `json:"instructions,omitempty"`
	Notes           []string             `json:"notes,omitempty"`
}

// IngredientResponse represents one ingredient line.
type IngredientResponse struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// SearchResponse wraps a search result page.
type SearchResponse struct {
	Recipes  []RecipeResponse `json:"recipes"`
	Total    int64            `json:"total"`
	HasMore  bool             `json:"has_more"`
	Cuisines []string         `json:"available_cuisines,omitempty"`
	Tags     []string         `json:"available_tags,omitempty"`
}

// HistoryResponse represents one search-history entry.
type HistoryResponse struct {
	Query          string    `json:"query"`
	ResultsCount   int       `json:"results_count"`
	RunCount       int       `json:"run_count"`
	LastSearchedAt time.Time `json:"last_searched_at"`
}

// toRecipeResponse converts a models.Recipe, optionally with full detail.
func toRecipeResponse(recipe *models.Recipe, includeDetail bool) RecipeResponse {
	resp := RecipeResponse{
		ID:              recipe.ID,
		Title:           recipe.Title,
		Description:     recipe.Description,
		Cuisine:         recipe.Cuisine,
		Difficulty:      recipe.Difficulty,
		Servings:        recipe.Servings,
		PrepTimeMinutes: recipe.PrepTimeMinutes,
		CookTimeMinutes: recipe.CookTimeMinutes,
		IsPublic:        recipe.IsPublic,
		SourceURL:       recipe.SourceURL,
	}

	for _, tag := range recipe.Tags {
		resp.Tags = append(resp.Tags, tag.Name)
	}

	if !includeDetail {
		return resp
	}

	for _, ing := range recipe.Ingredients {
		resp.Ingredients = append(resp.Ingredients, IngredientResponse{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Notes:    ing.Notes,
		})
	}
	for _, step := range recipe.Instructions {
		resp.Instructions = append(resp.Instructions, step.Text)
	}
	for _, note := range recipe.Notes {
		resp.Notes = append(resp.Notes, note.Content)
	}

	return resp
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := req.Params.Arguments

	params := search.Params{
		Query:        stringArg(args, "query"),
		Cuisines:     splitList(stringArg(args, "cuisine")),
		Difficulties: splitList(stringArg(args, "difficulty")),
		Tags:         splitList(stringArg(args, "tags")),
		MaxPrepTime:  optionalInt(args, "max_prep_time"),
		MaxCookTime:  optionalInt(args, "max_cook_time"),
		Servings:     optionalInt(args, "servings"),
		SortBy:       stringArg(args, "sort_by"),
		SortOrder:    stringArg(args, "sort_order"),
		Limit:        parseLimit(args, defaultSearchLimit, maxSearchLimit),
	}
	if offset, ok := args["offset"].(float64); ok && offset > 0 {
		params.Offset = int(offset)
	}

	result, err := s.search.Search(ctx, s.userID, params)
	if err != nil {
		s.trackToolCall("ladle_search", start, false)
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	resp := SearchResponse{
		Recipes:  make([]RecipeResponse, 0, len(result.Recipes)),
		Total:    result.Total,
		HasMore:  result.HasMore,
		Cuisines: result.Filters.Cuisines,
	}
	for i := range result.Recipes {
		resp.Recipes = append(resp.Recipes, toRecipeResponse(&result.Recipes[i], false))
	}
	for _, tag := range result.Filters.Tags {
		resp.Tags = append(resp.Tags, tag.Name)
	}

	s.trackToolCall("ladle_search", start, true)
	return jsonResult(resp)
}

func (s *Server) handleGetRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	id, ok := req.Params.Arguments["id"].(string)
	if !ok || id == "" {
		s.trackToolCall("ladle_get_recipe", start, false)
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	recipe, err := s.db.GetRecipe(id)
	if err != nil {
		s.trackToolCall("ladle_get_recipe", start, false)
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if recipe == nil || (!recipe.IsPublic && recipe.UserID != s.userID) {
		s.trackToolCall("ladle_get_recipe", start, false)
		return mcp.NewToolResultError(fmt.Sprintf("recipe not found: %s", id)), nil
	}

	s.trackToolCall("ladle_get_recipe", start, true)
	return jsonResult(toRecipeResponse(recipe, true))
}

func (s *Server) handleSearchHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	limit := parseLimit(req.Params.Arguments, defaultHistoryLimit, maxHistoryLimit)

	entries, err := s.search.ListHistory(s.userID, limit)
	if err != nil {
		s.trackToolCall("ladle_search_history", start, false)
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	resp := make([]HistoryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, HistoryResponse{
			Query:          e.Query,
			ResultsCount:   e.ResultsCount,
			RunCount:       e.RunCount,
			LastSearchedAt: e.LastSearchedAt,
		})
	}

	s.trackToolCall("ladle_search_history", start, true)
	return jsonResult(resp)
}

func (s *Server) handleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	stats, err := s.db.GetStats()
	if err != nil {
		s.trackToolCall("ladle_stats", start, false)
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}

	s.trackToolCall("ladle_stats", start, true)
	return jsonResult(stats)
}

// jsonResult marshals a response payload into a text tool result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// splitList parses a comma-separated argument into trimmed entries.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
