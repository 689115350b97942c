package server

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ladle-sh/ladle/internal/log"
	"github.com/ladle-sh/ladle/internal/search"
)

// searchRequest mirrors the search query string. Validation happens
// before anything touches the database.
type searchRequest struct {
	Query       string `query:"q"`
	Cuisine     string `query:"cuisine"`
	Difficulty  string `query:"difficulty"`
	Tags        string `query:"tags"`
	MaxPrepTime *int   `query:"max_prep_time" validate:"omitempty,min=0"`
	MaxCookTime *int   `query:"max_cook_time" validate:"omitempty,min=0"`
	Servings    *int   `query:"servings" validate:"omitempty,min=1"`
	Public      *bool  `query:"public"`
	SortBy      string `query:"sort_by" validate:"omitempty,oneof=relevance title created_at updated_at prep_time cook_time servings"`
	SortOrder   string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
	Limit       int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset      int    `query:"offset" validate:"omitempty,min=0"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	if err := s.db.Ping(); err != nil {
		return errorResponse(c, fiber.StatusServiceUnavailable, "database unavailable")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	start := time.Now()

	var req searchRequest
	if err := c.QueryParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := s.validate.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	params := search.Params{
		Query:        req.Query,
		Cuisines:     splitList(req.Cuisine),
		Difficulties: splitList(req.Difficulty),
		Tags:         splitList(req.Tags),
		MaxPrepTime:  req.MaxPrepTime,
		MaxCookTime:  req.MaxCookTime,
		Servings:     req.Servings,
		IsPublic:     req.Public,
		SortBy:       req.SortBy,
		SortOrder:    req.SortOrder,
		Limit:        req.Limit,
		Offset:       req.Offset,
	}

	result, err := s.search.Search(c.Context(), userID, params)
	if err != nil {
		log.Errorf("api search user=%s: %v", userID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "search failed")
	}

	s.telemetry.TrackAPIRequest("/api/v1/search", fiber.StatusOK, time.Since(start).Milliseconds())
	s.telemetry.TrackSearchExecuted(
		int(result.Total),
		result.Strategy,
		result.Strategy == search.StrategyFallback,
		result.Duration.Milliseconds(),
	)

	return c.JSON(result)
}

func (s *Server) handleGetRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	recipe, err := s.db.GetRecipe(c.Params("id"))
	if err != nil {
		log.Errorf("api get recipe: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "lookup failed")
	}
	// Private recipes are only visible to their owner; a hidden recipe
	// is indistinguishable from a missing one.
	if recipe == nil || (!recipe.IsPublic && recipe.UserID != userID) {
		return errorResponse(c, fiber.StatusNotFound, "recipe not found")
	}

	return c.JSON(recipe)
}

func (s *Server) handleListHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	limit := c.QueryInt("limit", 0)
	if limit < 0 || limit > 100 {
		return errorResponse(c, fiber.StatusBadRequest, "limit out of range")
	}

	entries, err := s.search.ListHistory(userID, limit)
	if err != nil {
		log.Errorf("api list history user=%s: %v", userID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "history lookup failed")
	}

	return c.JSON(fiber.Map{"history": entries})
}

func (s *Server) handleDeleteHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	query, err := unescapeParam(c, "query")
	if err != nil || strings.TrimSpace(query) == "" {
		return errorResponse(c, fiber.StatusBadRequest, "invalid history query")
	}

	if err := s.search.DeleteHistoryEntry(userID, query); err != nil {
		log.Errorf("api delete history user=%s: %v", userID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "history delete failed")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleClearHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := s.search.ClearHistory(userID); err != nil {
		log.Errorf("api clear history user=%s: %v", userID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "history clear failed")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// splitList parses a comma-separated query value into trimmed entries.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// unescapeParam reads a URL path parameter with percent-decoding, so
// multi-word history queries round-trip through the route.
func unescapeParam(c *fiber.Ctx, name string) (string, error) {
	return url.PathUnescape(c.Params(name))
}
