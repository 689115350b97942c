// Package search implements the recipe search engine: a query planner
// with a cascading strategy fallback over the FTS5 index, filter
// faceting, result hydration, and the per-user search-history ledger.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ladle-sh/ladle/internal/db"
	"github.com/ladle-sh/ladle/internal/log"
	"github.com/ladle-sh/ladle/internal/models"
)

// ErrNoUser is returned when a search is attempted without a caller id.
// No query is executed in that case.
var ErrNoUser = errors.New("search: user id required")

// Service runs searches against the recipe database.
type Service struct {
	db     *db.DB
	config Config
}

// Config holds search service configuration.
type Config struct {
	// DefaultLimit is used when the caller doesn't set a page size.
	DefaultLimit int
	// MaxLimit caps the page size.
	MaxLimit int
	// CandidateCap bounds FTS candidate ids before other filters apply.
	CandidateCap int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 20,
		MaxLimit:     100,
		CandidateCap: 100,
	}
}

// New creates a new search service.
func New(database *db.DB, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.CandidateCap <= 0 {
		cfg.CandidateCap = 100
	}

	return &Service{
		db:     database,
		config: cfg,
	}
}

// Search runs the full pipeline: tag intersection, strategy cascade,
// filtered count, hydration, facets, and the history upsert. Index errors
// degrade strategy by strategy; only unexpected database failure is fatal.
func (s *Service) Search(ctx context.Context, userID string, params Params) (*Result, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	start := time.Now()

	limit := params.Limit
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}
	if limit > s.config.MaxLimit {
		limit = s.config.MaxLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	result := &Result{Recipes: []models.Recipe{}}

	// Every query in the pipeline carries the caller's context so
	// HTTP/MCP cancellation reaches the driver.
	database := s.db.WithContext(ctx)

	// Tag filtering uses intersection semantics: a recipe must carry
	// every requested tag. Zero candidates short-circuit the main query.
	var tagIDs []string
	if len(params.Tags) > 0 {
		ids, err := database.RecipeIDsWithAllTags(params.Tags)
		if err != nil {
			log.Errorf("search failed user=%s tags=%v: %v", userID, params.Tags, err)
			return nil, fmt.Errorf("tag filter: %w", err)
		}
		if len(ids) == 0 {
			if err := s.finishEmpty(database, userID, params, result); err != nil {
				return nil, err
			}
			result.Duration = time.Since(start)
			return result, nil
		}
		tagIDs = ids
	}

	matchedIDs, likePattern, strategyName := s.planTextSearch(database, params.Query)
	result.Strategy = strategyName

	filter := db.RecipeFilter{
		UserID:       userID,
		IsPublic:     params.IsPublic,
		MatchedIDs:   matchedIDs,
		LikePattern:  likePattern,
		TagRecipeIDs: tagIDs,
		Cuisines:     params.Cuisines,
		Difficulties: params.Difficulties,
		MaxPrepTime:  params.MaxPrepTime,
		MaxCookTime:  params.MaxCookTime,
		Servings:     params.Servings,
		OrderBy:      resolveOrder(params.SortBy, params.SortOrder),
		Limit:        limit,
		Offset:       offset,
	}

	total, err := database.CountRecipes(filter)
	if err != nil {
		log.Errorf("search failed user=%s query=%q: %v", userID, params.Query, err)
		return nil, err
	}

	pageIDs, err := database.FilterRecipeIDs(filter)
	if err != nil {
		log.Errorf("search failed user=%s query=%q: %v", userID, params.Query, err)
		return nil, err
	}

	recipes, err := database.GetRecipesByIDs(pageIDs)
	if err != nil {
		log.Errorf("search hydration failed user=%s query=%q: %v", userID, params.Query, err)
		return nil, err
	}

	facets, err := s.facets(database, userID)
	if err != nil {
		log.Errorf("search facets failed user=%s: %v", userID, err)
		return nil, err
	}

	result.Recipes = recipes
	result.Total = total
	result.HasMore = int64(offset+limit) < total
	result.Filters = facets
	result.Duration = time.Since(start)

	s.recordHistory(userID, params.Query, total)

	return result, nil
}

// planTextSearch resolves the free-text query into either a capped FTS
// candidate id set or a substring fallback pattern. It returns at most one
// of the two. Strategies are tried in order; a strategy that errors or
// yields zero hits falls through to the next, and exhausting the cascade
// falls back to pattern matching with the original query text.
func (s *Service) planTextSearch(database *db.DB, query string) (matchedIDs []string, likePattern, strategyName string) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, "", ""
	}

	sanitized := sanitizeQuery(trimmed)
	if sanitized == "" {
		// Nothing indexable survives sanitization; match the original
		// text as a substring instead of throwing.
		return nil, trimmed, StrategyFallback
	}

	terms := strings.Fields(sanitized)
	for _, strat := range buildStrategies(terms) {
		ids, err := database.MatchRecipeIDs(strat.match, s.config.CandidateCap)
		if err != nil {
			// A failing strategy counts as zero hits for that strategy.
			log.Errorf("search strategy %s failed: %v", strat.name, err)
			continue
		}
		if len(ids) > 0 {
			return ids, "", strat.name
		}
	}

	return nil, trimmed, StrategyFallback
}

// finishEmpty fills the short-circuit result for a tag filter with no
// candidates: no main query runs, but facets and history still happen.
func (s *Service) finishEmpty(database *db.DB, userID string, params Params, result *Result) error {
	facets, err := s.facets(database, userID)
	if err != nil {
		log.Errorf("search facets failed user=%s: %v", userID, err)
		return err
	}
	result.Filters = facets
	result.Total = 0
	result.HasMore = false
	s.recordHistory(userID, params.Query, 0)
	return nil
}

// facets computes the distinct filter values visible to the user.
func (s *Service) facets(database *db.DB, userID string) (Facets, error) {
	cuisines, err := database.DistinctCuisines(userID)
	if err != nil {
		return Facets{}, fmt.Errorf("cuisine facets: %w", err)
	}
	difficulties, err := database.DistinctDifficulties(userID)
	if err != nil {
		return Facets{}, fmt.Errorf("difficulty facets: %w", err)
	}
	tags, err := database.VisibleTags(userID)
	if err != nil {
		return Facets{}, fmt.Errorf("tag facets: %w", err)
	}

	if cuisines == nil {
		cuisines = []string{}
	}
	if difficulties == nil {
		difficulties = []string{}
	}
	if tags == nil {
		tags = []models.Tag{}
	}

	return Facets{
		Cuisines:     cuisines,
		Difficulties: difficulties,
		Tags:         tags,
	}, nil
}

// recordHistory upserts the history ledger for non-empty queries. Failure
// to write history never fails the search.
func (s *Service) recordHistory(userID, query string, total int64) {
	if strings.TrimSpace(query) == "" {
		return
	}
	if err := s.db.RecordSearch(userID, query, int(total)); err != nil {
		log.Errorf("record search history user=%s: %v", userID, err)
	}
}

// resolveOrder maps a sort key to a validated ORDER BY clause. The
// relevance key (and anything unrecognized) maps to no ordering clause;
// there is no synthesized relevance score.
func resolveOrder(sortBy, sortOrder string) string {
	columns := map[string]string{
		SortTitle:     "recipes.title",
		SortCreatedAt: "recipes.created_at",
		SortUpdatedAt: "recipes.updated_at",
		SortPrepTime:  "recipes.prep_time_minutes",
		SortCookTime:  "recipes.cook_time_minutes",
		SortServings:  "recipes.servings",
	}

	column, ok := columns[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok {
		return ""
	}

	direction := "ASC"
	if strings.EqualFold(strings.TrimSpace(sortOrder), "desc") {
		direction = "DESC"
	}

	return column + " " + direction
}

// ListHistory returns the caller's most recent search-history entries.
func (s *Service) ListHistory(userID string, limit int) ([]models.SearchHistory, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	return s.db.ListSearchHistory(userID, limit)
}

// DeleteHistoryEntry removes one history entry by query text.
func (s *Service) DeleteHistoryEntry(userID, query string) error {
	if userID == "" {
		return ErrNoUser
	}
	return s.db.DeleteSearchHistory(userID, query)
}

// ClearHistory removes all history entries for the caller.
func (s *Service) ClearHistory(userID string) error {
	if userID == "" {
		return ErrNoUser
	}
	return s.db.ClearSearchHistory(userID)
}
