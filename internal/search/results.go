package search

import (
	"time"

	"github.com/ladle-sh/ladle/internal/models"
)

// Params are the caller-supplied search filters. Zero values mean
// "not filtered" except Limit, which defaults when unset.
type Params struct {
	Query        string   `json:"query"`
	Cuisines     []string `json:"cuisines,omitempty"`
	Difficulties []string `json:"difficulties,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	MaxPrepTime  *int     `json:"max_prep_time,omitempty"`
	MaxCookTime  *int     `json:"max_cook_time,omitempty"`
	Servings     *int     `json:"servings,omitempty"`
	// IsPublic nil: own recipes or public ones. Non-nil: exact filter
	// (false is additionally scoped to the caller's own recipes).
	IsPublic  *bool  `json:"is_public,omitempty"`
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// Sort keys accepted by the planner.
const (
	SortRelevance = "relevance"
	SortTitle     = "title"
	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
	SortPrepTime  = "prep_time"
	SortCookTime  = "cook_time"
	SortServings  = "servings"
)

// Facets are the distinct filter values available to the caller,
// independent of the current query.
type Facets struct {
	Cuisines     []string     `json:"cuisines"`
	Difficulties []string     `json:"difficulties"`
	Tags         []models.Tag `json:"tags"`
}

// Result is the composite search response.
type Result struct {
	Recipes []models.Recipe `json:"recipes"`
	Total   int64           `json:"total"`
	HasMore bool            `json:"has_more"`
	Filters Facets          `json:"filters"`

	// Strategy records which text strategy produced the candidates
	// ("" when the query was empty), for logging and diagnostics.
	Strategy string        `json:"-"`
	Duration time.Duration `json:"-"`
}
