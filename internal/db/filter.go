package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ladle-sh/ladle/internal/models"
)

// RecipeFilter is the fully resolved predicate set for one search. The
// query planner fills it in; this layer only translates it to SQL.
type RecipeFilter struct {
	// UserID scopes visibility; always required.
	UserID string
	// IsPublic nil means "own recipes or public"; non-nil is an exact
	// filter, with false additionally scoped to the caller's own rows.
	IsPublic *bool

	// MatchedIDs are FTS candidate ids (already capped). Nil means no
	// index constraint; the planner never passes an empty non-nil slice.
	MatchedIDs []string
	// LikePattern, when non-empty, enables the structured substring
	// fallback across title/description/cuisine and child-row text.
	LikePattern string
	// TagRecipeIDs are the tag-intersection candidates. Nil means no tag
	// filter was requested.
	TagRecipeIDs []string

	Cuisines     []string
	Difficulties []string
	MaxPrepTime  *int
	MaxCookTime  *int
	Servings     *int

	// OrderBy is a validated "column direction" clause; empty omits
	// ORDER BY entirely (relevance sorting).
	OrderBy string

	Limit  int
	Offset int
}

// escapeLike escapes LIKE metacharacters so user text matches them
// literally. The fallback clauses pair it with ESCAPE '\'.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildRecipeQuery translates a filter into a fresh GORM query. Each call
// returns a new chain so count and page queries don't share state.
func (db *DB) buildRecipeQuery(f RecipeFilter) *gorm.DB {
	q := db.Model(&models.Recipe{}).Where("recipes.is_archived = ?", false)

	switch {
	case f.IsPublic == nil:
		q = q.Where("(recipes.user_id = ? OR recipes.is_public = ?)", f.UserID, true)
	case *f.IsPublic:
		q = q.Where("recipes.is_public = ?", true)
	default:
		// Private-only is always scoped to the caller's own recipes;
		// one user must never see another's private rows.
		q = q.Where("recipes.is_public = ? AND recipes.user_id = ?", false, f.UserID)
	}

	if f.MatchedIDs != nil {
		q = q.Where("recipes.id IN ?", f.MatchedIDs)
	}

	if f.LikePattern != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.LikePattern)) + "%"
		q = q.Where(`(
			LOWER(recipes.title) LIKE @p ESCAPE '\'
			OR LOWER(recipes.description) LIKE @p ESCAPE '\'
			OR LOWER(recipes.cuisine) LIKE @p ESCAPE '\'
			OR EXISTS (
				SELECT 1 FROM recipe_ingredients i
				WHERE i.recipe_id = recipes.id
				  AND (LOWER(i.name) LIKE @p ESCAPE '\' OR LOWER(i.notes) LIKE @p ESCAPE '\')
			)
			OR EXISTS (
				SELECT 1 FROM recipe_instructions s
				WHERE s.recipe_id = recipes.id AND LOWER(s.text) LIKE @p ESCAPE '\'
			)
			OR EXISTS (
				SELECT 1 FROM recipe_notes n
				WHERE n.recipe_id = recipes.id AND LOWER(n.content) LIKE @p ESCAPE '\'
			)
		)`, map[string]interface{}{"p": pattern})
	}

	if f.TagRecipeIDs != nil {
		q = q.Where("recipes.id IN ?", f.TagRecipeIDs)
	}

	if len(f.Cuisines) > 0 {
		q = q.Where("recipes.cuisine IN ?", f.Cuisines)
	}
	if len(f.Difficulties) > 0 {
		q = q.Where("recipes.difficulty IN ?", f.Difficulties)
	}
	if f.MaxPrepTime != nil {
		q = q.Where("recipes.prep_time_minutes <= ?", *f.MaxPrepTime)
	}
	if f.MaxCookTime != nil {
		q = q.Where("recipes.cook_time_minutes <= ?", *f.MaxCookTime)
	}
	if f.Servings != nil {
		q = q.Where("recipes.servings = ?", *f.Servings)
	}

	return q
}

// CountRecipes returns the total number of recipes matching the filter,
// ignoring pagination.
func (db *DB) CountRecipes(f RecipeFilter) (int64, error) {
	var total int64
	if err := db.buildRecipeQuery(f).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return total, nil
}

// FilterRecipeIDs returns the paginated id list for the filter. When
// f.OrderBy is empty no ORDER BY is emitted (relevance sorting relies on
// underlying ordering by design).
func (db *DB) FilterRecipeIDs(f RecipeFilter) ([]string, error) {
	q := db.buildRecipeQuery(f)
	if f.OrderBy != "" {
		q = q.Order(f.OrderBy)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var ids []string
	if err := q.Pluck("recipes.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("filter recipes: %w", err)
	}
	return ids, nil
}

// DistinctCuisines returns the cuisines present among recipes visible to
// the user (own plus public, non-archived), for filter faceting.
func (db *DB) DistinctCuisines(userID string) ([]string, error) {
	var cuisines []string
	err := db.Raw(`
		SELECT DISTINCT cuisine FROM recipes
		WHERE is_archived = 0
		  AND (user_id = ? OR is_public = 1)
		  AND cuisine <> ''
		ORDER BY cuisine
	`, userID).Scan(&cuisines).Error
	return cuisines, err
}

// DistinctDifficulties returns the difficulty values present among recipes
// visible to the user, ordered easy to hard.
func (db *DB) DistinctDifficulties(userID string) ([]string, error) {
	var difficulties []string
	err := db.Raw(`
		SELECT DISTINCT difficulty FROM recipes
		WHERE is_archived = 0
		  AND (user_id = ? OR is_public = 1)
		ORDER BY CASE difficulty
			WHEN 'easy' THEN 0
			WHEN 'medium' THEN 1
			WHEN 'hard' THEN 2
			ELSE 3
		END
	`, userID).Scan(&difficulties).Error
	return difficulties, err
}

// VisibleTags returns tags attached to at least one recipe visible to the
// user, alphabetical.
func (db *DB) VisibleTags(userID string) ([]models.Tag, error) {
	var tags []models.Tag
	err := db.Raw(`
		SELECT DISTINCT t.id, t.name
		FROM tags t
		JOIN recipe_tags rt ON rt.tag_id = t.id
		JOIN recipes r ON r.id = rt.recipe_id
		WHERE r.is_archived = 0
		  AND (r.user_id = ? OR r.is_public = 1)
		ORDER BY t.name
	`, userID).Scan(&tags).Error
	return tags, err
}
