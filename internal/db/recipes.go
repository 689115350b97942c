package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ladle-sh/ladle/internal/models"
)

// CreateRecipe creates a recipe with its child rows and tag associations.
// Missing ids and sort orders are assigned. The FTS index row is inserted
// by trigger inside the same transaction.
func (db *DB) CreateRecipe(recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = models.NewID()
	}
	recipe.Difficulty = models.NormalizeDifficulty(recipe.Difficulty)

	for i := range recipe.Ingredients {
		ing := &recipe.Ingredients[i]
		if ing.ID == "" {
			ing.ID = models.NewID()
		}
		ing.RecipeID = recipe.ID
		if ing.SortOrder == 0 {
			ing.SortOrder = i
		}
	}
	for i := range recipe.Instructions {
		step := &recipe.Instructions[i]
		if step.ID == "" {
			step.ID = models.NewID()
		}
		step.RecipeID = recipe.ID
		if step.StepNumber == 0 {
			step.StepNumber = i + 1
		}
	}
	for i := range recipe.Images {
		img := &recipe.Images[i]
		if img.ID == "" {
			img.ID = models.NewID()
		}
		img.RecipeID = recipe.ID
		if img.SortOrder == 0 {
			img.SortOrder = i
		}
	}
	for i := range recipe.Notes {
		note := &recipe.Notes[i]
		if note.ID == "" {
			note.ID = models.NewID()
		}
		note.RecipeID = recipe.ID
	}

	return db.Transaction(func(tx *DB) error {
		// Deduplicate tags into the global vocabulary first so the
		// association insert never creates conflicting names.
		tags := recipe.Tags
		recipe.Tags = nil

		if err := tx.Omit("Tags").Create(recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}

		if len(tags) > 0 {
			ensured, err := tx.EnsureTags(tagNames(tags))
			if err != nil {
				return err
			}
			if err := tx.Model(recipe).Association("Tags").Replace(ensured); err != nil {
				return fmt.Errorf("associate tags: %w", err)
			}
			recipe.Tags = ensured
		}

		return nil
	})
}

// UpdateRecipe updates the recipe row itself (title, description, cuisine,
// times, visibility). The FTS index row is updated by trigger in the same
// transaction. Child rows are managed through their own methods.
func (db *DB) UpdateRecipe(recipe *models.Recipe) error {
	recipe.Difficulty = models.NormalizeDifficulty(recipe.Difficulty)
	return db.Omit("Ingredients", "Instructions", "Images", "Notes", "Tags").
		Save(recipe).Error
}

// DeleteRecipe permanently deletes a recipe. Child rows go via FK cascade,
// the tag relation is cleared explicitly, and the trigger removes the
// index row, all in one transaction.
func (db *DB) DeleteRecipe(id string) error {
	return db.Transaction(func(tx *DB) error {
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete tag relations: %w", err)
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// SetArchived flips the archived flag. Archived recipes never appear in
// search results.
func (db *DB) SetArchived(id string, archived bool) error {
	return db.Model(&models.Recipe{}).
		Where("id = ?", id).
		Update("is_archived", archived).Error
}

// GetRecipe retrieves a recipe by id with all detail rows hydrated:
// ingredients by sort order, instructions by step, images by sort order,
// plus notes and tags.
func (db *DB) GetRecipe(id string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := db.
		Preload("Ingredients", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("recipe_ingredients.sort_order ASC")
		}).
		Preload("Instructions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("recipe_instructions.step_number ASC")
		}).
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("recipe_images.sort_order ASC")
		}).
		Preload("Notes").
		Preload("Tags").
		First(&recipe, "recipes.id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &recipe, nil
}

// GetRecipesByIDs hydrates a page of recipe ids into full detail records,
// preserving the input order.
func (db *DB) GetRecipesByIDs(ids []string) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}

	var recipes []models.Recipe
	err := db.
		Preload("Ingredients", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("recipe_ingredients.sort_order ASC")
		}).
		Preload("Instructions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("recipe_instructions.step_number ASC")
		}).
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("recipe_images.sort_order ASC")
		}).
		Preload("Tags").
		Where("recipes.id IN ?", ids).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	ordered := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered, nil
}

// GetRecipeByTitle finds a user's recipe by exact title, used by the
// importer to keep re-imports idempotent.
func (db *DB) GetRecipeByTitle(userID, title string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := db.First(&recipe, "user_id = ? AND title = ?", userID, title).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipesByUser returns a user's recipes, newest first.
func (db *DB) ListRecipesByUser(userID string, limit, offset int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := db.Preload("Tags").
		Where("user_id = ? AND is_archived = ?", userID, false).
		Order("recipes.updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	return recipes, err
}

// MatchRecipeIDs runs a single FTS5 MATCH expression against the index and
// returns non-archived recipe ids in relevance order, capped at limit.
// The match expression is the caller's responsibility; malformed
// expressions surface as errors.
func (db *DB) MatchRecipeIDs(match string, limit int) ([]string, error) {
	if strings.TrimSpace(match) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	var ids []string
	err := db.Raw(`
		SELECT r.id
		FROM recipes r
		JOIN recipes_fts fts ON r.rowid = fts.rowid
		WHERE recipes_fts MATCH ?
		  AND r.is_archived = 0
		ORDER BY bm25(recipes_fts, 10.0, 5.0, 3.0)
		LIMIT ?
	`, match, limit).Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("fts match: %w", err)
	}

	return ids, nil
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}
