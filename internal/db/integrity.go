package db

import (
	"fmt"
)

// IntegrityReport holds orphan counts per category. The audit never
// mutates state; Cleanup performs the actual deletions.
type IntegrityReport struct {
	OrphanIngredients  int64 `json:"orphan_ingredients"`
	OrphanInstructions int64 `json:"orphan_instructions"`
	OrphanImages       int64 `json:"orphan_images"`
	OrphanNotes        int64 `json:"orphan_notes"`
	OrphanTagLinks     int64 `json:"orphan_tag_links"`
	RecipesWithoutUser int64 `json:"recipes_without_user"`
}

// Total returns the sum of all orphan counts.
func (r *IntegrityReport) Total() int64 {
	return r.OrphanIngredients + r.OrphanInstructions + r.OrphanImages +
		r.OrphanNotes + r.OrphanTagLinks + r.RecipesWithoutUser
}

// orphanChecks maps each category to the SQL that finds its strays.
var orphanChecks = []struct {
	name  string
	count string
	purge string
}{
	{
		name:  "ingredients",
		count: `SELECT COUNT(*) FROM recipe_ingredients WHERE recipe_id NOT IN (SELECT id FROM recipes)`,
		purge: `DELETE FROM recipe_ingredients WHERE recipe_id NOT IN (SELECT id FROM recipes)`,
	},
	{
		name:  "instructions",
		count: `SELECT COUNT(*) FROM recipe_instructions WHERE recipe_id NOT IN (SELECT id FROM recipes)`,
		purge: `DELETE FROM recipe_instructions WHERE recipe_id NOT IN (SELECT id FROM recipes)`,
	},
	{
		name:  "images",
		count: `SELECT COUNT(*) FROM recipe_images WHERE recipe_id NOT IN (SELECT id FROM recipes)`,
		purge: `DELETE FROM recipe_images WHERE recipe_id NOT IN (SELECT id FROM recipes)`,
	},
	{
		name:  "notes",
		count: `SELECT COUNT(*) FROM recipe_notes WHERE recipe_id NOT IN (SELECT id FROM recipes)`,
		purge: `DELETE FROM recipe_notes WHERE recipe_id NOT IN (SELECT id FROM recipes)`,
	},
	{
		name:  "tag links",
		count: `SELECT COUNT(*) FROM recipe_tags WHERE recipe_id NOT IN (SELECT id FROM recipes) OR tag_id NOT IN (SELECT id FROM tags)`,
		purge: `DELETE FROM recipe_tags WHERE recipe_id NOT IN (SELECT id FROM recipes) OR tag_id NOT IN (SELECT id FROM tags)`,
	},
	{
		name:  "recipes without user",
		count: `SELECT COUNT(*) FROM recipes WHERE user_id NOT IN (SELECT id FROM users)`,
		purge: `DELETE FROM recipes WHERE user_id NOT IN (SELECT id FROM users)`,
	},
}

// CheckIntegrity scans for child rows referencing a missing recipe and
// recipes referencing a missing owner, reporting counts without mutating.
func (db *DB) CheckIntegrity() (*IntegrityReport, error) {
	report := &IntegrityReport{}
	dests := []*int64{
		&report.OrphanIngredients,
		&report.OrphanInstructions,
		&report.OrphanImages,
		&report.OrphanNotes,
		&report.OrphanTagLinks,
		&report.RecipesWithoutUser,
	}

	for i, check := range orphanChecks {
		if err := db.Raw(check.count).Scan(dests[i]).Error; err != nil {
			return nil, fmt.Errorf("count orphan %s: %w", check.name, err)
		}
	}

	return report, nil
}

// CleanupOrphans deletes every orphan category found by CheckIntegrity and
// verifies the search index table exists and is queryable. Returns a
// report of how many rows were removed per category.
func (db *DB) CleanupOrphans() (*IntegrityReport, error) {
	report := &IntegrityReport{}
	dests := []*int64{
		&report.OrphanIngredients,
		&report.OrphanInstructions,
		&report.OrphanImages,
		&report.OrphanNotes,
		&report.OrphanTagLinks,
		&report.RecipesWithoutUser,
	}

	err := db.Transaction(func(tx *DB) error {
		for i, check := range orphanChecks {
			result := tx.Exec(check.purge)
			if result.Error != nil {
				return fmt.Errorf("purge orphan %s: %w", check.name, result.Error)
			}
			*dests[i] = result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The index must exist and answer queries after cleanup.
	var indexed int64
	if err := db.Raw(`SELECT COUNT(*) FROM recipes_fts`).Scan(&indexed).Error; err != nil {
		return nil, fmt.Errorf("verify search index: %w", err)
	}

	return report, nil
}
