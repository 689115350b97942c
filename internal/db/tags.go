package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ladle-sh/ladle/internal/models"
)

// EnsureTags upserts tag names into the global vocabulary and returns the
// canonical rows. Names are deduplicated case-insensitively via their slug.
func (db *DB) EnsureTags(names []string) ([]models.Tag, error) {
	seen := make(map[string]bool, len(names))
	tags := make([]models.Tag, 0, len(names))

	for _, name := range names {
		tag := models.NewTag(name)
		if tag.ID == "" || seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true

		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&tag).Error; err != nil {
			return nil, fmt.Errorf("upsert tag %s: %w", tag.Name, err)
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// GetTagByName retrieves a tag by its display name.
func (db *DB) GetTagByName(name string) (*models.Tag, error) {
	var tag models.Tag
	err := db.First(&tag, "id = ?", models.Slugify(name)).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// ListTags returns the whole tag vocabulary, alphabetical.
func (db *DB) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	err := db.Order("name ASC").Find(&tags).Error
	return tags, err
}

// RecipeIDsWithAllTags returns ids of non-archived recipes associated with
// every one of the given tag names (intersection semantics). An empty name
// set returns nil without querying.
func (db *DB) RecipeIDsWithAllTags(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	slugs := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		slug := models.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		slugs = append(slugs, slug)
	}
	if len(slugs) == 0 {
		return nil, nil
	}

	var ids []string
	err := db.Raw(`
		SELECT rt.recipe_id
		FROM recipe_tags rt
		JOIN recipes r ON r.id = rt.recipe_id
		WHERE rt.tag_id IN ? AND r.is_archived = 0
		GROUP BY rt.recipe_id
		HAVING COUNT(DISTINCT rt.tag_id) = ?
	`, slugs, len(slugs)).Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("tag intersection: %w", err)
	}

	return ids, nil
}

// DeleteUnusedTags removes vocabulary entries with no recipe associations.
func (db *DB) DeleteUnusedTags() (int64, error) {
	result := db.Exec(`
		DELETE FROM tags
		WHERE id NOT IN (SELECT DISTINCT tag_id FROM recipe_tags)
	`)
	return result.RowsAffected, result.Error
}
