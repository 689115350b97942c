package db

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ladle-sh/ladle/internal/models"
)

// NormalizeQuery returns the canonical history key form of a query.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// RecordSearch upserts a search-history row keyed by (user, normalized
// query): first run inserts with RunCount 1, repeats bump RunCount, refresh
// ResultsCount and LastSearchedAt. Empty queries are never recorded.
func (db *DB) RecordSearch(userID, query string, resultsCount int) error {
	normalized := NormalizeQuery(query)
	if userID == "" || normalized == "" {
		return nil
	}

	entry := models.SearchHistory{
		UserID:         userID,
		Query:          normalized,
		ResultsCount:   resultsCount,
		RunCount:       1,
		LastSearchedAt: time.Now(),
	}

	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "query"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"results_count":    resultsCount,
			"run_count":        gorm.Expr("run_count + 1"),
			"last_searched_at": time.Now(),
		}),
	}).Create(&entry).Error
}

// ListSearchHistory returns the user's most recent entries, newest first.
func (db *DB) ListSearchHistory(userID string, limit int) ([]models.SearchHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []models.SearchHistory
	err := db.Where("user_id = ?", userID).
		Order("last_searched_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// DeleteSearchHistory removes one entry by its query text.
func (db *DB) DeleteSearchHistory(userID, query string) error {
	return db.Where("user_id = ? AND query = ?", userID, NormalizeQuery(query)).
		Delete(&models.SearchHistory{}).Error
}

// ClearSearchHistory removes all entries for a user.
func (db *DB) ClearSearchHistory(userID string) error {
	return db.Where("user_id = ?", userID).
		Delete(&models.SearchHistory{}).Error
}
