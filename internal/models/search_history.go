package models

import "time"

// SearchHistory records repeated search activity per user and normalized
// query. The query is stored lowercased and trimmed; RunCount increments
// on every repeat of the same query.
type SearchHistory struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         string    `gorm:"size:36;not null;uniqueIndex:idx_history_user_query,priority:1;index:idx_history_user_searched,priority:1" json:"user_id"`
	Query          string    `gorm:"size:255;not null;uniqueIndex:idx_history_user_query,priority:2" json:"query"`
	ResultsCount   int       `gorm:"default:0" json:"results_count"`
	RunCount       int       `gorm:"default:1" json:"run_count"`
	LastSearchedAt time.Time `gorm:"index:idx_history_user_searched,priority:2,sort:desc" json:"last_searched_at"`
}

// TableName specifies the table name for GORM.
func (SearchHistory) TableName() string {
	return "search_history"
}
