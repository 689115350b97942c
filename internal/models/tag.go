package models

import "strings"

// Tag is a global deduplicated vocabulary entry for recipe categorization.
type Tag struct {
	ID   string `gorm:"primaryKey;size:100" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`

	Recipes []Recipe `gorm:"many2many:recipe_tags" json:"-"`
}

// TableName specifies the table name for GORM.
func (Tag) TableName() string {
	return "tags"
}

// Slugify turns a tag name into its canonical id form.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

// NewTag builds a tag with its canonical id from a display name.
func NewTag(name string) Tag {
	return Tag{
		ID:   Slugify(name),
		Name: strings.TrimSpace(name),
	}
}
