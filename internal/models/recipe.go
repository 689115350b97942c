// Package models defines the core data structures for Ladle.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recipe is a single recipe owned by one user.
type Recipe struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:36;index;not null" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"-"`

	Title       string `gorm:"size:255;index;not null" json:"title"`
	Description string `gorm:"size:2000" json:"description"`
	Cuisine     string `gorm:"size:100;index" json:"cuisine"`
	Difficulty  string `gorm:"size:20;index;default:medium" json:"difficulty"`

	Servings        int `gorm:"default:0" json:"servings"`
	PrepTimeMinutes int `gorm:"default:0" json:"prep_time_minutes"`
	CookTimeMinutes int `gorm:"default:0" json:"cook_time_minutes"`

	// Visibility: public recipes are searchable by everyone,
	// private recipes only by their owner.
	IsPublic   bool `gorm:"default:false;index" json:"is_public"`
	IsArchived bool `gorm:"default:false;index" json:"is_archived"`

	// Where the recipe was imported from, if anywhere.
	SourceURL string `gorm:"size:500" json:"source_url,omitempty"`

	Ingredients  []RecipeIngredient  `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
	Instructions []RecipeInstruction `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"instructions"`
	Images       []RecipeImage       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Notes        []RecipeNote        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"notes,omitempty"`
	Tags         []Tag               `gorm:"many2many:recipe_tags" json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Recipe) TableName() string {
	return "recipes"
}

// TotalTimeMinutes returns prep plus cook time.
func (r *Recipe) TotalTimeMinutes() int {
	return r.PrepTimeMinutes + r.CookTimeMinutes
}

// RecipeIngredient is a single ingredient line, ordered by SortOrder.
type RecipeIngredient struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	RecipeID  string  `gorm:"size:36;index;not null" json:"recipe_id"`
	Name      string  `gorm:"size:255;not null" json:"name"`
	Quantity  float64 `gorm:"default:0" json:"quantity"`
	Unit      string  `gorm:"size:50" json:"unit"`
	Notes     string  `gorm:"size:500" json:"notes,omitempty"`
	SortOrder int     `gorm:"default:0;index" json:"sort_order"`
}

// TableName specifies the table name for GORM.
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeInstruction is a single step, ordered by StepNumber.
type RecipeInstruction struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	RecipeID   string `gorm:"size:36;index;not null" json:"recipe_id"`
	StepNumber int    `gorm:"not null;index" json:"step_number"`
	Text       string `gorm:"type:text;not null" json:"text"`
}

// TableName specifies the table name for GORM.
func (RecipeInstruction) TableName() string {
	return "recipe_instructions"
}

// RecipeImage is a stored image reference, ordered by SortOrder.
type RecipeImage struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	RecipeID  string `gorm:"size:36;index;not null" json:"recipe_id"`
	Path      string `gorm:"size:500;not null" json:"path"`
	Alt       string `gorm:"size:255" json:"alt,omitempty"`
	SortOrder int    `gorm:"default:0;index" json:"sort_order"`
}

// TableName specifies the table name for GORM.
func (RecipeImage) TableName() string {
	return "recipe_images"
}

// RecipeNote is free-form user commentary attached to a recipe.
type RecipeNote struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	RecipeID  string    `gorm:"size:36;index;not null" json:"recipe_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (RecipeNote) TableName() string {
	return "recipe_notes"
}

// Difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulties returns all valid difficulty levels.
func ValidDifficulties() []string {
	return []string{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// NormalizeDifficulty lowercases and validates a difficulty value,
// returning DifficultyMedium for anything unrecognized.
func NormalizeDifficulty(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range ValidDifficulties() {
		if s == d {
			return d
		}
	}
	return DifficultyMedium
}

// NewID returns a fresh identifier for any Ladle entity.
func NewID() string {
	return uuid.New().String()
}

// RecipeStats provides aggregate statistics.
type RecipeStats struct {
	TotalRecipes  int64     `json:"total_recipes"`
	TotalTags     int64     `json:"total_tags"`
	TotalUsers    int64     `json:"total_users"`
	LastUpdated   time.Time `json:"last_updated"`
	StoreSizeByte int64     `json:"store_size_bytes"`
}
