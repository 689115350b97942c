package models

import "time"

// User is the owner of recipes. Identity and sessions are handled by an
// upstream provider; Ladle only stores the stable user id it is handed.
type User struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Username string `gorm:"size:100;uniqueIndex" json:"username"`
	Email    string `gorm:"size:255" json:"email,omitempty"`

	Recipes []Recipe `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
