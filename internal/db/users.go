package db

import (
	"gorm.io/gorm"

	"github.com/ladle-sh/ladle/internal/models"
)

// GetUser retrieves a user by id.
func (db *DB) GetUser(id string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// EnsureUser finds a user by username, creating one if absent. The CLI
// runs single-user by default; the serving layer hands ids straight from
// the upstream identity provider instead.
func (db *DB) EnsureUser(username string) (*models.User, error) {
	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user = models.User{
		ID:       models.NewID(),
		Username: username,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a user row with the given id. Used when the caller's
// identity provider dictates ids.
func (db *DB) CreateUser(user *models.User) error {
	if user.ID == "" {
		user.ID = models.NewID()
	}
	return db.Create(user).Error
}
