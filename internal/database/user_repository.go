package database

import (
	"fmt"

	"github.com/sehyoun/nihongobot/pkg/models"
)

// UserRepository handles database operations for known users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Upsert registers a user, updating the name fields on repeat /start.
func (r *UserRepository) Upsert(user *models.User) error {
	var query string
	if DB.DriverName() == "postgres" {
		query = `
			INSERT INTO users (telegram_id, username, first_name)
			VALUES ($1, $2, $3)
			ON CONFLICT (telegram_id) DO UPDATE SET
				username = EXCLUDED.username,
				first_name = EXCLUDED.first_name,
				updated_at = NOW()
		`
	} else {
		query = `
			INSERT INTO users (telegram_id, username, first_name)
			VALUES (?, ?, ?)
			ON CONFLICT (telegram_id) DO UPDATE SET
				username = excluded.username,
				first_name = excluded.first_name,
				updated_at = CURRENT_TIMESTAMP
		`
	}

	_, err := DB.Exec(query, user.ID, user.Username, user.FirstName)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %v", err)
	}
	return nil
}

// GetByID returns a user by Telegram ID
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	var user models.User
	err := DB.Get(&user, rebind("SELECT telegram_id, username, first_name, notification_enabled, created_at, updated_at FROM users WHERE telegram_id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %v", err)
	}
	return &user, nil
}

// GetAllNotifiable returns every user with notifications enabled.
// The daily broadcast iterates this list.
func (r *UserRepository) GetAllNotifiable() ([]models.User, error) {
	var users []models.User
	err := DB.Select(&users, "SELECT telegram_id, username, first_name, notification_enabled, created_at, updated_at FROM users WHERE notification_enabled = true ORDER BY telegram_id")
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}
	return users, nil
}

// SetNotifications enables or disables the daily broadcast for a user
func (r *UserRepository) SetNotifications(id int64, enabled bool) error {
	_, err := DB.Exec(rebind("UPDATE users SET notification_enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE telegram_id = ?"), enabled, id)
	if err != nil {
		return fmt.Errorf("failed to update notifications: %v", err)
	}
	return nil
}
