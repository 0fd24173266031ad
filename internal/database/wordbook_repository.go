package database

import (
	"fmt"
	"time"

	"github.com/sehyoun/nihongobot/pkg/models"
)

// WordbookRepository handles database operations for saved items
type WordbookRepository struct{}

// NewWordbookRepository creates a new repository instance
func NewWordbookRepository() *WordbookRepository {
	return &WordbookRepository{}
}

// Save adds an item to a user's wordbook. Returns false if the item was
// already saved; saving is idempotent either way.
func (r *WordbookRepository) Save(userID int64, item models.PracticeItem) (bool, error) {
	exists, err := r.Contains(userID, item.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = DB.Exec(rebind(`
		INSERT INTO wordbook (user_id, item_id, level, jp, kr, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), userID, item.ID, string(item.Level), item.JP, item.KR, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to save wordbook entry: %v", err)
	}
	return true, nil
}

// Remove deletes an item from a user's wordbook. Returns false when the
// item was not saved.
func (r *WordbookRepository) Remove(userID, itemID int64) (bool, error) {
	result, err := DB.Exec(rebind("DELETE FROM wordbook WHERE user_id = ? AND item_id = ?"), userID, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to remove wordbook entry: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %v", err)
	}
	return affected > 0, nil
}

// Contains reports whether the item is already in the user's wordbook
func (r *WordbookRepository) Contains(userID, itemID int64) (bool, error) {
	var count int
	err := DB.Get(&count, rebind("SELECT COUNT(*) FROM wordbook WHERE user_id = ? AND item_id = ?"), userID, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to check wordbook entry: %v", err)
	}
	return count > 0, nil
}

// List returns a user's saved items, oldest first
func (r *WordbookRepository) List(userID int64) ([]models.WordbookEntry, error) {
	var entries []models.WordbookEntry
	err := DB.Select(&entries, rebind(`
		SELECT user_id, item_id, level, jp, kr, saved_at
		FROM wordbook WHERE user_id = ? ORDER BY saved_at, item_id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wordbook: %v", err)
	}
	return entries, nil
}
