package models

import "time"

// WordbookEntry is one saved practice item in a user's wordbook.
// An item ID appears at most once per user.
type WordbookEntry struct {
	UserID  int64     `json:"user_id" db:"user_id"`
	ItemID  int64     `json:"item_id" db:"item_id"`
	Level   Level     `json:"level" db:"level"`
	JP      string    `json:"jp" db:"jp"`
	KR      string    `json:"kr" db:"kr"`
	SavedAt time.Time `json:"saved_at" db:"saved_at"`
}
