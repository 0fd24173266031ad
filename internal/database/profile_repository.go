package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sehyoun/nihongobot/pkg/models"
)

// UserProfileRepository persists per-user engine state
type UserProfileRepository struct{}

// NewUserProfileRepository creates a new repository instance
func NewUserProfileRepository() *UserProfileRepository {
	return &UserProfileRepository{}
}

// profileRow is the storage shape of a profile; window, last item and
// session travel as JSON text.
type profileRow struct {
	UserID         int64          `db:"user_id"`
	Level          string         `db:"level"`
	Window         string         `db:"score_window"`
	TotalQuizzes   int            `db:"total_quizzes"`
	CorrectAnswers int            `db:"correct_answers"`
	LastItem       sql.NullString `db:"last_item"`
	Session        sql.NullString `db:"session"`
}

// Get loads a profile, creating a default one on first access.
func (r *UserProfileRepository) Get(userID int64) (*models.UserProfile, error) {
	var row profileRow
	err := DB.Get(&row, rebind("SELECT user_id, level, score_window, total_quizzes, correct_answers, last_item, session FROM user_profiles WHERE user_id = ?"), userID)
	if err == sql.ErrNoRows {
		profile := models.NewUserProfile(userID)
		if err := r.Save(profile); err != nil {
			return nil, err
		}
		return profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %v", err)
	}

	profile := &models.UserProfile{
		UserID:         row.UserID,
		Level:          models.Level(row.Level),
		TotalQuizzes:   row.TotalQuizzes,
		CorrectAnswers: row.CorrectAnswers,
	}
	if err := json.Unmarshal([]byte(row.Window), &profile.Window); err != nil {
		// A corrupt window is recoverable: start tracking from scratch.
		profile.Window = nil
	}
	if row.LastItem.Valid && row.LastItem.String != "" {
		var item models.PracticeItem
		if err := json.Unmarshal([]byte(row.LastItem.String), &item); err == nil {
			profile.LastItem = &item
		}
	}
	if row.Session.Valid && row.Session.String != "" {
		var session models.QuizSession
		if err := json.Unmarshal([]byte(row.Session.String), &session); err == nil {
			profile.Session = &session
		}
	}

	history, err := r.getHistory(userID)
	if err != nil {
		return nil, err
	}
	profile.History = history

	return profile, nil
}

// Save writes the whole profile back. History records are appended through
// AppendHistory, not here.
func (r *UserProfileRepository) Save(profile *models.UserProfile) error {
	window, err := json.Marshal(profile.Window)
	if err != nil {
		return fmt.Errorf("failed to marshal window: %v", err)
	}
	if profile.Window == nil {
		window = []byte("[]")
	}

	var lastItem, session sql.NullString
	if profile.LastItem != nil {
		data, err := json.Marshal(profile.LastItem)
		if err != nil {
			return fmt.Errorf("failed to marshal last item: %v", err)
		}
		lastItem = sql.NullString{String: string(data), Valid: true}
	}
	if profile.Session != nil {
		data, err := json.Marshal(profile.Session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %v", err)
		}
		session = sql.NullString{String: string(data), Valid: true}
	}

	var query string
	if DB.DriverName() == "postgres" {
		query = `
			INSERT INTO user_profiles (user_id, level, score_window, total_quizzes, correct_answers, last_item, session)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id) DO UPDATE SET
				level = EXCLUDED.level,
				score_window = EXCLUDED.score_window,
				total_quizzes = EXCLUDED.total_quizzes,
				correct_answers = EXCLUDED.correct_answers,
				last_item = EXCLUDED.last_item,
				session = EXCLUDED.session,
				updated_at = NOW()
		`
	} else {
		query = `
			INSERT INTO user_profiles (user_id, level, score_window, total_quizzes, correct_answers, last_item, session)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET
				level = excluded.level,
				score_window = excluded.score_window,
				total_quizzes = excluded.total_quizzes,
				correct_answers = excluded.correct_answers,
				last_item = excluded.last_item,
				session = excluded.session,
				updated_at = CURRENT_TIMESTAMP
		`
	}

	_, err = DB.Exec(query, profile.UserID, string(profile.Level), string(window),
		profile.TotalQuizzes, profile.CorrectAnswers, lastItem, session)
	if err != nil {
		return fmt.Errorf("failed to save profile: %v", err)
	}
	return nil
}

// AppendHistory records one level transition.
func (r *UserProfileRepository) AppendHistory(userID int64, change *models.LevelChange) error {
	_, err := DB.Exec(rebind(`
		INSERT INTO level_history (user_id, from_level, to_level, reason, window_avg, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), userID, string(change.From), string(change.To), change.Reason, change.WindowAvg, change.At)
	if err != nil {
		return fmt.Errorf("failed to append level history: %v", err)
	}
	return nil
}

func (r *UserProfileRepository) getHistory(userID int64) ([]models.LevelChange, error) {
	var history []models.LevelChange
	err := DB.Select(&history, rebind(`
		SELECT from_level, to_level, reason, window_avg, created_at
		FROM level_history WHERE user_id = ? ORDER BY id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get level history: %v", err)
	}
	return history, nil
}
