package models

import "time"

// QuizSession is a single pending evaluation. At most one exists per user;
// it is terminal once evaluated or expired.
type QuizSession struct {
	Item      PracticeItem `json:"item"`
	CreatedAt time.Time    `json:"created_at"`
}

// LevelChange records one promotion or demotion.
type LevelChange struct {
	From      Level     `json:"from" db:"from_level"`
	To        Level     `json:"to" db:"to_level"`
	Reason    string    `json:"reason" db:"reason"`
	WindowAvg float64   `json:"window_avg" db:"window_avg"`
	At        time.Time `json:"at" db:"created_at"`
}

// UserProfile holds everything the engine tracks per learner.
type UserProfile struct {
	UserID int64 `json:"user_id"`
	Level  Level `json:"level"`

	// Window keeps the most recent quiz scores, oldest first.
	Window         []int `json:"window"`
	TotalQuizzes   int   `json:"total_quizzes"`
	CorrectAnswers int   `json:"correct_answers"`

	History []LevelChange `json:"history"`

	// LastItem is the most recently shown practice item, kept so the
	// practice view can be restored without a live session.
	LastItem *PracticeItem `json:"last_item,omitempty"`

	// Session is the pending quiz evaluation, nil when idle.
	Session *QuizSession `json:"session,omitempty"`
}

// NewUserProfile returns a profile at the default starting level.
func NewUserProfile(userID int64) *UserProfile {
	return &UserProfile{
		UserID: userID,
		Level:  LevelN3,
	}
}
