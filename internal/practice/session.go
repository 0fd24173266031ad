package practice

import (
	"errors"
	"time"

	"github.com/sehyoun/nihongobot/pkg/models"
)

// SessionTTL is how long a pending quiz session stays gradeable.
const SessionTTL = 5 * time.Minute

// ErrNoSession means the user has no pending quiz to grade.
var ErrNoSession = errors.New("no pending quiz session")

// ErrSessionExpired means the pending session outlived its window; the
// submitted answer is discarded without evaluation.
var ErrSessionExpired = errors.New("quiz session expired")

// StartSession opens a pending session for the item. A prior pending
// session is silently discarded: the engine never evaluates two sessions
// for one user concurrently.
func StartSession(profile *models.UserProfile, item models.PracticeItem, now time.Time) {
	profile.Session = &models.QuizSession{
		Item:      item,
		CreatedAt: now,
	}
}

// TakeSession consumes the pending session for evaluation. Expiry is
// checked lazily here, on first read past the TTL: the session is cleared
// and ErrSessionExpired returned. A successful take also clears the
// session — both outcomes are terminal and return the user to idle.
func TakeSession(profile *models.UserProfile, now time.Time) (*models.QuizSession, error) {
	session := profile.Session
	if session == nil {
		return nil, ErrNoSession
	}

	profile.Session = nil

	if now.Sub(session.CreatedAt) > SessionTTL {
		return nil, ErrSessionExpired
	}
	return session, nil
}
