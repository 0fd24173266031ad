// Package practice composes the item store, the generation fallback
// policy, the quiz session state machine and the difficulty controller
// into the two public delivery operations.
//
// The service assumes operations for one user never run concurrently:
// Telegram serializes callbacks per chat, so there is no lock around
// profile mutation. A genuinely concurrent host must add per-user
// serialization (a queue or mutex keyed by user ID) before calling in.
package practice

import (
	"log"
	"time"

	"github.com/sehyoun/nihongobot/internal/ai"
	"github.com/sehyoun/nihongobot/internal/database"
	"github.com/sehyoun/nihongobot/internal/difficulty"
	"github.com/sehyoun/nihongobot/internal/itemstore"
	"github.com/sehyoun/nihongobot/internal/kana"
	"github.com/sehyoun/nihongobot/pkg/models"
)

// GradeResult is the outcome of grading one submitted answer.
type GradeResult struct {
	Item     models.PracticeItem
	Stars    int
	Known    bool // false when no score was extractable from the feedback
	Feedback string
	Change   *models.LevelChange
}

// Service is the delivery orchestrator.
type Service struct {
	store      *itemstore.Store
	selector   *Selector
	controller *difficulty.Controller
	provider   ai.Provider
	profiles   *database.UserProfileRepository
	wordbook   *database.WordbookRepository
	now        func() time.Time
}

// NewService wires the orchestrator.
func NewService(store *itemstore.Store, selector *Selector, controller *difficulty.Controller, provider ai.Provider) *Service {
	return &Service{
		store:      store,
		selector:   selector,
		controller: controller,
		provider:   provider,
		profiles:   database.NewUserProfileRepository(),
		wordbook:   database.NewWordbookRepository(),
		now:        time.Now,
	}
}

// Profile returns the user's engine state, creating it on first contact.
func (s *Service) Profile(userID int64) (*models.UserProfile, error) {
	return s.profiles.Get(userID)
}

// SetLevel records an explicit level choice by the user and clears the
// rolling window, since old scores say nothing about the new level.
func (s *Service) SetLevel(userID int64, level models.Level) error {
	profile, err := s.profiles.Get(userID)
	if err != nil {
		return err
	}
	profile.Level = level
	profile.Window = nil
	return s.profiles.Save(profile)
}

// DeliverPractice produces one practice item for the user at the given
// level (the user's own level when empty) and remembers it as the last
// shown item so the practice view can be restored later.
func (s *Service) DeliverPractice(userID int64, level models.Level) (models.PracticeItem, error) {
	profile, err := s.profiles.Get(userID)
	if err != nil {
		return models.PracticeItem{}, err
	}
	if level == "" {
		level = profile.Level
	}

	item, err := s.selector.Select(level)
	if err != nil {
		return models.PracticeItem{}, err
	}

	profile.LastItem = &item
	if err := s.profiles.Save(profile); err != nil {
		return models.PracticeItem{}, err
	}
	return item, nil
}

// FindItem resolves an item identity for a user: the durable store first,
// then the user's last shown item, which covers generated-now items whose
// temporary identity never reaches the store index.
func (s *Service) FindItem(userID, itemID int64) (models.PracticeItem, error) {
	if item, err := s.store.ByID(itemID); err == nil {
		return item, nil
	}

	profile, err := s.profiles.Get(userID)
	if err != nil {
		return models.PracticeItem{}, err
	}
	if profile.LastItem != nil && profile.LastItem.ID == itemID {
		return *profile.LastItem, nil
	}
	if profile.Session != nil && profile.Session.Item.ID == itemID {
		return profile.Session.Item, nil
	}
	return models.PracticeItem{}, itemstore.ErrNotFound
}

// StartQuiz opens a pending evaluation for the item, replacing any prior
// pending session.
func (s *Service) StartQuiz(userID, itemID int64) (models.PracticeItem, error) {
	item, err := s.FindItem(userID, itemID)
	if err != nil {
		return models.PracticeItem{}, err
	}

	profile, err := s.profiles.Get(userID)
	if err != nil {
		return models.PracticeItem{}, err
	}

	StartSession(profile, item, s.now())
	if err := s.profiles.Save(profile); err != nil {
		return models.PracticeItem{}, err
	}
	return item, nil
}

// HasPendingQuiz reports whether free text from this user should be
// treated as a quiz answer. It does not consume the session.
func (s *Service) HasPendingQuiz(userID int64) bool {
	profile, err := s.profiles.Get(userID)
	if err != nil {
		return false
	}
	return profile.Session != nil
}

// GradeAnswer evaluates the user's attempted translation against the
// pending session. Expired sessions surface ErrSessionExpired (the answer
// is discarded); a missing session surfaces ErrNoSession. An evaluation
// whose score cannot be extracted is returned with Known=false and does
// not touch the difficulty window.
func (s *Service) GradeAnswer(userID int64, attempt string) (*GradeResult, error) {
	profile, err := s.profiles.Get(userID)
	if err != nil {
		return nil, err
	}

	session, err := TakeSession(profile, s.now())
	if err != nil {
		// The session slot was cleared either way; keep storage in step.
		if saveErr := s.profiles.Save(profile); saveErr != nil {
			log.Printf("practice: failed to persist cleared session for user %d: %v", userID, saveErr)
		}
		return nil, err
	}

	result := &GradeResult{Item: session.Item}

	if s.provider == nil {
		result.Feedback = "LLM 제공자가 설정되지 않아 평가할 수 없습니다."
	} else {
		feedback, err := s.provider.EvaluateTranslation(session.Item.JP, attempt, session.Item.KR, "일본어")
		if err != nil {
			log.Printf("practice: evaluation failed for user %d: %v", userID, err)
			result.Feedback = "평가 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
		} else {
			result.Feedback = feedback
			if stars, ok := ai.ExtractStars(feedback); ok {
				result.Stars = stars
				result.Known = true
			} else {
				log.Printf("practice: no extractable score in evaluation for user %d", userID)
			}
		}
	}

	if result.Known {
		// The score counts toward the user's current level, not the
		// session item's. The two differ only after a mid-session level
		// switch, and SetLevel clears the window, so at most one score
		// lands against the new level's empty window.
		result.Change = s.controller.Record(profile, result.Stars, s.now())
	}

	if err := s.profiles.Save(profile); err != nil {
		return nil, err
	}
	if result.Change != nil {
		if err := s.profiles.AppendHistory(userID, result.Change); err != nil {
			log.Printf("practice: failed to record level change for user %d: %v", userID, err)
		}
	}

	return result, nil
}

// SaveToWordbook saves an item into the user's wordbook. Returns false
// when it was already saved.
func (s *Service) SaveToWordbook(userID int64, item models.PracticeItem) (bool, error) {
	return s.wordbook.Save(userID, item)
}

// RemoveFromWordbook removes a saved item; false when it was not saved.
func (s *Service) RemoveFromWordbook(userID, itemID int64) (bool, error) {
	return s.wordbook.Remove(userID, itemID)
}

// Wordbook lists the user's saved items.
func (s *Service) Wordbook(userID int64) ([]models.WordbookEntry, error) {
	return s.wordbook.List(userID)
}

// ToggleRealtime flips realtime generation and returns the new state.
func (s *Service) ToggleRealtime(enabled bool) bool {
	return s.selector.SetRealtime(enabled)
}

// RealtimeEnabled reports the current realtime-generation state.
func (s *Service) RealtimeEnabled() bool {
	return s.selector.Enabled()
}

// Reading returns a kana reading for the item's source text, or "" when
// the provider is unconfigured or answered with mixed-script text.
func (s *Service) Reading(item models.PracticeItem) string {
	if s.provider == nil {
		return ""
	}
	reading := s.provider.GenerateReading(item.JP)
	if !kana.IsReading(reading) {
		if reading != "" {
			log.Printf("practice: rejected mixed-script reading for item %d", item.ID)
		}
		return ""
	}
	return reading
}

// ReloadStore re-reads the item collection from disk after an out-of-band
// bulk import.
func (s *Service) ReloadStore() {
	s.store.Reload()
}
