// Package difficulty turns per-quiz star scores into level transitions.
// The controller is deterministic: given the same score sequence it always
// produces the same transitions, which is what makes it testable.
package difficulty

import (
	"fmt"
	"time"

	"github.com/sehyoun/nihongobot/pkg/models"
)

// Controller evaluates a rolling window of quiz scores against promotion
// and demotion thresholds.
type Controller struct {
	// WindowSize caps the rolling window; the oldest score is evicted first.
	WindowSize int
	// MinEntries is how many scores must accumulate before a transition
	// is evaluated at all.
	MinEntries int
	// PromoteMean promotes when the window mean reaches it.
	PromoteMean float64
	// DemoteMean demotes when the window mean falls to it.
	DemoteMean float64
	// CorrectThreshold is the star score counted as a correct answer.
	CorrectThreshold int
}

// New returns a controller with the product defaults.
func New() *Controller {
	return &Controller{
		WindowSize:       10,
		MinEntries:       5,
		PromoteMean:      4.5,
		DemoteMean:       2.0,
		CorrectThreshold: 4,
	}
}

// Record appends stars to the profile's rolling window, updates the
// cumulative counters and evaluates a level transition. It returns the
// transition record, or nil when the level did not change. On a transition
// the window is cleared so the next evaluation starts from a clean
// baseline at the new level.
func (c *Controller) Record(profile *models.UserProfile, stars int, now time.Time) *models.LevelChange {
	profile.Window = append(profile.Window, stars)
	if len(profile.Window) > c.WindowSize {
		profile.Window = profile.Window[len(profile.Window)-c.WindowSize:]
	}

	profile.TotalQuizzes++
	if stars >= c.CorrectThreshold {
		profile.CorrectAnswers++
	}

	if len(profile.Window) < c.MinEntries {
		return nil
	}

	mean := windowMean(profile.Window)

	var to models.Level
	switch {
	case mean >= c.PromoteMean && profile.Level != models.Levels[len(models.Levels)-1]:
		to = profile.Level.Harder()
	case mean <= c.DemoteMean && profile.Level != models.Levels[0]:
		to = profile.Level.Easier()
	default:
		return nil
	}

	change := &models.LevelChange{
		From:      profile.Level,
		To:        to,
		Reason:    fmt.Sprintf("최근 평균 %.1f점으로 레벨이 %s에서 %s(으)로 변경되었습니다", mean, profile.Level, to),
		WindowAvg: mean,
		At:        now,
	}

	profile.History = append(profile.History, *change)
	profile.Window = nil
	profile.Level = to

	return change
}

func windowMean(window []int) float64 {
	sum := 0
	for _, s := range window {
		sum += s
	}
	return float64(sum) / float64(len(window))
}
