package difficulty

import (
	"testing"
	"time"

	"github.com/sehyoun/nihongobot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, c *Controller, p *models.UserProfile, scores ...int) *models.LevelChange {
	t.Helper()
	var last *models.LevelChange
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, s := range scores {
		last = c.Record(p, s, now)
		now = now.Add(time.Minute)
	}
	return last
}

func TestPromotionAtHighMean(t *testing.T) {
	c := New()
	p := models.NewUserProfile(1)
	p.Level = models.LevelN4

	change := record(t, c, p, 5, 5, 4, 5, 4) // mean 4.6

	require.NotNil(t, change)
	assert.Equal(t, models.LevelN4, change.From)
	assert.Equal(t, models.LevelN3, change.To)
	assert.Equal(t, models.LevelN3, p.Level)
	assert.InDelta(t, 4.6, change.WindowAvg, 0.001)
	assert.Empty(t, p.Window, "window resets after a transition")
	assert.Len(t, p.History, 1)
}

func TestDemotionAtLowMean(t *testing.T) {
	c := New()
	p := models.NewUserProfile(1)
	p.Level = models.LevelN3

	change := record(t, c, p, 2, 2, 2, 1, 2) // mean 1.8

	require.NotNil(t, change)
	assert.Equal(t, models.LevelN3, change.From)
	assert.Equal(t, models.LevelN4, change.To)
	assert.Empty(t, p.Window)
}

func TestNoChangeInsideBand(t *testing.T) {
	c := New()
	p := models.NewUserProfile(1)

	change := record(t, c, p, 3, 3, 4, 3, 3) // mean 3.2

	assert.Nil(t, change)
	assert.Equal(t, models.LevelN3, p.Level)
	assert.Len(t, p.Window, 5, "window must not reset without a transition")
}

func TestNoEvaluationBeforeMinEntries(t *testing.T) {
	c := New()
	p := models.NewUserProfile(1)

	change := record(t, c, p, 5, 5, 5, 5)

	assert.Nil(t, change)
	assert.Len(t, p.Window, 4)
}

func TestNoPromotionPastHardestLevel(t *testing.T) {
	c := New()
	p := models.NewUserProfile(1)
	p.Level = models.LevelN1

	change := record(t, c, p, 5, 5, 5, 5, 5)

	assert.Nil(t, change)
	assert.Equal(t, models.LevelN1, p.Level)
}

func TestNoDemotionPastEasiestLevel(t *testing.T) {
	c := New()
	p := models.NewUserProfile(1)
	p.Level = models.LevelN5

	change := record(t, c, p, 0, 0, 0, 0, 0)

	assert.Nil(t, change)
	assert.Equal(t, models.LevelN5, p.Level)
}

func TestWindowEviction(t *testing.T) {
	c := New()
	c.PromoteMean = 6 // keep transitions out of the way
	p := models.NewUserProfile(1)

	record(t, c, p, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 4, 4)

	require.Len(t, p.Window, 10)
	assert.Equal(t, []int{3, 3, 3, 3, 3, 3, 3, 3, 4, 4}, p.Window)
}

func TestCounters(t *testing.T) {
	c := New()
	p := models.NewUserProfile(1)

	record(t, c, p, 5, 4, 3, 0)

	assert.Equal(t, 4, p.TotalQuizzes)
	assert.Equal(t, 2, p.CorrectAnswers, "only stars >= 4 count as correct")
}

// A burst of perfect scores promotes, then the reset window accumulates
// the following low scores and demotes back.
func TestPromoteThenDemoteOnResetWindow(t *testing.T) {
	c := New()
	p := models.NewUserProfile(1)
	p.Level = models.LevelN3

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	scores := []int{5, 5, 5, 5, 5, 2, 2, 2, 2, 2}

	var changes []*models.LevelChange
	for i, s := range scores {
		if change := c.Record(p, s, now.Add(time.Duration(i)*time.Minute)); change != nil {
			changes = append(changes, change)
		}
	}

	require.Len(t, changes, 2)
	assert.Equal(t, models.LevelN2, changes[0].To, "promotion fires after the 5th score")
	assert.Equal(t, models.LevelN3, changes[1].To, "demotion evaluates against the reset window")
	assert.Equal(t, models.LevelN3, p.Level)
	assert.Len(t, p.History, 2)
}
