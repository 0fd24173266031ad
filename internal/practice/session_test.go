package practice

import (
	"testing"
	"time"

	"github.com/sehyoun/nihongobot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeSessionWithinWindow(t *testing.T) {
	p := models.NewUserProfile(1)
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	StartSession(p, models.PracticeItem{ID: 7, JP: "文"}, created)

	session, err := TakeSession(p, created.Add(299*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(7), session.Item.ID)
	assert.Nil(t, p.Session, "evaluated session returns to idle")
}

func TestTakeSessionExpired(t *testing.T) {
	p := models.NewUserProfile(1)
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	StartSession(p, models.PracticeItem{ID: 7}, created)

	_, err := TakeSession(p, created.Add(301*time.Second))
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Nil(t, p.Session, "expired session is cleared")
}

func TestTakeSessionIdle(t *testing.T) {
	p := models.NewUserProfile(1)

	_, err := TakeSession(p, time.Now())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStartSessionOverwritesPending(t *testing.T) {
	p := models.NewUserProfile(1)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	StartSession(p, models.PracticeItem{ID: 1}, now)
	StartSession(p, models.PracticeItem{ID: 2}, now.Add(time.Minute))

	session, err := TakeSession(p, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), session.Item.ID, "a new session silently replaces the old one")
}
