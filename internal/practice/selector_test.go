package practice

import (
	"path/filepath"
	"testing"

	"github.com/sehyoun/nihongobot/internal/ai"
	"github.com/sehyoun/nihongobot/internal/itemstore"
	"github.com/sehyoun/nihongobot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a scripted ai.Provider for tests.
type fakeProvider struct {
	genItems  []ai.GeneratedItem
	genCalls  int
	feedback  string
	evalErr   error
	evalCalls int
	reading   string
}

func (f *fakeProvider) GenerateItems(level models.Level, topic string, count int) []ai.GeneratedItem {
	f.genCalls++
	return f.genItems
}

func (f *fakeProvider) EvaluateTranslation(sourceText, attempt, reference, langLabel string) (string, error) {
	f.evalCalls++
	return f.feedback, f.evalErr
}

func (f *fakeProvider) GenerateReading(sourceText string) string {
	return f.reading
}

func storeWithItems(t *testing.T, level models.Level, n int) *itemstore.Store {
	t.Helper()
	store := itemstore.New(filepath.Join(t.TempDir(), "items.json"))
	for i := 0; i < n; i++ {
		_, err := store.Append(models.PracticeItem{Level: level, JP: "文", KR: "문장"})
		require.NoError(t, err)
	}
	return store
}

func TestEmptyGenerationFallsBackToStore(t *testing.T) {
	store := storeWithItems(t, models.LevelN5, 3)
	provider := &fakeProvider{genItems: nil}

	s := NewSelector(store, provider, DefaultSelectorConfig())
	s.draw = func() float64 { return 0.5 } // force the realtime branch

	item, err := s.Select(models.LevelN5)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.genCalls, "generation must be attempted first")
	assert.Equal(t, models.SourceStored, item.Source)
	assert.False(t, item.IsTemporary())
	assert.True(t, s.Enabled(), "empty response must not disable realtime")
}

func TestUnconfiguredProviderDisablesRealtime(t *testing.T) {
	store := storeWithItems(t, models.LevelN5, 3)

	s := NewSelector(store, nil, DefaultSelectorConfig())
	s.draw = func() float64 { return 0.5 }

	item, err := s.Select(models.LevelN5)
	require.NoError(t, err)
	assert.Equal(t, models.SourceStored, item.Source)
	assert.False(t, s.Enabled(), "unconfigured provider clears the flag for the process")

	// Subsequent selects skip the realtime branch entirely.
	_, err = s.Select(models.LevelN5)
	require.NoError(t, err)
}

func TestLowStockForcesGenerationAttempt(t *testing.T) {
	store := storeWithItems(t, models.LevelN2, 3) // below the threshold of 10
	provider := &fakeProvider{}

	s := NewSelector(store, provider, DefaultSelectorConfig())
	s.draw = func() float64 { return 0.99 } // probability draw alone would skip

	_, err := s.Select(models.LevelN2)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.genCalls)
}

func TestWellStockedHighDrawSkipsGeneration(t *testing.T) {
	store := storeWithItems(t, models.LevelN3, 12)
	provider := &fakeProvider{}

	s := NewSelector(store, provider, DefaultSelectorConfig())
	s.draw = func() float64 { return 0.9 }

	item, err := s.Select(models.LevelN3)
	require.NoError(t, err)
	assert.Equal(t, 0, provider.genCalls)
	assert.Equal(t, models.SourceStored, item.Source)
}

func TestSuccessfulGeneration(t *testing.T) {
	store := storeWithItems(t, models.LevelN4, 1)
	provider := &fakeProvider{
		genItems: []ai.GeneratedItem{{JP: "新しい文", KR: "새 문장"}},
	}

	s := NewSelector(store, provider, DefaultSelectorConfig())
	s.draw = func() float64 { return 0.1 }

	item, err := s.Select(models.LevelN4)
	require.NoError(t, err)

	assert.Equal(t, models.SourceGenerated, item.Source)
	assert.True(t, item.IsTemporary(), "generated items carry a temporary identity")
	assert.Equal(t, "新しい文", item.JP)
	assert.NotEmpty(t, item.Topic)

	// A durable copy was appended under a permanent store identity.
	assert.Equal(t, 2, store.Len())
	copies := store.ByLevel(models.LevelN4)
	require.Len(t, copies, 2)
	for _, c := range copies {
		assert.False(t, c.IsTemporary())
	}
}

func TestEmptyLevelReportsNoItems(t *testing.T) {
	store := storeWithItems(t, models.LevelN5, 2)
	s := NewSelector(store, nil, DefaultSelectorConfig())
	s.draw = func() float64 { return 0.99 }
	s.SetRealtime(false)

	_, err := s.Select(models.LevelN1)
	assert.ErrorIs(t, err, itemstore.ErrNoItems)
}

func TestSetRealtime(t *testing.T) {
	store := storeWithItems(t, models.LevelN5, 0)
	s := NewSelector(store, nil, DefaultSelectorConfig())

	assert.True(t, s.Enabled())
	assert.False(t, s.SetRealtime(false))
	assert.False(t, s.Enabled())
	assert.True(t, s.SetRealtime(true))
}
