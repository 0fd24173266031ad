package practice

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/sehyoun/nihongobot/internal/ai"
	"github.com/sehyoun/nihongobot/internal/itemstore"
	"github.com/sehyoun/nihongobot/pkg/models"
)

// Topics is the fixed topic set items are generated from.
var Topics = []string{
	"daily_life",
	"restaurant",
	"business",
	"travel",
	"shopping",
	"emergency",
	"education",
	"work",
}

// SelectorConfig carries the tuning constants of the fallback policy.
// They are product constants with no stated derivation; keep them
// configurable rather than baked in.
type SelectorConfig struct {
	// LowStockThreshold forces realtime generation while a level holds
	// fewer stored items than this, so no level is ever starved.
	LowStockThreshold int
	// RealtimeProbability is the chance of generating fresh even when a
	// level is well stocked, keeping repetition low.
	RealtimeProbability float64
}

// DefaultSelectorConfig returns the product defaults.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		LowStockThreshold:   10,
		RealtimeProbability: 0.8,
	}
}

// Selector decides, per delivery, between calling the generative service
// for a fresh item and drawing one from the store. It owns the
// process-wide realtime-enabled flag.
type Selector struct {
	store    *itemstore.Store
	provider ai.Provider
	cfg      SelectorConfig

	mu       sync.Mutex
	realtime bool
	rnd      *rand.Rand

	// draw and pickIndex are seams for tests; they default to rnd.
	draw      func() float64
	pickIndex func(n int) int
}

// NewSelector creates a selector. The realtime flag starts enabled; the
// first delivery that finds the provider unconfigured clears it for the
// remainder of the process.
func NewSelector(store *itemstore.Store, provider ai.Provider, cfg SelectorConfig) *Selector {
	s := &Selector{
		store:    store,
		provider: provider,
		cfg:      cfg,
		realtime: true,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.draw = s.rnd.Float64
	s.pickIndex = s.rnd.Intn
	return s
}

// Enabled reports the current realtime-generation state.
func (s *Selector) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.realtime
}

// SetRealtime flips the realtime flag and returns the new state.
func (s *Selector) SetRealtime(enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.realtime = enabled
	return s.realtime
}

// Select produces one practice item for the level. Generation failures of
// any kind fall back to the store; only an empty level is an error.
func (s *Selector) Select(level models.Level) (models.PracticeItem, error) {
	stored := s.store.CountByLevel(level)

	s.mu.Lock()
	attempt := s.realtime && (stored < s.cfg.LowStockThreshold || s.draw() < s.cfg.RealtimeProbability)
	s.mu.Unlock()

	if attempt {
		if item, ok := s.generate(level); ok {
			return item, nil
		}
	}

	return s.fromStore(level)
}

// generate asks the provider for one fresh item. ok is false when the
// caller should fall back to the store.
func (s *Selector) generate(level models.Level) (models.PracticeItem, bool) {
	if s.provider == nil {
		// Retrying a misconfiguration is pointless; stop attempting
		// generation for the rest of the process.
		log.Printf("practice: generative provider unconfigured, disabling realtime generation")
		s.SetRealtime(false)
		return models.PracticeItem{}, false
	}

	s.mu.Lock()
	topic := Topics[s.pickIndex(len(Topics))]
	tempID := models.TempIDBase + s.rnd.Int63n(models.TempIDBase)
	s.mu.Unlock()

	candidates := s.provider.GenerateItems(level, topic, 1)
	if len(candidates) == 0 {
		return models.PracticeItem{}, false
	}

	item := models.PracticeItem{
		ID:     tempID,
		Level:  level,
		JP:     candidates[0].JP,
		KR:     candidates[0].KR,
		Topic:  topic,
		Source: models.SourceGenerated,
	}

	// Opportunistically keep a durable copy. Losing it must not fail the
	// delivery; the store self-heals on the next generation.
	if _, err := s.store.Append(item); err != nil {
		log.Printf("practice: failed to persist generated item: %v", err)
	}

	return item, true
}

func (s *Selector) fromStore(level models.Level) (models.PracticeItem, error) {
	items := s.store.ByLevel(level)
	if len(items) == 0 {
		return models.PracticeItem{}, itemstore.ErrNoItems
	}

	s.mu.Lock()
	item := items[s.pickIndex(len(items))]
	s.mu.Unlock()

	item.Source = models.SourceStored
	return item, nil
}
