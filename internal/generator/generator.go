// Package generator stocks the item store in bulk, walking every level
// and topic. It is a maintenance mode, not part of the serving path.
package generator

import (
	"fmt"
	"log"

	"github.com/sehyoun/nihongobot/internal/ai"
	"github.com/sehyoun/nihongobot/internal/itemstore"
	"github.com/sehyoun/nihongobot/internal/practice"
	"github.com/sehyoun/nihongobot/pkg/models"
)

// Options controls a batch generation run.
type Options struct {
	// PerTopicLevel is how many items to request per (level, topic) pair.
	PerTopicLevel int
}

// Run generates PerTopicLevel items for every level and topic and appends
// them to the store. Each append persists the collection, so an
// interrupted run keeps everything generated so far. Failed batches are
// logged and skipped; the count of stored items is returned.
func Run(store *itemstore.Store, provider ai.Provider, opts Options) (int, error) {
	if provider == nil {
		return 0, fmt.Errorf("batch generation requires a configured LLM provider")
	}
	if opts.PerTopicLevel <= 0 {
		opts.PerTopicLevel = 25
	}

	total := 0
	for _, level := range models.Levels {
		for _, topic := range practice.Topics {
			candidates := provider.GenerateItems(level, topic, opts.PerTopicLevel)
			if len(candidates) == 0 {
				log.Printf("generator: no items for %s/%s, skipping", level, topic)
				continue
			}

			for _, c := range candidates {
				item := models.PracticeItem{
					Level: level,
					JP:    c.JP,
					KR:    c.KR,
					Topic: topic,
				}
				if _, err := store.Append(item); err != nil {
					return total, fmt.Errorf("failed to store generated item: %v", err)
				}
				total++
			}
			log.Printf("generator: %s/%s stored %d items (total %d)", level, topic, len(candidates), total)
		}
	}

	return total, nil
}
