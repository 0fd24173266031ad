// Package itemstore owns the durable flat collection of practice items.
// The collection is a single JSON file rewritten whole on every append;
// a reader never observes a partial write because the rewrite goes through
// a temp file and rename.
package itemstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/sehyoun/nihongobot/pkg/models"
)

// ErrNotFound is returned by ByID for an unknown item identity.
var ErrNotFound = errors.New("item not found")

// ErrNoItems is returned when a level has nothing stored.
var ErrNoItems = errors.New("no items available for level")

type fileFormat struct {
	Items []models.PracticeItem `json:"items"`
}

// Store is the in-memory view of the item collection plus its file path.
type Store struct {
	mu    sync.Mutex
	path  string
	items []models.PracticeItem
}

// New creates a store bound to path and loads it. A missing or unreadable
// file is not an error: the store starts empty and self-heals on the next
// append.
func New(path string) *Store {
	s := &Store{path: path}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("itemstore: cannot read %s, starting empty: %v", s.path, err)
		}
		s.items = nil
		return
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		log.Printf("itemstore: cannot parse %s, starting empty: %v", s.path, err)
		s.items = nil
		return
	}
	s.items = f.Items
}

// Reload re-reads the collection from disk, discarding in-memory state.
// Used after an out-of-band bulk import.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
}

// Len returns the total number of stored items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// CountByLevel returns how many items are stored at the given level.
func (s *Store) CountByLevel(level models.Level) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, item := range s.items {
		if item.Level == level {
			n++
		}
	}
	return n
}

// ByLevel returns all items tagged with the given level.
func (s *Store) ByLevel(level models.Level) []models.PracticeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PracticeItem
	for _, item := range s.items {
		if item.Level == level {
			out = append(out, item)
		}
	}
	return out
}

// ByID returns the item with the given identity or ErrNotFound.
func (s *Store) ByID(id int64) (models.PracticeItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.PracticeItem{}, ErrNotFound
}

// Append assigns the next identity (strictly greater than every identity
// ever observed, or 1 on an empty collection), adds the item and persists
// the whole collection. The assigned identity is returned.
func (s *Store) Append(item models.PracticeItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for _, existing := range s.items {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	item.ID = maxID + 1
	item.Source = models.SourceStored

	s.items = append(s.items, item)
	if err := s.persist(); err != nil {
		// Roll back the in-memory append so memory matches disk.
		s.items = s.items[:len(s.items)-1]
		return 0, err
	}
	return item.ID, nil
}

// persist writes the collection atomically. Callers hold s.mu.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(fileFormat{Items: s.items}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal items: %v", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create items directory: %v", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write items: %v", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace items file: %v", err)
	}
	return nil
}
