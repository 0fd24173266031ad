package models

// ItemSource marks where a delivered item came from.
type ItemSource string

const (
	// SourceGenerated marks an item produced by the LLM during delivery
	SourceGenerated ItemSource = "generated"
	// SourceStored marks an item drawn from the durable collection
	SourceStored ItemSource = "stored"
)

// TempIDBase is the start of the identity range used for generated-now items.
// Store IDs grow from 1, so the two ranges never collide.
const TempIDBase int64 = 1_000_000_000

// PracticeItem is a single practice sentence pair. Immutable once created.
type PracticeItem struct {
	ID     int64      `json:"id" db:"id"`
	Level  Level      `json:"level" db:"level"`
	JP     string     `json:"jp" db:"jp"`
	KR     string     `json:"kr" db:"kr"`
	Topic  string     `json:"topic,omitempty" db:"topic"`
	Source ItemSource `json:"-" db:"-"`
}

// IsTemporary reports whether the item carries a delivery-time identity
// rather than a durable store identity.
func (p PracticeItem) IsTemporary() bool {
	return p.ID >= TempIDBase
}
