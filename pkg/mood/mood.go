// Package mood defines mood log entries and the Store that persists them.
package mood

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultUserID is recorded when a client does not identify itself.
const DefaultUserID = "anon"

// Entry is one mood log record.
type Entry struct {
	ID         string    `json:"id"`
	Collection string    `json:"collection"`
	UserID     string    `json:"userId"`
	Mood       string    `json:"mood"`
	Score      float64   `json:"score"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewEntry creates an Entry with a fresh random ID. An empty userID becomes
// DefaultUserID.
func NewEntry(collection, userID, mood string, score float64, note string, now time.Time) *Entry {
	if userID == "" {
		userID = DefaultUserID
	}
	return &Entry{
		ID:         uuid.NewString(),
		Collection: collection,
		UserID:     userID,
		Mood:       mood,
		Score:      score,
		Note:       note,
		CreatedAt:  now.UTC(),
	}
}

// Store persists mood entries.
type Store interface {
	// Put stores an entry. Entries are immutable: putting an existing ID is an error.
	Put(ctx context.Context, entry *Entry) error

	// Get retrieves an entry by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Entry, error)

	// List returns the entries of a collection, oldest first.
	List(ctx context.Context, collection string) ([]*Entry, error)

	// Close releases any resources.
	Close() error
}

// ErrNotFound is returned when an entry doesn't exist in the store.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	if e.ID == "" {
		return "mood entry not found"
	}

	return "mood entry not found: " + e.ID
}
