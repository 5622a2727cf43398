package buffer

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoppulse/pipeline/domain"
)

// Item is one event whose publish failed and is awaiting retry.
type Item struct {
	ID        string       `json:"id"`
	Event     domain.Event `json:"event"`
	Attempts  int          `json:"attempts"`
	LastError string       `json:"last_error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`

	bucketKey []byte
}

// NewItem wraps a failed event for queueing.
func NewItem(event domain.Event, cause error) Item {
	item := Item{
		ID:        uuid.NewString(),
		Event:     event,
		Timestamp: time.Now().UTC(),
	}
	if cause != nil {
		item.LastError = cause.Error()
	}
	return item
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now().UTC()
	}
}
