// Package bus moves events between pipeline stages. The production
// implementation rides on Kafka; an in-memory variant serves tests and the
// standalone simulator mode.
package bus

import (
	"context"

	"github.com/shoppulse/pipeline/domain"
)

// Publisher emits events to the bus. Publish is all-or-nothing per call;
// callers that need durability on failure hand rejected events to the outbox.
type Publisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
	Close() error
}

// Message pairs a decoded event with the transport token needed to
// acknowledge it.
type Message struct {
	Event domain.Event

	raw interface{}
}

// Consumer pulls events off the bus. Fetch blocks until a message arrives or
// the context is cancelled; Commit acknowledges a fetched message.
type Consumer interface {
	Fetch(ctx context.Context) (Message, error)
	Commit(ctx context.Context, msg Message) error
	Close() error
}
