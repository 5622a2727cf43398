package bus

import (
	"context"
	"sync"

	"github.com/shoppulse/pipeline/domain"
)

// MemoryBus is a channel-backed Publisher and Consumer in one. It exists for
// tests and the standalone simulator mode, where the generator and the
// consumer run in the same process.
type MemoryBus struct {
	ch     chan domain.Event
	once   sync.Once
	closed chan struct{}
}

// NewMemoryBus returns a bus buffering up to size undelivered events.
func NewMemoryBus(size int) *MemoryBus {
	if size <= 0 {
		size = 1024
	}
	return &MemoryBus{
		ch:     make(chan domain.Event, size),
		closed: make(chan struct{}),
	}
}

func (b *MemoryBus) Publish(ctx context.Context, events ...domain.Event) error {
	for _, event := range events {
		select {
		case b.ch <- event:
		case <-b.closed:
			return domain.NewError(domain.ErrCodeUnavailable, "bus closed")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *MemoryBus) Fetch(ctx context.Context) (Message, error) {
	select {
	case event := <-b.ch:
		return Message{Event: event}, nil
	case <-b.closed:
		return Message{}, domain.NewError(domain.ErrCodeUnavailable, "bus closed")
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (b *MemoryBus) Commit(ctx context.Context, msg Message) error {
	return nil
}

// Len reports the number of undelivered events.
func (b *MemoryBus) Len() int {
	return len(b.ch)
}

func (b *MemoryBus) Close() error {
	b.once.Do(func() { close(b.closed) })
	return nil
}
