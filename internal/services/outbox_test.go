package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/internal/config"
	"github.com/shoppulse/pipeline/internal/infrastructure/buffer"
	"github.com/shoppulse/pipeline/internal/infrastructure/bus"
)

func outboxConfig() config.OutboxConfig {
	return config.OutboxConfig{
		DrainInterval:  time.Second,
		DrainBatchSize: 10,
		MaxRetry:       3,
	}
}

func bufferedEvent(t *testing.T, store *buffer.Store) domain.Event {
	t.Helper()
	event, err := domain.NewEvent(domain.SourceInventory, domain.DetailInventoryAlert, domain.InventoryAlertDetail{
		ProductID: "p1003", StockLevel: 15,
	})
	require.NoError(t, err)
	require.NoError(t, store.Enqueue(buffer.NewItem(event, nil)))
	return event
}

func TestDrainRepublishesBufferedEvents(t *testing.T) {
	store := newOutbox(t)
	event := bufferedEvent(t, store)

	memBus := bus.NewMemoryBus(16)
	processor := NewOutboxProcessor(store, memBus, outboxConfig(), nil, nil)

	require.NoError(t, processor.Drain(context.Background()))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	require.Equal(t, 1, memBus.Len())
	msg, err := memBus.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, event.ID, msg.Event.ID)
}

func TestDrainRequeuesFailedPublishes(t *testing.T) {
	store := newOutbox(t)
	bufferedEvent(t, store)

	memBus := bus.NewMemoryBus(16)
	require.NoError(t, memBus.Close())
	processor := NewOutboxProcessor(store, memBus, outboxConfig(), nil, nil)
	ctx := context.Background()

	require.NoError(t, processor.Drain(ctx))
	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Attempts)
	assert.NotEmpty(t, items[0].LastError)

	require.NoError(t, processor.Drain(ctx))
	items, err = store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Attempts)
}

func TestDrainDropsEventAfterRetryBudget(t *testing.T) {
	store := newOutbox(t)
	bufferedEvent(t, store)

	memBus := bus.NewMemoryBus(16)
	require.NoError(t, memBus.Close())
	processor := NewOutboxProcessor(store, memBus, outboxConfig(), nil, nil)
	ctx := context.Background()

	// MaxRetry 3: two requeues, then the third drain drops the item.
	for n := 0; n < 3; n++ {
		require.NoError(t, processor.Drain(ctx))
	}

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestDrainHonorsBatchSize(t *testing.T) {
	store := newOutbox(t)
	for n := 0; n < 5; n++ {
		bufferedEvent(t, store)
	}

	memBus := bus.NewMemoryBus(16)
	cfg := outboxConfig()
	cfg.DrainBatchSize = 2
	processor := NewOutboxProcessor(store, memBus, cfg, nil, nil)

	require.NoError(t, processor.Drain(context.Background()))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)
	assert.Equal(t, 2, memBus.Len())
}
