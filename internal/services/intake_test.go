package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/internal/infrastructure/buffer"
	"github.com/shoppulse/pipeline/internal/infrastructure/bus"
	"github.com/shoppulse/pipeline/repository/memory"
	"github.com/shoppulse/pipeline/usecase/customers"
	"github.com/shoppulse/pipeline/usecase/inventory"
	"github.com/shoppulse/pipeline/usecase/orders"
)

func newOutbox(t *testing.T) *buffer.Store {
	t.Helper()
	store, err := buffer.Open(filepath.Join(t.TempDir(), "outbox.db"), "outbox")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newIntake(t *testing.T, publisher bus.Publisher, outbox *buffer.Store) *Intake {
	t.Helper()
	return NewIntake(
		orders.NewService(nil),
		customers.NewService(memory.NewCustomerRepository(), nil),
		inventory.NewService(memory.NewInventoryRepository(), nil),
		publisher,
		outbox,
		nil,
		nil,
	)
}

func sampleTransaction() *domain.Transaction {
	return &domain.Transaction{
		TransactionID: "txn_1",
		CustomerID:    "cust_1234",
		Timestamp:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		TotalAmount:   domain.MustMoney("39.98"),
		PaymentMethod: "credit_card",
		Items: []domain.TransactionItem{
			{ProductID: "p1001", ProductName: "T-Shirt", Category: "clothing", Price: domain.MustMoney("19.99"), Quantity: 2},
		},
		ShippingAddress: domain.ShippingAddress{State: "NY"},
	}
}

func TestSubmitPublishesAllStageEvents(t *testing.T) {
	memBus := bus.NewMemoryBus(16)
	outbox := newOutbox(t)
	intake := newIntake(t, memBus, outbox)
	ctx := context.Background()

	require.NoError(t, intake.Submit(ctx, sampleTransaction()))

	// Order, customer analysis, and the inventory summary.
	assert.Equal(t, 3, memBus.Len())

	var kinds []domain.EventKind
	for memBus.Len() > 0 {
		msg, err := memBus.Fetch(ctx)
		require.NoError(t, err)
		kinds = append(kinds, msg.Event.Kind())
	}
	assert.Equal(t, []domain.EventKind{
		domain.KindOrderProcessed,
		domain.KindCustomerAnalyzed,
		domain.KindInventoryUpdated,
	}, kinds)

	size, err := outbox.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestSubmitBuffersEventsWhenPublishFails(t *testing.T) {
	memBus := bus.NewMemoryBus(16)
	require.NoError(t, memBus.Close())
	outbox := newOutbox(t)
	intake := newIntake(t, memBus, outbox)

	err := intake.Submit(context.Background(), sampleTransaction())
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))

	size, err := outbox.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	items, err := outbox.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Zero(t, item.Attempts)
		assert.NotEmpty(t, item.LastError)
	}
}

func TestSubmitRejectsInvalidTransaction(t *testing.T) {
	memBus := bus.NewMemoryBus(16)
	intake := newIntake(t, memBus, newOutbox(t))

	err := intake.Submit(context.Background(), &domain.Transaction{})
	require.Error(t, err)
	assert.Equal(t, 0, memBus.Len())
}
