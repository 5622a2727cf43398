package bus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoppulse/pipeline/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishEncodesEventsWithHeaders(t *testing.T) {
	writer := &fakeWriter{}
	publisher := NewPublisherWithWriter(writer)

	event, err := domain.NewEvent(domain.SourceOrders, domain.DetailOrderProcessed, domain.OrderProcessedDetail{
		TransactionID: "txn_1",
		TotalAmount:   domain.MustMoney("19.99"),
	})
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(context.Background(), event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, []byte(domain.SourceOrders), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "source", msg.Headers[0].Key)
	assert.Equal(t, domain.SourceOrders, string(msg.Headers[0].Value))
	assert.Equal(t, "detail-type", msg.Headers[1].Key)
	assert.Equal(t, domain.DetailOrderProcessed, string(msg.Headers[1].Value))

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, domain.KindOrderProcessed, decoded.Kind())
}

func TestPublishPropagatesWriterError(t *testing.T) {
	writer := &fakeWriter{err: assert.AnError}
	publisher := NewPublisherWithWriter(writer)

	event, err := domain.NewEvent(domain.SourceOrders, domain.DetailOrderProcessed, struct{}{})
	require.NoError(t, err)
	assert.ErrorIs(t, publisher.Publish(context.Background(), event), assert.AnError)
}

func TestPublishNoEventsIsNoop(t *testing.T) {
	writer := &fakeWriter{}
	publisher := NewPublisherWithWriter(writer)
	require.NoError(t, publisher.Publish(context.Background()))
	assert.Empty(t, writer.messages)

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestMemoryBusRoundTrip(t *testing.T) {
	memBus := NewMemoryBus(4)
	ctx := context.Background()

	event, err := domain.NewEvent(domain.SourceInventory, domain.DetailInventoryAlert, domain.InventoryAlertDetail{ProductID: "p1003"})
	require.NoError(t, err)

	require.NoError(t, memBus.Publish(ctx, event))
	assert.Equal(t, 1, memBus.Len())

	msg, err := memBus.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.ID, msg.Event.ID)
	require.NoError(t, memBus.Commit(ctx, msg))
	assert.Equal(t, 0, memBus.Len())

	require.NoError(t, memBus.Close())
	err = memBus.Publish(ctx, event)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
	_, err = memBus.Fetch(ctx)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
}
