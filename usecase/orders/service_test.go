package orders

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoppulse/pipeline/domain"
)

func TestProcessEnrichesTransaction(t *testing.T) {
	service := NewService(nil)
	tx := &domain.Transaction{
		TransactionID: "txn_1",
		CustomerID:    "cust_4242",
		Timestamp:     time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		TotalAmount:   domain.MustMoney("109.96"),
		PaymentMethod: "credit_card",
		Items: []domain.TransactionItem{
			{ProductID: "p1003", ProductName: "Sneakers", Category: "footwear", Price: domain.MustMoney("79.99"), Quantity: 1},
			{ProductID: "p1007", ProductName: "Socks", Category: "clothing", Price: domain.MustMoney("9.99"), Quantity: 3},
		},
		ShippingAddress: domain.ShippingAddress{State: "WA"},
	}

	event, err := service.Process(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, domain.KindOrderProcessed, event.Kind())

	var detail domain.OrderProcessedDetail
	require.NoError(t, json.Unmarshal(event.Detail, &detail))
	assert.Equal(t, "processed", detail.Status)
	assert.Equal(t, domain.FulfillmentWest, detail.FulfillmentCenter)
	assert.Equal(t, int64(4), detail.ItemCount)
	assert.Equal(t, 0, detail.AvgItemPrice.Cmp(domain.MustMoney("27.49")))
	assert.Equal(t, "2024-05-01T10:30:00Z", detail.Timestamp)
}

func TestProcessRejectsInvalidTransaction(t *testing.T) {
	service := NewService(nil)
	_, err := service.Process(context.Background(), &domain.Transaction{TransactionID: "txn_1"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
