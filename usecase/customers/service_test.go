package customers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository/memory"
)

func purchase(id string, amount string, day time.Time) *domain.Transaction {
	return &domain.Transaction{
		TransactionID: id,
		CustomerID:    "cust_1234",
		Timestamp:     day,
		TotalAmount:   domain.MustMoney(amount),
		PaymentMethod: "paypal",
		Items: []domain.TransactionItem{
			{ProductID: "p1001", Category: "clothing", Quantity: 1},
		},
		ShippingAddress: domain.ShippingAddress{State: "NY"},
	}
}

func TestAnalyzeNewThenRepeatCustomer(t *testing.T) {
	repo := memory.NewCustomerRepository()
	service := NewService(repo, nil)
	ctx := context.Background()

	event, err := service.Analyze(ctx, purchase("t1", "100.00", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, domain.KindCustomerAnalyzed, event.Kind())

	var detail domain.CustomerAnalyzedDetail
	require.NoError(t, json.Unmarshal(event.Detail, &detail))
	assert.Equal(t, domain.CustomerNew, detail.CustomerType)
	assert.Equal(t, "2024-05", detail.Cohort)
	assert.Equal(t, int64(1), detail.TotalPurchases)

	event, err = service.Analyze(ctx, purchase("t2", "150.00", time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(event.Detail, &detail))
	assert.Equal(t, domain.CustomerRepeat, detail.CustomerType)
	// The cohort is pinned to the first purchase month.
	assert.Equal(t, "2024-05", detail.Cohort)
	assert.Equal(t, int64(2), detail.TotalPurchases)
	assert.Equal(t, "250.00", detail.TotalSpent.String())
	assert.Equal(t, 0, detail.AverageOrderValue.Cmp(domain.MustMoney("125")))

	profile, err := repo.Get(ctx, "cust_1234")
	require.NoError(t, err)
	assert.Equal(t, domain.CustomerRepeat, profile.CustomerType)
}

func TestAnalyzeRejectsInvalidTransaction(t *testing.T) {
	service := NewService(memory.NewCustomerRepository(), nil)
	_, err := service.Analyze(context.Background(), &domain.Transaction{})
	require.Error(t, err)
}
