package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

func TestApplySaleSeedsInitialStock(t *testing.T) {
	repo := NewInventoryRepository()
	ctx := context.Background()

	result, err := repo.ApplySale(ctx, domain.TransactionItem{
		ProductID: "p1001", ProductName: "T-Shirt", Category: "clothing", Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(97), result.Record.StockLevel)
	assert.Equal(t, int64(100), result.Record.InitialStock)
	assert.Equal(t, int64(3), result.Record.UnitsSoldTotal)
	assert.Equal(t, domain.StockNormal, result.Record.Status)
	assert.Equal(t, domain.StockNormal, result.PreviousStatus)
}

func TestApplySaleReportsPreviousStatus(t *testing.T) {
	repo := NewInventoryRepository()
	ctx := context.Background()

	// Draw the product down to 25, still normal.
	_, err := repo.ApplySale(ctx, domain.TransactionItem{ProductID: "p1003", Quantity: 75})
	require.NoError(t, err)

	// 25 -> 15 crosses the threshold.
	result, err := repo.ApplySale(ctx, domain.TransactionItem{ProductID: "p1003", Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, domain.StockNormal, result.PreviousStatus)
	assert.Equal(t, domain.StockLow, result.Record.Status)

	// Further sales stay low on both sides.
	result, err = repo.ApplySale(ctx, domain.TransactionItem{ProductID: "p1003", Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, domain.StockLow, result.PreviousStatus)
	assert.Equal(t, domain.StockLow, result.Record.Status)
}

func TestApplySaleConcurrentCrossingReportsOnce(t *testing.T) {
	repo := NewInventoryRepository()
	ctx := context.Background()

	// Draw the product down to 25, still normal.
	_, err := repo.ApplySale(ctx, domain.TransactionItem{ProductID: "p1003", Quantity: 75})
	require.NoError(t, err)

	// Two racing sales straddle the threshold; exactly one of them may
	// observe the normal-to-low crossing.
	results := make([]*repository.SaleResult, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := repo.ApplySale(ctx, domain.TransactionItem{ProductID: "p1003", Quantity: 10})
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	crossings := 0
	for _, result := range results {
		if result.PreviousStatus == domain.StockNormal && result.Record.Status == domain.StockLow {
			crossings++
		}
	}
	assert.Equal(t, 1, crossings)
}

func TestApplySaleFloorsAtZero(t *testing.T) {
	repo := NewInventoryRepository()
	ctx := context.Background()

	result, err := repo.ApplySale(ctx, domain.TransactionItem{ProductID: "p1005", Quantity: 250})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Record.StockLevel)
	assert.Equal(t, domain.StockLow, result.Record.Status)
}

func TestInventoryList(t *testing.T) {
	repo := NewInventoryRepository()
	ctx := context.Background()

	_, err := repo.ApplySale(ctx, domain.TransactionItem{ProductID: "p1001", Category: "clothing", Quantity: 90})
	require.NoError(t, err)
	_, err = repo.ApplySale(ctx, domain.TransactionItem{ProductID: "p1003", Category: "footwear", Quantity: 1})
	require.NoError(t, err)

	low, err := repo.List(ctx, repository.InventoryFilter{Status: domain.StockLow})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "p1001", low[0].ProductID)

	footwear, err := repo.List(ctx, repository.InventoryFilter{Category: "footwear"})
	require.NoError(t, err)
	require.Len(t, footwear, 1)
	assert.Equal(t, "p1003", footwear[0].ProductID)

	_, err = repo.Get(ctx, "p9999")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCustomerRepositoryRoundTrip(t *testing.T) {
	repo := NewCustomerRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, "cust_1")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	profile := &domain.CustomerProfile{
		CustomerID:         "cust_1",
		CustomerType:       domain.CustomerNew,
		TotalPurchases:     1,
		TotalSpent:         domain.MustMoney("59.98"),
		PurchaseCategories: []string{"clothing"},
	}
	require.NoError(t, repo.Upsert(ctx, profile))

	got, err := repo.Get(ctx, "cust_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalPurchases)
	assert.Equal(t, "59.98", got.TotalSpent.String())
	assert.False(t, got.UpdatedAt.IsZero())

	// Mutating the returned copy must not leak into the store.
	got.PurchaseCategories[0] = "mutated"
	fresh, err := repo.Get(ctx, "cust_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"clothing"}, fresh.PurchaseCategories)
}

func TestNotificationRepositoryOrderAndFilter(t *testing.T) {
	repo := NewNotificationRepository()
	ctx := context.Background()

	for _, n := range []domain.NotificationRecord{
		{Type: domain.NotificationInventoryAlert, Recipient: "inventory-manager", Message: "first"},
		{Type: domain.NotificationOrderConfirmation, Recipient: "cust_1", Message: "second"},
		{Type: domain.NotificationInventoryAlert, Recipient: "inventory-manager", Message: "third"},
	} {
		record := n
		require.NoError(t, repo.Create(ctx, &record))
		assert.NotEmpty(t, record.ID)
		assert.Equal(t, "sent", record.Status)
	}

	all, err := repo.List(ctx, repository.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)

	alerts, err := repo.List(ctx, repository.NotificationFilter{Type: domain.NotificationInventoryAlert, Limit: 1})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "third", alerts[0].Message)
}
