package metrics

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository/memory"
)

type recordingNotifier struct {
	alerts        int
	confirmations int
	rewards       int
}

func (n *recordingNotifier) InventoryAlert(ctx context.Context, detail *domain.InventoryAlertDetail) error {
	n.alerts++
	return nil
}

func (n *recordingNotifier) OrderConfirmation(ctx context.Context, detail *domain.OrderProcessedDetail) error {
	n.confirmations++
	return nil
}

func (n *recordingNotifier) LoyaltyReward(ctx context.Context, detail *domain.CustomerAnalyzedDetail) error {
	n.rewards++
	return nil
}

type recordingExporter struct {
	exports int
}

func (e *recordingExporter) Export(ctx context.Context, detail *domain.CustomerAnalyzedDetail) error {
	e.exports++
	return nil
}

func mustEvent(t *testing.T, source, detailType string, detail interface{}) domain.Event {
	t.Helper()
	event, err := domain.NewEvent(source, detailType, detail)
	require.NoError(t, err)
	return event
}

func TestRouteOrderProcessed(t *testing.T) {
	sales := memory.NewSalesRepository()
	notifier := &recordingNotifier{}
	router := NewRouter(NewAggregator(sales, memory.NewCohortRepository(), nil), notifier, nil, nil)

	event := mustEvent(t, domain.SourceOrders, domain.DetailOrderProcessed, orderDetail())
	handled, err := router.Route(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 1, notifier.confirmations)

	metric, err := sales.GetSales(context.Background(), domain.UnitDate, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), metric.TransactionCount)
}

func TestRouteCustomerAnalyzed(t *testing.T) {
	cohorts := memory.NewCohortRepository()
	notifier := &recordingNotifier{}
	exporter := &recordingExporter{}
	router := NewRouter(NewAggregator(memory.NewSalesRepository(), cohorts, nil), notifier, exporter, nil)

	event := mustEvent(t, domain.SourceCustomers, domain.DetailCustomerAnalyzed, domain.CustomerAnalyzedDetail{
		CustomerID:   "cust_1",
		CustomerType: domain.CustomerRepeat,
		Cohort:       "2024-05",
		TotalSpent:   domain.MustMoney("250.00"),
	})
	handled, err := router.Route(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 1, exporter.exports)
	assert.Equal(t, 1, notifier.rewards)

	insight, err := cohorts.GetCohort(context.Background(), "2024-05")
	require.NoError(t, err)
	assert.Equal(t, int64(1), insight.RepeatCustomers)
}

func TestRouteInventoryAlert(t *testing.T) {
	notifier := &recordingNotifier{}
	router := NewRouter(NewAggregator(memory.NewSalesRepository(), memory.NewCohortRepository(), nil), notifier, nil, nil)

	event := mustEvent(t, domain.SourceInventory, domain.DetailInventoryAlert, domain.InventoryAlertDetail{
		ProductID: "p1003", StockLevel: 15,
	})
	handled, err := router.Route(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 1, notifier.alerts)
}

func TestRouteInventoryUpdatedIsHandledWithoutSideEffects(t *testing.T) {
	notifier := &recordingNotifier{}
	router := NewRouter(NewAggregator(memory.NewSalesRepository(), memory.NewCohortRepository(), nil), notifier, nil, nil)

	event := mustEvent(t, domain.SourceInventory, domain.DetailInventoryUpdated, domain.InventoryUpdatedDetail{
		TransactionID: "t1", ItemsProcessed: 4,
	})
	handled, err := router.Route(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 0, notifier.alerts+notifier.confirmations+notifier.rewards)
}

func TestRouteUnknownEvent(t *testing.T) {
	router := NewRouter(NewAggregator(memory.NewSalesRepository(), memory.NewCohortRepository(), nil), nil, nil, nil)

	handled, err := router.Route(context.Background(), domain.Event{
		Source:     "com.ecommerce.returns",
		DetailType: "return_processed",
		Detail:     json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestRouteMalformedDetail(t *testing.T) {
	router := NewRouter(NewAggregator(memory.NewSalesRepository(), memory.NewCohortRepository(), nil), nil, nil, nil)

	handled, err := router.Route(context.Background(), domain.Event{
		Source:     domain.SourceOrders,
		DetailType: domain.DetailOrderProcessed,
		Detail:     json.RawMessage(`{"total_amount": "abc"}`),
	})
	assert.True(t, handled)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
