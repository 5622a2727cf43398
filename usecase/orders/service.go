// Package orders turns raw transactions into enriched order events.
package orders

import (
	"context"

	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/domain"
)

type Service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Process validates a transaction, assigns its fulfillment center from the
// shipping state, and derives item statistics. The returned event is ready
// for publishing.
func (s *Service) Process(ctx context.Context, tx *domain.Transaction) (domain.Event, error) {
	if err := tx.Validate(); err != nil {
		return domain.Event{}, err
	}

	itemCount := tx.ItemCount()
	detail := domain.OrderProcessedDetail{
		TransactionID:     tx.TransactionID,
		Timestamp:         tx.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		CustomerID:        tx.CustomerID,
		Items:             tx.Items,
		TotalAmount:       tx.TotalAmount,
		PaymentMethod:     tx.PaymentMethod,
		Status:            "processed",
		FulfillmentCenter: domain.AssignFulfillmentCenter(tx.ShippingAddress.State),
		ItemCount:         itemCount,
	}
	if itemCount > 0 {
		detail.AvgItemPrice = tx.TotalAmount.Div(domain.MoneyFromInt64(itemCount))
	}

	event, err := domain.NewEvent(domain.SourceOrders, domain.DetailOrderProcessed, detail)
	if err != nil {
		return domain.Event{}, err
	}

	s.logger.Info("order processed",
		zap.String("transaction_id", tx.TransactionID),
		zap.String("fulfillment_center", detail.FulfillmentCenter),
		zap.Int64("item_count", itemCount),
	)
	return event, nil
}
