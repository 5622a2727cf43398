// Package inventory applies transaction line items to per-product stock and
// raises alerts on threshold crossings.
package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

type Service struct {
	inventory repository.InventoryRepository
	logger    *zap.Logger
}

func NewService(inventory repository.InventoryRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{inventory: inventory, logger: logger}
}

// Track decrements stock for each line item and returns the derived events:
// at most one inventory_alert per product that crossed from normal to low,
// then a single inventory_updated summary. A product already low raises no
// further alerts.
func (s *Service) Track(ctx context.Context, tx *domain.Transaction) ([]domain.Event, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	var events []domain.Event
	var processed int64
	for _, item := range tx.Items {
		result, err := s.inventory.ApplySale(ctx, item)
		if err != nil {
			return events, err
		}
		processed += item.Quantity

		record := result.Record
		if result.PreviousStatus == domain.StockNormal && record.Status == domain.StockLow {
			alert, err := domain.NewEvent(domain.SourceInventory, domain.DetailInventoryAlert, domain.InventoryAlertDetail{
				ProductID:   record.ProductID,
				ProductName: record.ProductName,
				Category:    record.Category,
				StockLevel:  record.StockLevel,
			})
			if err != nil {
				return events, err
			}
			events = append(events, alert)
			s.logger.Warn("low stock",
				zap.String("product_id", record.ProductID),
				zap.Int64("stock_level", record.StockLevel),
			)
		}
	}

	summary, err := domain.NewEvent(domain.SourceInventory, domain.DetailInventoryUpdated, domain.InventoryUpdatedDetail{
		TransactionID:  tx.TransactionID,
		Timestamp:      tx.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		ItemsProcessed: processed,
	})
	if err != nil {
		return events, err
	}
	return append(events, summary), nil
}
