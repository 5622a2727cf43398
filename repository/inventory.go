package repository

import (
	"context"

	"github.com/shoppulse/pipeline/domain"
)

// SaleResult reports an applied stock decrement. PreviousStatus lets the
// caller detect a normal-to-low crossing without a second read.
type SaleResult struct {
	Record         *domain.InventoryRecord
	PreviousStatus domain.StockStatus
}

// InventoryFilter narrows inventory listings.
type InventoryFilter struct {
	Status   domain.StockStatus
	Category string
	Limit    int
}

// InventoryRepository persists per-product stock state.
//
// ApplySale atomically decrements the stock level by the item quantity,
// floored at zero, seeding an absent product with the default initial stock.
// The decrement and the create-if-absent path are one store-side operation.
type InventoryRepository interface {
	ApplySale(ctx context.Context, item domain.TransactionItem) (*SaleResult, error)
	Get(ctx context.Context, productID string) (*domain.InventoryRecord, error)
	List(ctx context.Context, filter InventoryFilter) ([]domain.InventoryRecord, error)
}
