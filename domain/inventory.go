package domain

import "time"

const (
	// DefaultInitialStock is assumed for a product the pipeline has never seen.
	DefaultInitialStock int64 = 100
	// LowStockThreshold marks the strict upper bound of the "low" status.
	LowStockThreshold int64 = 20
)

// StockStatus labels remaining stock.
type StockStatus string

const (
	StockLow    StockStatus = "low"
	StockNormal StockStatus = "normal"
)

// ClassifyStock derives the status from the remaining stock level.
// 19 is low, 20 is normal.
func ClassifyStock(stockLevel int64) StockStatus {
	if stockLevel < LowStockThreshold {
		return StockLow
	}
	return StockNormal
}

// InventoryRecord tracks remaining stock per product. Unlike the sales
// rollups its counter decreases, floored at zero.
type InventoryRecord struct {
	ProductID      string      `json:"product_id"`
	ProductName    string      `json:"product_name"`
	Category       string      `json:"category"`
	StockLevel     int64       `json:"stock_level"`
	InitialStock   int64       `json:"initial_stock"`
	UnitsSoldTotal int64       `json:"units_sold_total"`
	Status         StockStatus `json:"inventory_status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"last_updated"`
}
