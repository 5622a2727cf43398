package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

type inventoryRepository struct {
	mu      sync.Mutex
	records map[string]*domain.InventoryRecord
}

// NewInventoryRepository returns an in-memory InventoryRepository.
func NewInventoryRepository() repository.InventoryRepository {
	return &inventoryRepository{records: make(map[string]*domain.InventoryRecord)}
}

func (r *inventoryRepository) ApplySale(ctx context.Context, item domain.TransactionItem) (*repository.SaleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	category := item.Category
	if category == "" {
		category = "unknown"
	}

	record, ok := r.records[item.ProductID]
	previous := domain.StockNormal
	if !ok {
		record = &domain.InventoryRecord{
			ProductID:    item.ProductID,
			InitialStock: domain.DefaultInitialStock,
			StockLevel:   domain.DefaultInitialStock,
			CreatedAt:    now,
		}
		r.records[item.ProductID] = record
	} else {
		previous = record.Status
	}

	record.ProductName = item.ProductName
	record.Category = category
	record.StockLevel -= item.Quantity
	if record.StockLevel < 0 {
		record.StockLevel = 0
	}
	record.UnitsSoldTotal += item.Quantity
	record.Status = domain.ClassifyStock(record.StockLevel)
	record.UpdatedAt = now

	copied := *record
	return &repository.SaleResult{Record: &copied, PreviousStatus: previous}, nil
}

func (r *inventoryRepository) Get(ctx context.Context, productID string) (*domain.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *inventoryRepository) List(ctx context.Context, filter repository.InventoryFilter) ([]domain.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []domain.InventoryRecord
	for _, record := range r.records {
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		if filter.Category != "" && record.Category != filter.Category {
			continue
		}
		records = append(records, *record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ProductID < records[j].ProductID
	})
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, nil
}
