package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

type inventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository returns a Postgres-backed implementation of InventoryRepository.
func NewInventoryRepository(pool *pgxpool.Pool) repository.InventoryRepository {
	return &inventoryRepository{pool: pool}
}

// ApplySale decrements stock inside one transaction. The prior status is read
// under FOR UPDATE so racing sales serialize on the row and each low-stock
// crossing is observed exactly once. An unseen product is seeded with the
// default initial stock minus the sold quantity; an existing row is
// decremented in place, floored at zero.
func (r *inventoryRepository) ApplySale(ctx context.Context, item domain.TransactionItem) (*repository.SaleResult, error) {
	const upsert = `
	INSERT INTO inventory_status AS inv (product_id, product_name, category, stock_level, initial_stock, units_sold_total, status)
	VALUES ($1, $2, $3, GREATEST(0, $5 - $4), $5, $4,
		CASE WHEN GREATEST(0, $5 - $4) < $6 THEN 'low' ELSE 'normal' END)
	ON CONFLICT (product_id) DO UPDATE
	SET stock_level = GREATEST(0, inv.stock_level - $4),
		units_sold_total = inv.units_sold_total + $4,
		product_name = EXCLUDED.product_name,
		category = EXCLUDED.category,
		status = CASE WHEN GREATEST(0, inv.stock_level - $4) < $6 THEN 'low' ELSE 'normal' END,
		updated_at = NOW()
	RETURNING product_id, product_name, category, stock_level, initial_stock, units_sold_total, status, created_at, updated_at
	`

	category := item.Category
	if category == "" {
		category = "unknown"
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	prevStatus := string(domain.StockNormal)
	err = tx.QueryRow(ctx,
		`SELECT status FROM inventory_status WHERE product_id = $1 FOR UPDATE`,
		item.ProductID,
	).Scan(&prevStatus)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	row := tx.QueryRow(ctx, upsert,
		item.ProductID,
		item.ProductName,
		category,
		item.Quantity,
		domain.DefaultInitialStock,
		domain.LowStockThreshold,
	)

	var (
		record domain.InventoryRecord
		status string
	)
	if err := row.Scan(
		&record.ProductID,
		&record.ProductName,
		&record.Category,
		&record.StockLevel,
		&record.InitialStock,
		&record.UnitsSoldTotal,
		&status,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	record.Status = domain.StockStatus(status)

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &repository.SaleResult{
		Record:         &record,
		PreviousStatus: domain.StockStatus(prevStatus),
	}, nil
}

func (r *inventoryRepository) Get(ctx context.Context, productID string) (*domain.InventoryRecord, error) {
	const query = `
	SELECT product_id, product_name, category, stock_level, initial_stock, units_sold_total, status, created_at, updated_at
	FROM inventory_status
	WHERE product_id = $1
	`
	row := r.pool.QueryRow(ctx, query, productID)
	return scanInventoryRecord(row)
}

func (r *inventoryRepository) List(ctx context.Context, filter repository.InventoryFilter) ([]domain.InventoryRecord, error) {
	const query = `
	SELECT product_id, product_name, category, stock_level, initial_stock, units_sold_total, status, created_at, updated_at
	FROM inventory_status
	WHERE ($1 = '' OR status = $1)
	  AND ($2 = '' OR category = $2)
	ORDER BY product_id
	LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, string(filter.Status), filter.Category, clampLimit(filter.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.InventoryRecord
	for rows.Next() {
		record, err := scanInventoryRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func scanInventoryRecord(row interface {
	Scan(dest ...interface{}) error
}) (*domain.InventoryRecord, error) {
	var record domain.InventoryRecord
	var status string

	if err := row.Scan(
		&record.ProductID,
		&record.ProductName,
		&record.Category,
		&record.StockLevel,
		&record.InitialStock,
		&record.UnitsSoldTotal,
		&status,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	record.Status = domain.StockStatus(status)
	return &record, nil
}
