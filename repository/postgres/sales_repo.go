package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

type salesRepository struct {
	pool *pgxpool.Pool
}

// NewSalesRepository returns a Postgres-backed implementation of SalesRepository.
func NewSalesRepository(pool *pgxpool.Pool) repository.SalesRepository {
	return &salesRepository{pool: pool}
}

// MergeSales folds a delta into a bucket with one upsert. The additions run
// server-side against the stored row, so concurrent merges for the same
// bucket serialize on the row and none is lost; the insert arm covers the
// first-write case, and a create race simply degrades into the update arm.
func (r *salesRepository) MergeSales(ctx context.Context, unit domain.TimeUnit, value string, delta domain.MergeDelta) (*domain.SalesMetric, error) {
	const query = `
	INSERT INTO sales_metrics (metric_key, time_unit, time_value, total_sales, transaction_count, item_count, categories)
	VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
	ON CONFLICT (metric_key) DO UPDATE
	SET total_sales = sales_metrics.total_sales + EXCLUDED.total_sales,
		transaction_count = sales_metrics.transaction_count + EXCLUDED.transaction_count,
		item_count = sales_metrics.item_count + EXCLUDED.item_count,
		categories = ARRAY(SELECT DISTINCT c FROM unnest(sales_metrics.categories || EXCLUDED.categories) AS c ORDER BY c),
		updated_at = NOW()
	RETURNING metric_key, time_unit, time_value, total_sales::text, transaction_count, item_count, categories, created_at, updated_at
	`

	categories := domain.UnionCategories(nil, delta.Categories)
	row := r.pool.QueryRow(ctx, query,
		domain.MetricKey(unit, value),
		string(unit),
		value,
		delta.Amount.String(),
		delta.TransactionCount,
		delta.ItemCount,
		categories,
	)
	return scanSalesMetric(row)
}

func (r *salesRepository) GetSales(ctx context.Context, unit domain.TimeUnit, value string) (*domain.SalesMetric, error) {
	const query = `
	SELECT metric_key, time_unit, time_value, total_sales::text, transaction_count, item_count, categories, created_at, updated_at
	FROM sales_metrics
	WHERE metric_key = $1
	`
	row := r.pool.QueryRow(ctx, query, domain.MetricKey(unit, value))
	return scanSalesMetric(row)
}

func (r *salesRepository) ListSales(ctx context.Context, filter repository.SalesFilter) ([]domain.SalesMetric, error) {
	const query = `
	SELECT metric_key, time_unit, time_value, total_sales::text, transaction_count, item_count, categories, created_at, updated_at
	FROM sales_metrics
	WHERE time_unit = $1
	  AND ($2 = '' OR time_value >= $2)
	ORDER BY time_value
	LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, string(filter.TimeUnit), filter.Since, clampLimit(filter.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []domain.SalesMetric
	for rows.Next() {
		metric, err := scanSalesMetric(rows)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, *metric)
	}
	return metrics, rows.Err()
}

func scanSalesMetric(row interface {
	Scan(dest ...interface{}) error
}) (*domain.SalesMetric, error) {
	var metric domain.SalesMetric
	var (
		unit  string
		total string
	)

	if err := row.Scan(
		&metric.MetricKey,
		&unit,
		&metric.TimeValue,
		&total,
		&metric.TransactionCount,
		&metric.ItemCount,
		&metric.Categories,
		&metric.CreatedAt,
		&metric.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMetricNotFound
		}
		return nil, err
	}

	metric.TimeUnit = domain.TimeUnit(unit)
	amount, err := scanMoney(total)
	if err != nil {
		return nil, err
	}
	metric.TotalSales = amount

	return &metric, nil
}
