package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

type cohortRepository struct {
	pool *pgxpool.Pool
}

// NewCohortRepository returns a Postgres-backed implementation of CohortRepository.
func NewCohortRepository(pool *pgxpool.Pool) repository.CohortRepository {
	return &cohortRepository{pool: pool}
}

func (r *cohortRepository) MergeCohort(ctx context.Context, cohort string, delta repository.CohortDelta) (*domain.CohortInsight, error) {
	const query = `
	INSERT INTO customer_insights (insight_key, cohort, customer_count, total_revenue, repeat_customers, new_customers)
	VALUES ($1, $2, $3, $4::numeric, $5, $6)
	ON CONFLICT (insight_key) DO UPDATE
	SET customer_count = customer_insights.customer_count + EXCLUDED.customer_count,
		total_revenue = customer_insights.total_revenue + EXCLUDED.total_revenue,
		repeat_customers = customer_insights.repeat_customers + EXCLUDED.repeat_customers,
		new_customers = customer_insights.new_customers + EXCLUDED.new_customers,
		updated_at = NOW()
	RETURNING insight_key, cohort, customer_count, total_revenue::text, repeat_customers, new_customers, created_at, updated_at
	`

	row := r.pool.QueryRow(ctx, query,
		domain.CohortKey(cohort),
		cohort,
		delta.CustomerCount,
		delta.Revenue.String(),
		delta.RepeatCustomers,
		delta.NewCustomers,
	)
	return scanCohortInsight(row)
}

func (r *cohortRepository) GetCohort(ctx context.Context, cohort string) (*domain.CohortInsight, error) {
	const query = `
	SELECT insight_key, cohort, customer_count, total_revenue::text, repeat_customers, new_customers, created_at, updated_at
	FROM customer_insights
	WHERE insight_key = $1
	`
	row := r.pool.QueryRow(ctx, query, domain.CohortKey(cohort))
	return scanCohortInsight(row)
}

func (r *cohortRepository) ListCohorts(ctx context.Context) ([]domain.CohortInsight, error) {
	const query = `
	SELECT insight_key, cohort, customer_count, total_revenue::text, repeat_customers, new_customers, created_at, updated_at
	FROM customer_insights
	ORDER BY cohort
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var insights []domain.CohortInsight
	for rows.Next() {
		insight, err := scanCohortInsight(rows)
		if err != nil {
			return nil, err
		}
		insights = append(insights, *insight)
	}
	return insights, rows.Err()
}

func scanCohortInsight(row interface {
	Scan(dest ...interface{}) error
}) (*domain.CohortInsight, error) {
	var insight domain.CohortInsight
	var revenue string

	if err := row.Scan(
		&insight.InsightKey,
		&insight.Cohort,
		&insight.CustomerCount,
		&revenue,
		&insight.RepeatCustomers,
		&insight.NewCustomers,
		&insight.CreatedAt,
		&insight.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCohortNotFound
		}
		return nil, err
	}

	total, err := scanMoney(revenue)
	if err != nil {
		return nil, err
	}
	insight.TotalRevenue = total

	return &insight, nil
}
