package repository

import (
	"context"

	"github.com/shoppulse/pipeline/domain"
)

// SalesFilter narrows sales rollup listings.
type SalesFilter struct {
	TimeUnit domain.TimeUnit
	// Since is an inclusive lower bound on the bucket value, compared
	// lexicographically ("2024-05-01", "2024-W18", "2024-05").
	Since string
	Limit int
}

// SalesRepository persists the time-bucketed sales rollups.
//
// MergeSales must be atomic and commutative: concurrent merges into the same
// bucket may not lose increments, and the first merge for an absent bucket
// creates it exactly once. Implementations back this with a store-side
// conditional update, never a client-side read-then-write.
type SalesRepository interface {
	MergeSales(ctx context.Context, unit domain.TimeUnit, value string, delta domain.MergeDelta) (*domain.SalesMetric, error)
	GetSales(ctx context.Context, unit domain.TimeUnit, value string) (*domain.SalesMetric, error)
	ListSales(ctx context.Context, filter SalesFilter) ([]domain.SalesMetric, error)
}

// CohortDelta is one analyzed customer's contribution to a cohort rollup.
type CohortDelta struct {
	Revenue         domain.Money
	CustomerCount   int64
	RepeatCustomers int64
	NewCustomers    int64
}

// CohortRepository persists the per-cohort customer rollups under the same
// atomic-merge contract as SalesRepository.
type CohortRepository interface {
	MergeCohort(ctx context.Context, cohort string, delta CohortDelta) (*domain.CohortInsight, error)
	GetCohort(ctx context.Context, cohort string) (*domain.CohortInsight, error)
	ListCohorts(ctx context.Context) ([]domain.CohortInsight, error)
}
