// Package memory provides mutex-guarded in-memory repositories. They honor
// the same atomic-merge contracts as the Postgres implementations and back
// the test suites and the standalone simulator mode.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

type salesRepository struct {
	mu      sync.Mutex
	metrics map[string]*domain.SalesMetric
}

// NewSalesRepository returns an in-memory SalesRepository.
func NewSalesRepository() repository.SalesRepository {
	return &salesRepository{metrics: make(map[string]*domain.SalesMetric)}
}

func (r *salesRepository) MergeSales(ctx context.Context, unit domain.TimeUnit, value string, delta domain.MergeDelta) (*domain.SalesMetric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.MetricKey(unit, value)
	now := time.Now().UTC()

	metric, ok := r.metrics[key]
	if !ok {
		metric = &domain.SalesMetric{
			MetricKey: key,
			TimeUnit:  unit,
			TimeValue: value,
			CreatedAt: now,
		}
		r.metrics[key] = metric
	}

	metric.TotalSales = metric.TotalSales.Add(delta.Amount)
	metric.TransactionCount += delta.TransactionCount
	metric.ItemCount += delta.ItemCount
	metric.Categories = domain.UnionCategories(metric.Categories, delta.Categories)
	metric.UpdatedAt = now

	copied := *metric
	return &copied, nil
}

func (r *salesRepository) GetSales(ctx context.Context, unit domain.TimeUnit, value string) (*domain.SalesMetric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	metric, ok := r.metrics[domain.MetricKey(unit, value)]
	if !ok {
		return nil, domain.ErrMetricNotFound
	}
	copied := *metric
	return &copied, nil
}

func (r *salesRepository) ListSales(ctx context.Context, filter repository.SalesFilter) ([]domain.SalesMetric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var metrics []domain.SalesMetric
	for _, metric := range r.metrics {
		if metric.TimeUnit != filter.TimeUnit {
			continue
		}
		if filter.Since != "" && metric.TimeValue < filter.Since {
			continue
		}
		metrics = append(metrics, *metric)
	}
	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].TimeValue < metrics[j].TimeValue
	})
	if filter.Limit > 0 && len(metrics) > filter.Limit {
		metrics = metrics[:filter.Limit]
	}
	return metrics, nil
}
