// Package metrics routes bus events into the aggregate rollups.
package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

// Aggregator folds event details into the sales and cohort rollups. Every
// write goes through the repositories' atomic merge, so aggregators can run
// in parallel without coordination.
type Aggregator struct {
	sales   repository.SalesRepository
	cohorts repository.CohortRepository
	logger  *zap.Logger
}

func NewAggregator(sales repository.SalesRepository, cohorts repository.CohortRepository, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{sales: sales, cohorts: cohorts, logger: logger}
}

// RecordOrder fans one order into the daily, weekly, and monthly buckets.
// The three merges share one delta; a failure on any bucket surfaces to the
// caller so the transport redelivers the whole fan-out.
func (a *Aggregator) RecordOrder(ctx context.Context, detail *domain.OrderProcessedDetail) error {
	ts, err := parseTimestamp(detail.Timestamp)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "order timestamp", err)
	}

	var itemCount int64
	categories := make(map[string]struct{}, len(detail.Items))
	var categoryList []string
	for _, item := range detail.Items {
		itemCount += item.Quantity
		category := item.Category
		if category == "" {
			category = "unknown"
		}
		if _, ok := categories[category]; !ok {
			categories[category] = struct{}{}
			categoryList = append(categoryList, category)
		}
	}

	delta := domain.MergeDelta{
		Amount:           detail.TotalAmount,
		TransactionCount: 1,
		ItemCount:        itemCount,
		Categories:       categoryList,
	}

	buckets := []struct {
		unit  domain.TimeUnit
		value string
	}{
		{domain.UnitDate, domain.DateBucket(ts)},
		{domain.UnitWeek, domain.WeekBucket(ts)},
		{domain.UnitMonth, domain.MonthBucket(ts)},
	}
	for _, b := range buckets {
		if _, err := a.sales.MergeSales(ctx, b.unit, b.value, delta); err != nil {
			return err
		}
	}

	a.logger.Debug("sales metrics updated", zap.String("transaction_id", detail.TransactionID))
	return nil
}

// RecordCustomer merges one analyzed customer into their cohort rollup.
func (a *Aggregator) RecordCustomer(ctx context.Context, detail *domain.CustomerAnalyzedDetail) error {
	cohort := detail.Cohort
	if cohort == "" {
		cohort = "unknown"
	}

	delta := repository.CohortDelta{
		Revenue:       detail.TotalSpent,
		CustomerCount: 1,
	}
	switch detail.CustomerType {
	case domain.CustomerRepeat:
		delta.RepeatCustomers = 1
	case domain.CustomerNew:
		delta.NewCustomers = 1
	}

	if _, err := a.cohorts.MergeCohort(ctx, cohort, delta); err != nil {
		return err
	}

	a.logger.Debug("cohort insight updated", zap.String("customer_id", detail.CustomerID), zap.String("cohort", cohort))
	return nil
}

// parseTimestamp accepts RFC 3339 with or without an offset; detail payloads
// from external producers often omit the zone.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
