package domain

import (
	"fmt"
	"sort"
	"time"
)

// TimeUnit names a sales rollup granularity.
type TimeUnit string

const (
	UnitDate  TimeUnit = "date"
	UnitWeek  TimeUnit = "week"
	UnitMonth TimeUnit = "month"
)

// MetricKey builds the composite bucket identity, e.g. "date#2024-05-01".
func MetricKey(unit TimeUnit, value string) string {
	return fmt.Sprintf("%s#%s", unit, value)
}

// DateBucket formats the daily bucket value.
func DateBucket(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekBucket formats the weekly bucket value, e.g. "2024-W18". The week
// number counts Mondays since the start of the year; days before the first
// Monday fall into week zero.
func WeekBucket(t time.Time) string {
	mondayWeekday := (int(t.Weekday()) + 6) % 7
	week := (t.YearDay() + 6 - mondayWeekday) / 7
	return fmt.Sprintf("%04d-W%02d", t.Year(), week)
}

// MonthBucket formats the monthly bucket value.
func MonthBucket(t time.Time) string {
	return t.Format("2006-01")
}

// SalesMetric is the cumulative sales rollup for one time bucket. Totals are
// the exact sum of every delta ever merged into the bucket.
type SalesMetric struct {
	MetricKey        string    `json:"metric_key"`
	TimeUnit         TimeUnit  `json:"time_unit"`
	TimeValue        string    `json:"time_value"`
	TotalSales       Money     `json:"total_sales"`
	TransactionCount int64     `json:"transaction_count"`
	ItemCount        int64     `json:"item_count"`
	Categories       []string  `json:"categories"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"last_updated"`
}

// CohortInsight is the cumulative rollup for one first-purchase cohort.
type CohortInsight struct {
	InsightKey      string    `json:"insight_key"`
	Cohort          string    `json:"cohort"`
	CustomerCount   int64     `json:"customer_count"`
	TotalRevenue    Money     `json:"total_revenue"`
	RepeatCustomers int64     `json:"repeat_customers"`
	NewCustomers    int64     `json:"new_customers"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"last_updated"`
}

// CohortKey builds the insight identity, e.g. "cohort#2024-05".
func CohortKey(cohort string) string {
	return fmt.Sprintf("cohort#%s", cohort)
}

// MergeDelta is the commutative unit of aggregation: an amount, counter
// increments, and category labels to union in.
type MergeDelta struct {
	Amount           Money
	TransactionCount int64
	ItemCount        int64
	Categories       []string
}

// UnionCategories merges two label sets without duplicates. The result is
// sorted so repeated merges in any order produce identical records.
func UnionCategories(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, c := range existing {
		seen[c] = struct{}{}
	}
	for _, c := range incoming {
		seen[c] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
