package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

type cohortRepository struct {
	mu       sync.Mutex
	insights map[string]*domain.CohortInsight
}

// NewCohortRepository returns an in-memory CohortRepository.
func NewCohortRepository() repository.CohortRepository {
	return &cohortRepository{insights: make(map[string]*domain.CohortInsight)}
}

func (r *cohortRepository) MergeCohort(ctx context.Context, cohort string, delta repository.CohortDelta) (*domain.CohortInsight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.CohortKey(cohort)
	now := time.Now().UTC()

	insight, ok := r.insights[key]
	if !ok {
		insight = &domain.CohortInsight{
			InsightKey: key,
			Cohort:     cohort,
			CreatedAt:  now,
		}
		r.insights[key] = insight
	}

	insight.CustomerCount += delta.CustomerCount
	insight.TotalRevenue = insight.TotalRevenue.Add(delta.Revenue)
	insight.RepeatCustomers += delta.RepeatCustomers
	insight.NewCustomers += delta.NewCustomers
	insight.UpdatedAt = now

	copied := *insight
	return &copied, nil
}

func (r *cohortRepository) GetCohort(ctx context.Context, cohort string) (*domain.CohortInsight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	insight, ok := r.insights[domain.CohortKey(cohort)]
	if !ok {
		return nil, domain.ErrCohortNotFound
	}
	copied := *insight
	return &copied, nil
}

func (r *cohortRepository) ListCohorts(ctx context.Context) ([]domain.CohortInsight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var insights []domain.CohortInsight
	for _, insight := range r.insights {
		insights = append(insights, *insight)
	}
	sort.Slice(insights, func(i, j int) bool {
		return insights[i].Cohort < insights[j].Cohort
	})
	return insights, nil
}
