package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

type customerRepository struct {
	mu       sync.Mutex
	profiles map[string]*domain.CustomerProfile
}

// NewCustomerRepository returns an in-memory CustomerRepository.
func NewCustomerRepository() repository.CustomerRepository {
	return &customerRepository{profiles: make(map[string]*domain.CustomerProfile)}
}

func (r *customerRepository) Get(ctx context.Context, customerID string) (*domain.CustomerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[customerID]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	copied := *profile
	copied.PurchaseCategories = append([]string(nil), profile.PurchaseCategories...)
	return &copied, nil
}

func (r *customerRepository) Upsert(ctx context.Context, profile *domain.CustomerProfile) error {
	if profile == nil || profile.CustomerID == "" {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	profile.UpdatedAt = time.Now().UTC()
	copied := *profile
	copied.PurchaseCategories = append([]string(nil), profile.PurchaseCategories...)
	r.profiles[profile.CustomerID] = &copied
	return nil
}
