package repository

import (
	"context"

	"github.com/shoppulse/pipeline/domain"
)

// CustomerRepository persists cumulative per-customer profiles.
type CustomerRepository interface {
	Get(ctx context.Context, customerID string) (*domain.CustomerProfile, error)
	Upsert(ctx context.Context, profile *domain.CustomerProfile) error
}
