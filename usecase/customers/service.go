// Package customers maintains cumulative customer profiles and emits
// analysis events.
package customers

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

type Service struct {
	customers repository.CustomerRepository
	logger    *zap.Logger
}

func NewService(customers repository.CustomerRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{customers: customers, logger: logger}
}

// Analyze folds a transaction into the customer's profile and emits a
// customer_analyzed event with the updated cumulative figures. A customer
// seen for the first time gets the transaction month as their cohort.
func (s *Service) Analyze(ctx context.Context, tx *domain.Transaction) (domain.Event, error) {
	if err := tx.Validate(); err != nil {
		return domain.Event{}, err
	}

	profile, err := s.customers.Get(ctx, tx.CustomerID)
	if err != nil {
		if !errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.Event{}, err
		}
		profile = &domain.CustomerProfile{}
	}

	profile.ApplyTransaction(tx, domain.MonthBucket(tx.Timestamp))
	if err := s.customers.Upsert(ctx, profile); err != nil {
		return domain.Event{}, err
	}

	detail := domain.CustomerAnalyzedDetail{
		CustomerID:         profile.CustomerID,
		CustomerType:       profile.CustomerType,
		Cohort:             profile.Cohort,
		TotalPurchases:     profile.TotalPurchases,
		TotalSpent:         profile.TotalSpent,
		AverageOrderValue:  profile.AverageOrderValue,
		LastPurchaseDate:   profile.LastPurchaseDate.Format("2006-01-02T15:04:05Z07:00"),
		PaymentMethod:      profile.PaymentMethod,
		ShippingState:      profile.ShippingState,
		PurchaseCategories: profile.PurchaseCategories,
	}

	event, err := domain.NewEvent(domain.SourceCustomers, domain.DetailCustomerAnalyzed, detail)
	if err != nil {
		return domain.Event{}, err
	}

	s.logger.Info("customer analyzed",
		zap.String("customer_id", profile.CustomerID),
		zap.String("customer_type", profile.CustomerType),
		zap.Int64("total_purchases", profile.TotalPurchases),
	)
	return event, nil
}
