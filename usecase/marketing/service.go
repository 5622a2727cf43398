// Package marketing exports analyzed customers as segmented profiles for
// campaign targeting.
package marketing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/internal/infrastructure/objectstore"
)

type Service struct {
	store  objectstore.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store objectstore.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Build derives the marketing profile from an analyzed customer: segment,
// product recommendations from purchase categories, and campaign
// eligibility.
func (s *Service) Build(detail *domain.CustomerAnalyzedDetail) *domain.MarketingProfile {
	segment := domain.ClassifySegment(detail.TotalSpent, detail.CustomerType)
	return &domain.MarketingProfile{
		CustomerID:          detail.CustomerID,
		CustomerType:        detail.CustomerType,
		Segment:             segment,
		TotalSpent:          detail.TotalSpent,
		TotalPurchases:      detail.TotalPurchases,
		PurchaseCategories:  detail.PurchaseCategories,
		RecommendedProducts: domain.RecommendProducts(detail.PurchaseCategories),
		EligibleCampaigns:   domain.EligibleCampaigns(segment, detail.TotalPurchases, detail.PurchaseCategories),
		UpdatedAt:           s.now().UTC(),
	}
}

// Export builds the profile and writes a timestamped snapshot to the object
// store for downstream campaign tooling.
func (s *Service) Export(ctx context.Context, detail *domain.CustomerAnalyzedDetail) error {
	profile := s.Build(detail)

	payload, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "encode marketing profile", err)
	}

	key := fmt.Sprintf("marketing/customer_%s_%s.json", profile.CustomerID, s.now().UTC().Format("20060102150405"))
	if _, err := s.store.Put(ctx, key, "application/json", payload); err != nil {
		return err
	}

	s.logger.Info("marketing profile exported",
		zap.String("customer_id", profile.CustomerID),
		zap.String("segment", profile.Segment),
		zap.String("key", key),
	)
	return nil
}
