// Package notify records outbound notifications. Delivery is simulated:
// every notification is written once to the log store with status "sent".
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

// loyaltyMinPurchases is the strict threshold above which repeat customers
// get a loyalty message.
const loyaltyMinPurchases = 3

type Service struct {
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

func NewService(notifications repository.NotificationRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{notifications: notifications, logger: logger}
}

// InventoryAlert records a reorder prompt for a low-stock product.
func (s *Service) InventoryAlert(ctx context.Context, detail *domain.InventoryAlertDetail) error {
	message := fmt.Sprintf("INVENTORY ALERT: Product %s (ID: %s) has low stock: %d. Please reorder.",
		detail.ProductName, detail.ProductID, detail.StockLevel)
	return s.record(ctx, &domain.NotificationRecord{
		Type:      domain.NotificationInventoryAlert,
		Subject:   fmt.Sprintf("Low Inventory: %s", detail.ProductName),
		Message:   message,
		Recipient: "inventory@example.com",
	})
}

// OrderConfirmation records the thank-you message for a processed order.
func (s *Service) OrderConfirmation(ctx context.Context, detail *domain.OrderProcessedDetail) error {
	message := fmt.Sprintf("Thank you for your order #%s! Your total is $%s.",
		detail.TransactionID, detail.TotalAmount)
	return s.record(ctx, &domain.NotificationRecord{
		Type:      domain.NotificationOrderConfirmation,
		Subject:   fmt.Sprintf("Order Confirmation #%s", detail.TransactionID),
		Message:   message,
		Recipient: fmt.Sprintf("customer_%s@example.com", detail.CustomerID),
	})
}

// LoyaltyReward records a discount message for repeat customers past the
// purchase threshold. Customers below it are silently skipped.
func (s *Service) LoyaltyReward(ctx context.Context, detail *domain.CustomerAnalyzedDetail) error {
	if detail.CustomerType != domain.CustomerRepeat || detail.TotalPurchases <= loyaltyMinPurchases {
		return nil
	}
	message := fmt.Sprintf(
		"Thank you for being a loyal customer! You've made %d purchases with us totaling $%s. "+
			"As a token of our appreciation, here's a 10%% discount on your next purchase. Use code LOYAL10.",
		detail.TotalPurchases, detail.TotalSpent)
	return s.record(ctx, &domain.NotificationRecord{
		Type:      domain.NotificationCustomerLoyalty,
		Subject:   "Thank You for Your Loyalty!",
		Message:   message,
		Recipient: fmt.Sprintf("customer_%s@example.com", detail.CustomerID),
	})
}

// List exposes the notification log for the dashboard.
func (s *Service) List(ctx context.Context, filter repository.NotificationFilter) ([]domain.NotificationRecord, error) {
	return s.notifications.List(ctx, filter)
}

func (s *Service) record(ctx context.Context, record *domain.NotificationRecord) error {
	if err := s.notifications.Create(ctx, record); err != nil {
		return err
	}
	s.logger.Info("notification recorded",
		zap.String("type", record.Type),
		zap.String("recipient", record.Recipient),
	)
	return nil
}
