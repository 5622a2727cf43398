package metrics

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/domain"
)

// Notifier records outbound notifications for routed events.
type Notifier interface {
	InventoryAlert(ctx context.Context, detail *domain.InventoryAlertDetail) error
	OrderConfirmation(ctx context.Context, detail *domain.OrderProcessedDetail) error
	LoyaltyReward(ctx context.Context, detail *domain.CustomerAnalyzedDetail) error
}

// Exporter ships analyzed customers to the marketing snapshot store.
type Exporter interface {
	Export(ctx context.Context, detail *domain.CustomerAnalyzedDetail) error
}

// Router resolves each event to its kind and dispatches through a fixed
// lookup table. Events outside the table are reported as unhandled, never as
// errors.
type Router struct {
	aggregator *Aggregator
	notifier   Notifier
	exporter   Exporter
	logger     *zap.Logger

	handlers map[domain.EventKind]func(ctx context.Context, event domain.Event) error
}

func NewRouter(aggregator *Aggregator, notifier Notifier, exporter Exporter, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		aggregator: aggregator,
		notifier:   notifier,
		exporter:   exporter,
		logger:     logger,
	}
	r.handlers = map[domain.EventKind]func(ctx context.Context, event domain.Event) error{
		domain.KindOrderProcessed:   r.handleOrderProcessed,
		domain.KindCustomerAnalyzed: r.handleCustomerAnalyzed,
		domain.KindInventoryUpdated: r.handleInventoryUpdated,
		domain.KindInventoryAlert:   r.handleInventoryAlert,
	}
	return r
}

// Route dispatches one event. The boolean reports whether the event matched
// the table; unmatched events are the caller's to count and skip.
func (r *Router) Route(ctx context.Context, event domain.Event) (bool, error) {
	handler, ok := r.handlers[event.Kind()]
	if !ok {
		return false, nil
	}
	return true, handler(ctx, event)
}

func (r *Router) handleOrderProcessed(ctx context.Context, event domain.Event) error {
	var detail domain.OrderProcessedDetail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "decode order_processed detail", err)
	}

	var result *multierror.Error
	if err := r.aggregator.RecordOrder(ctx, &detail); err != nil {
		result = multierror.Append(result, err)
	}
	if r.notifier != nil {
		if err := r.notifier.OrderConfirmation(ctx, &detail); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (r *Router) handleCustomerAnalyzed(ctx context.Context, event domain.Event) error {
	var detail domain.CustomerAnalyzedDetail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "decode customer_analyzed detail", err)
	}

	var result *multierror.Error
	if err := r.aggregator.RecordCustomer(ctx, &detail); err != nil {
		result = multierror.Append(result, err)
	}
	if r.exporter != nil {
		if err := r.exporter.Export(ctx, &detail); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if r.notifier != nil {
		if err := r.notifier.LoyaltyReward(ctx, &detail); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (r *Router) handleInventoryUpdated(ctx context.Context, event domain.Event) error {
	var detail domain.InventoryUpdatedDetail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "decode inventory_updated detail", err)
	}
	r.logger.Info("inventory updated",
		zap.String("transaction_id", detail.TransactionID),
		zap.Int64("items_processed", detail.ItemsProcessed),
	)
	return nil
}

func (r *Router) handleInventoryAlert(ctx context.Context, event domain.Event) error {
	var detail domain.InventoryAlertDetail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "decode inventory_alert detail", err)
	}
	if r.notifier == nil {
		return nil
	}
	return r.notifier.InventoryAlert(ctx, &detail)
}
