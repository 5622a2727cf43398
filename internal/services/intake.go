package services

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/internal/infrastructure/buffer"
	"github.com/shoppulse/pipeline/internal/infrastructure/bus"
	appmetrics "github.com/shoppulse/pipeline/internal/metrics"
	"github.com/shoppulse/pipeline/usecase/customers"
	"github.com/shoppulse/pipeline/usecase/inventory"
	"github.com/shoppulse/pipeline/usecase/orders"
)

// Intake runs the three front-line processors over an incoming transaction
// and publishes their derived events. The stages are independent: one stage
// failing does not stop the others, and its error joins the combined result.
type Intake struct {
	orders    *orders.Service
	customers *customers.Service
	inventory *inventory.Service
	publisher bus.Publisher
	outbox    *buffer.Store
	metrics   *appmetrics.Metrics
	logger    *zap.Logger
}

func NewIntake(
	orderSvc *orders.Service,
	customerSvc *customers.Service,
	inventorySvc *inventory.Service,
	publisher bus.Publisher,
	outbox *buffer.Store,
	metrics *appmetrics.Metrics,
	logger *zap.Logger,
) *Intake {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Intake{
		orders:    orderSvc,
		customers: customerSvc,
		inventory: inventorySvc,
		publisher: publisher,
		outbox:    outbox,
		metrics:   metrics,
		logger:    logger,
	}
}

// Submit processes one transaction end to end. Events from successful stages
// are published even when a sibling stage failed; publish failures land in
// the outbox and surface in the returned error.
func (i *Intake) Submit(ctx context.Context, tx *domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	var result *multierror.Error
	var events []domain.Event

	if event, err := i.orders.Process(ctx, tx); err != nil {
		result = multierror.Append(result, err)
	} else {
		events = append(events, event)
	}

	if event, err := i.customers.Analyze(ctx, tx); err != nil {
		result = multierror.Append(result, err)
	} else {
		events = append(events, event)
	}

	if derived, err := i.inventory.Track(ctx, tx); err != nil {
		result = multierror.Append(result, err)
		events = append(events, derived...)
	} else {
		events = append(events, derived...)
	}
	if i.metrics != nil {
		for _, event := range events {
			if event.Kind() == domain.KindInventoryAlert {
				i.metrics.AlertsRaised.Inc()
			}
		}
	}

	if err := i.publish(ctx, events); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (i *Intake) publish(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	if err := i.publisher.Publish(ctx, events...); err != nil {
		i.logger.Error("publish failed, buffering to outbox",
			zap.Int("events", len(events)),
			zap.Error(err),
		)
		var result *multierror.Error
		result = multierror.Append(result, err)
		for _, event := range events {
			if qErr := i.outbox.Enqueue(buffer.NewItem(event, err)); qErr != nil {
				result = multierror.Append(result, qErr)
			}
		}
		return result.ErrorOrNil()
	}

	if i.metrics != nil {
		for _, event := range events {
			i.metrics.EventsPublished.WithLabelValues(event.DetailType).Inc()
		}
	}
	return nil
}
