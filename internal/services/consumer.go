package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/internal/infrastructure/bus"
	appmetrics "github.com/shoppulse/pipeline/internal/metrics"
	"github.com/shoppulse/pipeline/repository"
	eventrouter "github.com/shoppulse/pipeline/usecase/metrics"
)

// Consumer pulls events off the bus and pushes them through the event
// router. Undecodable events are counted and committed past; events whose
// merges fail stay uncommitted so the transport redelivers them.
type Consumer struct {
	source  bus.Consumer
	router  *eventrouter.Router
	dedup   repository.DedupRepository
	metrics *appmetrics.Metrics
	logger  *zap.Logger
}

func NewConsumer(
	source bus.Consumer,
	router *eventrouter.Router,
	dedup repository.DedupRepository,
	metrics *appmetrics.Metrics,
	logger *zap.Logger,
) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		source:  source,
		router:  router,
		dedup:   dedup,
		metrics: metrics,
		logger:  logger,
	}
}

// Run consumes until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if domain.IsDomainError(err, domain.ErrCodeInvalid) {
				// Undecodable payload: count, commit past it.
				c.skip("malformed")
				_ = c.source.Commit(ctx, msg)
				continue
			}
			c.logger.Error("fetch failed", zap.Error(err))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		if err := c.Process(ctx, msg.Event); err != nil {
			c.logger.Error("event processing failed",
				zap.String("event_id", msg.Event.ID),
				zap.String("detail_type", msg.Event.DetailType),
				zap.Error(err),
			)
			if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				// Leave the offset uncommitted so the transport
				// redelivers; only a bad payload gets committed past.
				continue
			}
		}
		if err := c.source.Commit(ctx, msg); err != nil {
			c.logger.Error("commit failed", zap.String("event_id", msg.Event.ID), zap.Error(err))
		}
	}
}

// Process handles a single event: dedup, dispatch, instrumentation.
func (c *Consumer) Process(ctx context.Context, event domain.Event) error {
	kind := event.Kind()
	if kind == domain.KindUnknown {
		c.skip("unknown_kind")
		return nil
	}

	marked := false
	if c.dedup != nil && event.ID != "" {
		first, err := c.dedup.MarkProcessed(ctx, event.ID)
		if err != nil {
			// Dedup store down: fall back to at-least-once.
			c.logger.Warn("dedup check failed", zap.String("event_id", event.ID), zap.Error(err))
		} else if !first {
			c.skip("duplicate")
			return nil
		} else {
			marked = true
		}
	}

	start := time.Now()
	handled, err := c.router.Route(ctx, event)
	if c.metrics != nil {
		c.metrics.EventsConsumed.WithLabelValues(kind.String()).Inc()
		c.metrics.ProcessingTime.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
	}
	if !handled {
		c.skip("unhandled")
		return nil
	}
	if err != nil && marked {
		// Release the ID so the redelivered copy can re-apply the merge.
		if fErr := c.dedup.Forget(ctx, event.ID); fErr != nil {
			c.logger.Warn("dedup release failed", zap.String("event_id", event.ID), zap.Error(fErr))
		}
	}
	return err
}

// ProcessBatch handles a slice of events with per-event isolation: event N
// failing does not stop events N+1..; all errors aggregate into one result.
func (c *Consumer) ProcessBatch(ctx context.Context, events []domain.Event) error {
	var result *multierror.Error
	for i, event := range events {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}
		if err := c.Process(ctx, event); err != nil {
			c.skip("failed")
			result = multierror.Append(result, fmt.Errorf("event %d (%s): %w", i, event.ID, err))
		}
	}
	return result.ErrorOrNil()
}

func (c *Consumer) skip(reason string) {
	if c.metrics != nil {
		c.metrics.EventsSkipped.WithLabelValues(reason).Inc()
	}
}

// IsShutdown reports whether the consumer loop exited due to cancellation.
func IsShutdown(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
