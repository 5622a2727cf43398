package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/internal/config"
	"github.com/shoppulse/pipeline/internal/infrastructure/buffer"
	"github.com/shoppulse/pipeline/internal/infrastructure/bus"
	appmetrics "github.com/shoppulse/pipeline/internal/metrics"
)

// OutboxProcessor drains buffered events back onto the bus on a fixed
// schedule. Items that exhaust their retry budget are dropped with a log
// entry rather than wedging the queue.
type OutboxProcessor struct {
	store     *buffer.Store
	publisher bus.Publisher
	cfg       config.OutboxConfig
	metrics   *appmetrics.Metrics
	logger    *zap.Logger

	cron *cron.Cron
}

func NewOutboxProcessor(
	store *buffer.Store,
	publisher bus.Publisher,
	cfg config.OutboxConfig,
	metrics *appmetrics.Metrics,
	logger *zap.Logger,
) *OutboxProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxProcessor{
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Start schedules the drain loop.
func (p *OutboxProcessor) Start() error {
	schedule := fmt.Sprintf("@every %s", p.cfg.DrainInterval)
	if _, err := p.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.DrainInterval)
		defer cancel()
		if err := p.Drain(ctx); err != nil {
			p.logger.Warn("outbox drain incomplete", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running drain to finish.
func (p *OutboxProcessor) Stop(ctx context.Context) error {
	stopped := p.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain republishes one batch of buffered events. Successes leave the queue;
// failures requeue with an incremented attempt count until the retry budget
// runs out.
func (p *OutboxProcessor) Drain(ctx context.Context) error {
	items, err := p.store.GetBatch(p.cfg.DrainBatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := p.publisher.Publish(ctx, item.Event); err != nil {
			if item.Attempts+1 >= p.cfg.MaxRetry {
				p.logger.Error("dropping event after retry budget",
					zap.String("event_id", item.Event.ID),
					zap.Int("attempts", item.Attempts+1),
					zap.Error(err),
				)
				if rmErr := p.store.Remove(item); rmErr != nil {
					return rmErr
				}
				continue
			}
			if rqErr := p.store.Requeue(item, err); rqErr != nil {
				return rqErr
			}
			continue
		}

		if err := p.store.Remove(item); err != nil {
			return err
		}
		if p.metrics != nil {
			p.metrics.OutboxRetries.Inc()
			p.metrics.EventsPublished.WithLabelValues(item.Event.DetailType).Inc()
		}
	}

	if p.cfg.RetentionHours > 0 {
		cutoff := time.Now().Add(-time.Duration(p.cfg.RetentionHours) * time.Hour)
		if err := p.store.Cleanup(cutoff); err != nil {
			return err
		}
	}

	if p.metrics != nil {
		if size, err := p.store.Size(); err == nil {
			p.metrics.OutboxDepth.Set(float64(size))
		}
	}
	return nil
}
