// Package metrics exposes the pipeline's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds every collector the pipeline updates, registered on a private
// registry so tests can instantiate it repeatedly.
type Metrics struct {
	Registry *prometheus.Registry

	EventsConsumed  *prometheus.CounterVec
	EventsSkipped   *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
	ProcessingTime  *prometheus.HistogramVec
	OutboxDepth     prometheus.Gauge
	OutboxRetries   prometheus.Counter
	AlertsRaised    prometheus.Counter
}

// New builds and registers all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		Registry: registry,
		EventsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pipeline",
			Name:      "events_consumed_total",
			Help:      "Events pulled off the bus, by kind.",
		}, []string{"kind"}),
		EventsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pipeline",
			Name:      "events_skipped_total",
			Help:      "Events dropped without processing, by reason.",
		}, []string{"reason"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pipeline",
			Name:      "events_published_total",
			Help:      "Derived events published to the bus, by detail type.",
		}, []string{"detail_type"}),
		ProcessingTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pipeline",
			Name:      "event_processing_seconds",
			Help:      "Per-event processing latency, by kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		OutboxDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pipeline",
			Name:      "outbox_depth",
			Help:      "Events waiting in the publish retry queue.",
		}),
		OutboxRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pipeline",
			Name:      "outbox_retries_total",
			Help:      "Publish retries drained from the outbox.",
		}),
		AlertsRaised: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pipeline",
			Name:      "inventory_alerts_total",
			Help:      "Low-stock alerts raised on threshold crossings.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.EventsConsumed,
		m.EventsSkipped,
		m.EventsPublished,
		m.ProcessingTime,
		m.OutboxDepth,
		m.OutboxRetries,
		m.AlertsRaised,
	)
	return m
}
