package handler

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	appmetrics "github.com/shoppulse/pipeline/internal/metrics"
)

// NewMetricsHandler exposes the prometheus registry on fasthttp.
func NewMetricsHandler(m *appmetrics.Metrics) fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}),
	)
}
