// Package metrics provides internal metrics collection for the generation
// pipeline. This package is internal and should not be imported by external
// projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector aggregates the pipeline's prometheus metrics. A nil *Collector
// is valid and turns every method into a no-op, so instrumentation can stay
// optional in library use.
type Collector struct {
	generationsTotal   *prometheus.CounterVec
	stageDuration      *prometheus.HistogramVec
	downloadBytes      prometheus.Histogram
	fallbacksTotal     prometheus.Counter
	inFlight           prometheus.Gauge
	rateLimitRemaining *prometheus.GaugeVec

	logger *zap.Logger
}

// NewCollector creates a metrics collector registered against reg.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.generationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of finished generation invocations by outcome",
		},
		[]string{"outcome"},
	)

	c.stageDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	c.downloadBytes = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "download_bytes",
			Help:      "Size of downloaded model containers in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)

	c.fallbacksTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Total number of materializations that degraded to the placeholder model",
		},
	)

	c.inFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generations_in_flight",
			Help:      "Number of generation invocations currently running",
		},
	)

	c.rateLimitRemaining = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limit_remaining",
			Help:      "Remaining request budget as last reported by the generation endpoint",
		},
		[]string{"window"},
	)

	return c
}

// ObserveGeneration records one finished invocation.
func (c *Collector) ObserveGeneration(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.generationsTotal.WithLabelValues(outcome).Inc()
	c.stageDuration.WithLabelValues("total").Observe(duration.Seconds())
}

// ObserveStage records the duration of one pipeline stage.
func (c *Collector) ObserveStage(stage string, duration time.Duration) {
	if c == nil {
		return
	}
	c.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// ObserveDownloadSize records the size of a downloaded container.
func (c *Collector) ObserveDownloadSize(bytes int) {
	if c == nil {
		return
	}
	c.downloadBytes.Observe(float64(bytes))
}

// IncFallback counts one placeholder fallback.
func (c *Collector) IncFallback() {
	if c == nil {
		return
	}
	c.fallbacksTotal.Inc()
}

// AddInFlight adjusts the in-flight gauge.
func (c *Collector) AddInFlight(delta int) {
	if c == nil {
		return
	}
	c.inFlight.Add(float64(delta))
}

// SetRateLimit records the server-reported remaining budget.
func (c *Collector) SetRateLimit(hourly, burst int) {
	if c == nil {
		return
	}
	c.rateLimitRemaining.WithLabelValues("hourly").Set(float64(hourly))
	c.rateLimitRemaining.WithLabelValues("burst").Set(float64(burst))
}
