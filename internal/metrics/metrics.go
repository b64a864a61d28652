// Package metrics provides Prometheus metrics for the token warehouse
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the warehouse
type Metrics struct {
	// Dispatch pass metrics
	PassesTotal     *prometheus.CounterVec
	PassDuration    prometheus.Histogram
	TokensTotal     prometheus.Counter
	DispatchesTotal prometheus.Counter
	SectionsPerPass prometheus.Histogram

	// Collector metrics
	CollectorErrorsTotal *prometheus.CounterVec
	TruncationsTotal     *prometheus.CounterVec

	// Hardening metrics
	URLsCheckedTotal prometheus.Counter
	URLsDeniedTotal  prometheus.Counter

	// Process metrics
	UptimeSeconds prometheus.Gauge
	StartTime     time.Time
}

// New creates and registers all warehouse metrics against reg. Tests pass
// a private registry so parallel instances don't collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{StartTime: time.Now()}

	m.PassesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenhouse_passes_total",
			Help: "Total number of dispatch passes",
		},
		[]string{"status"},
	)

	m.PassDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tokenhouse_pass_duration_seconds",
			Help:    "Duration of dispatch passes in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	m.TokensTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "tokenhouse_tokens_total",
			Help: "Total number of tokens walked",
		},
	)

	m.DispatchesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "tokenhouse_dispatches_total",
			Help: "Total number of token-to-collector dispatches",
		},
	)

	m.SectionsPerPass = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tokenhouse_sections_per_pass",
			Help:    "Section count per dispatch pass",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	m.CollectorErrorsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenhouse_collector_errors_total",
			Help: "Total number of isolated collector failures",
		},
		[]string{"collector", "op"},
	)

	m.TruncationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokenhouse_truncations_total",
			Help: "Total number of collectors that hit their capacity cap",
		},
		[]string{"collector"},
	)

	m.URLsCheckedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "tokenhouse_urls_checked_total",
			Help: "Total number of URLs run through the scheme checker",
		},
	)

	m.URLsDeniedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "tokenhouse_urls_denied_total",
			Help: "Total number of URLs with a denied scheme",
		},
	)

	m.UptimeSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "tokenhouse_uptime_seconds",
			Help: "Process uptime in seconds",
		},
	)

	return m
}

// RecordPass records one completed dispatch pass
func (m *Metrics) RecordPass(status string, tokens, dispatches, sections int, duration time.Duration) {
	m.PassesTotal.WithLabelValues(status).Inc()
	m.PassDuration.Observe(duration.Seconds())
	m.TokensTotal.Add(float64(tokens))
	m.DispatchesTotal.Add(float64(dispatches))
	m.SectionsPerPass.Observe(float64(sections))
}

// RecordCollectorError records one isolated collector failure
func (m *Metrics) RecordCollectorError(collector, op string) {
	m.CollectorErrorsTotal.WithLabelValues(collector, op).Inc()
}

// RecordTruncation records a collector hitting its cap
func (m *Metrics) RecordTruncation(collector string) {
	m.TruncationsTotal.WithLabelValues(collector).Inc()
}

// RecordURLVerdicts records URL checker outcomes from one pass
func (m *Metrics) RecordURLVerdicts(checked, denied int) {
	m.URLsCheckedTotal.Add(float64(checked))
	m.URLsDeniedTotal.Add(float64(denied))
}

// UpdateUptime refreshes the uptime gauge
func (m *Metrics) UpdateUptime() {
	m.UptimeSeconds.Set(time.Since(m.StartTime).Seconds())
}
