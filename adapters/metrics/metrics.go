// Package metrics provides Prometheus metrics collection for TopicLens.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for TopicLens.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Provider gateway metrics
	ProviderCalls    *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec

	// Quota metrics
	QuotaUsed  *prometheus.GaugeVec
	QuotaLimit *prometheus.GaugeVec

	// Worker pool metrics
	PoolQueueDepth prometheus.Gauge
	PoolTasks      *prometheus.CounterVec

	// Notification metrics
	Notifications *prometheus.CounterVec
}

// New creates a collector registered on the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector on a custom registry. Useful for
// testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "topiclens",
				Name:      "requests_total",
				Help:      "Total number of API requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "topiclens",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "topiclens",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),

		ProviderCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "topiclens",
				Name:      "provider_calls_total",
				Help:      "Total upstream provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),
		ProviderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "topiclens",
				Name:      "provider_call_duration_seconds",
				Help:      "Upstream provider call duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),

		QuotaUsed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "topiclens",
				Name:      "quota_used",
				Help:      "Quota units used in the current daily window",
			},
			[]string{"provider"},
		),
		QuotaLimit: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "topiclens",
				Name:      "quota_limit",
				Help:      "Configured daily quota limit",
			},
			[]string{"provider"},
		),

		PoolQueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "topiclens",
				Name:      "worker_pool_queue_depth",
				Help:      "Tasks currently waiting in the worker pool queue",
			},
		),
		PoolTasks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "topiclens",
				Name:      "worker_pool_tasks_total",
				Help:      "Total worker pool tasks by outcome",
			},
			[]string{"outcome"},
		),

		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "topiclens",
				Name:      "notifications_total",
				Help:      "Total webhook notifications by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
	}
}

// Provider call outcomes.
const (
	OutcomeLive  = "live"
	OutcomeDemo  = "demo"
	OutcomeQuota = "quota_exceeded"
)

// ObserveQuota updates the quota gauges from a ledger snapshot entry.
func (c *Collector) ObserveQuota(provider string, used, limit int64) {
	c.QuotaUsed.WithLabelValues(provider).Set(float64(used))
	c.QuotaLimit.WithLabelValues(provider).Set(float64(limit))
}

// NormalizePath reduces label cardinality for unmatched paths.
func NormalizePath(path string) string {
	if len(path) > 50 {
		return path[:50] + "..."
	}
	return path
}
