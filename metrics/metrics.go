// Package metrics provides operation, record and bus metrics.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector provides Prometheus metrics collection for arbor
// mutations and the notification bus. It owns its registry.
type PrometheusCollector struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	recordCount       *prometheus.GaugeVec
	publishedTotal    *prometheus.CounterVec
	subscribers       *prometheus.GaugeVec
	registry          *prometheus.Registry
}

// NewPrometheusCollector creates a new Prometheus metrics collector
func NewPrometheusCollector() *PrometheusCollector {
	registry := prometheus.NewRegistry()

	operationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbor_operations_total",
			Help: "Total number of mutations by operation and status",
		},
		[]string{"operation", "status"},
	)

	operationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arbor_operation_duration_seconds",
			Help:    "Duration of mutations by operation",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		},
		[]string{"operation"},
	)

	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbor_errors_total",
			Help: "Total number of failed mutations by operation and error type",
		},
		[]string{"operation", "error_type"},
	)

	recordCount := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "arbor_records",
			Help: "Current number of stored records by kind",
		},
		[]string{"kind"},
	)

	publishedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbor_events_published_total",
			Help: "Total number of events published by topic class",
		},
		[]string{"topic"},
	)

	subscribers := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "arbor_subscribers",
			Help: "Current number of live subscriptions by topic class",
		},
		[]string{"topic"},
	)

	registry.MustRegister(operationsTotal)
	registry.MustRegister(operationDuration)
	registry.MustRegister(errorsTotal)
	registry.MustRegister(recordCount)
	registry.MustRegister(publishedTotal)
	registry.MustRegister(subscribers)

	return &PrometheusCollector{
		operationsTotal:   operationsTotal,
		operationDuration: operationDuration,
		errorsTotal:       errorsTotal,
		recordCount:       recordCount,
		publishedTotal:    publishedTotal,
		subscribers:       subscribers,
		registry:          registry,
	}
}

// RecordOperation records the completion of a mutation
func (m *PrometheusCollector) RecordOperation(ctx context.Context, operation string, status string, duration time.Duration) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordError records an error occurrence
func (m *PrometheusCollector) RecordError(ctx context.Context, operation string, errorType string) {
	m.errorsTotal.WithLabelValues(operation, errorType).Inc()
}

// SetRecordCount sets the current count for a record kind
func (m *PrometheusCollector) SetRecordCount(ctx context.Context, kind string, count int) {
	m.recordCount.WithLabelValues(kind).Set(float64(count))
}

// RecordPublish counts a published event
func (m *PrometheusCollector) RecordPublish(topicClass string) {
	m.publishedTotal.WithLabelValues(topicClass).Inc()
}

// AddSubscribers adjusts the live subscription gauge
func (m *PrometheusCollector) AddSubscribers(topicClass string, delta int) {
	m.subscribers.WithLabelValues(topicClass).Add(float64(delta))
}

// Registry returns the Prometheus registry for HTTP exposure
func (m *PrometheusCollector) Registry() *prometheus.Registry {
	return m.registry
}
