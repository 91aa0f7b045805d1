package metrics

import (
	"context"
	"time"
)

// Collector is the interface for metrics collection.
// Implementations include the Prometheus-backed collector and the no-op
// collector used when metrics are disabled.
type Collector interface {
	// RecordOperation records the completion of a mutation with its status
	// ("success" or "error").
	RecordOperation(ctx context.Context, operation string, status string, duration time.Duration)
	RecordError(ctx context.Context, operation string, errorType string)
	SetRecordCount(ctx context.Context, kind string, count int)

	// RecordPublish counts an event published on a topic class.
	RecordPublish(topicClass string)

	// AddSubscribers adjusts the live subscription gauge for a topic class.
	AddSubscribers(topicClass string, delta int)
}
