package metrics

import (
	"context"
	"time"
)

// NoopCollector is a no-op implementation when metrics are disabled.
type NoopCollector struct{}

// NewNoopCollector creates a no-op collector
func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

func (n *NoopCollector) RecordOperation(ctx context.Context, operation string, status string, duration time.Duration) {
}

func (n *NoopCollector) RecordError(ctx context.Context, operation string, errorType string) {}

func (n *NoopCollector) SetRecordCount(ctx context.Context, kind string, count int) {}

func (n *NoopCollector) RecordPublish(topicClass string) {}

func (n *NoopCollector) AddSubscribers(topicClass string, delta int) {}
