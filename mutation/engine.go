// Package mutation implements create, update and delete for accounts,
// posts and comments.
//
// Each operation runs as one store transaction: validation, the write
// (including cascades) and event publication happen under the store's
// write lock, and a failed operation leaves the store unchanged. Events
// are handed to the Publisher only after the transaction has committed.
package mutation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jacentio/arbor/cascade"
	"github.com/jacentio/arbor/metrics"
	"github.com/jacentio/arbor/store"
)

// Operation names used in logs and metrics.
const (
	OpCreateAccount = "createAccount"
	OpUpdateAccount = "updateAccount"
	OpDeleteAccount = "deleteAccount"
	OpCreatePost    = "createPost"
	OpUpdatePost    = "updatePost"
	OpDeletePost    = "deletePost"
	OpCreateComment = "createComment"
	OpUpdateComment = "updateComment"
	OpDeleteComment = "deleteComment"
)

// Publisher accepts change events for a topic. Publish must not block on
// subscribers; it is called while the store's write lock is held.
type Publisher interface {
	Publish(topic string, payload any) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector metrics.Collector) Option {
	return func(e *Engine) {
		if collector != nil {
			e.metrics = collector
		}
	}
}

// Engine applies mutations to a Store and publishes the resulting events.
type Engine struct {
	store   *store.Store
	planner *cascade.Planner
	bus     Publisher
	logger  *slog.Logger
	metrics metrics.Collector
}

// New creates a mutation engine. bus may be nil, in which case no events
// are published.
func New(s *store.Store, bus Publisher, opts ...Option) *Engine {
	e := &Engine{
		store:   s,
		bus:     bus,
		logger:  slog.Default(),
		metrics: metrics.NewNoopCollector(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.planner = cascade.NewPlanner(s.Registry(), e.logger)
	e.recordCounts(context.Background())
	return e
}

// update runs fn in a write transaction and reports the outcome.
func (e *Engine) update(ctx context.Context, op string, fn func(tx *store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		e.observe(ctx, op, time.Now(), err)
		return fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	err := e.store.Update(fn)
	e.observe(ctx, op, start, err)
	return err
}

func (e *Engine) observe(ctx context.Context, op string, start time.Time, err error) {
	elapsed := time.Since(start)
	if err != nil {
		e.metrics.RecordOperation(ctx, op, "error", elapsed)
		e.metrics.RecordError(ctx, op, ClassifyError(err))
		e.logger.DebugContext(ctx, "mutation rejected",
			"operation", op,
			"error", err,
		)
		return
	}

	e.metrics.RecordOperation(ctx, op, "success", elapsed)
	e.recordCounts(ctx)
	e.logger.DebugContext(ctx, "mutation applied",
		"operation", op,
		"duration", elapsed,
	)
}

func (e *Engine) recordCounts(ctx context.Context) {
	for kind, n := range e.store.Counts() {
		e.metrics.SetRecordCount(ctx, string(kind), n)
	}
}

// publishAfterCommit queues an event for publication once tx commits.
// A publish failure does not undo the mutation; it is logged.
func (e *Engine) publishAfterCommit(ctx context.Context, tx *store.Tx, t string, payload any) {
	if e.bus == nil {
		return
	}
	tx.AfterCommit(func() {
		if err := e.bus.Publish(t, payload); err != nil {
			e.logger.WarnContext(ctx, "failed to publish event",
				"topic", t,
				"error", err,
			)
		}
	})
}
