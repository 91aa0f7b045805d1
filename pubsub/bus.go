// Package pubsub implements the topic-based notification bus.
//
// Each subscription owns an unbounded FIFO queue drained by one forwarder
// goroutine into its Events channel, so publishing never blocks on a slow
// subscriber and messages on a topic arrive in publication order.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jacentio/arbor/internal/topic"
	"github.com/jacentio/arbor/metrics"
)

// Message is one event delivered to a subscriber.
type Message struct {
	Topic       string
	Seq         uint64
	Payload     any
	PublishedAt time.Time
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger for subscription lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMetrics sets the collector for publish and subscriber metrics.
func WithMetrics(collector metrics.Collector) Option {
	return func(b *Bus) {
		if collector != nil {
			b.metrics = collector
		}
	}
}

// Bus fans out published messages to the live subscribers of a topic.
// No message is replayed to a subscriber that attaches later.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	nextID int64
	topics map[string]map[int64]*Subscription

	pubMu sync.Mutex
	seq   uint64

	config  Config
	logger  *slog.Logger
	metrics metrics.Collector
	now     func() time.Time
}

// New creates a Bus.
func New(config Config, opts ...Option) *Bus {
	config.validate()
	b := &Bus{
		topics:  make(map[string]map[int64]*Subscription),
		config:  config,
		logger:  slog.Default(),
		metrics: metrics.NewNoopCollector(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish enqueues payload for every current subscriber of t.
// Concurrent publishers are serialized, so every subscriber of a topic
// observes the same order.
func (b *Bus) Publish(t string, payload any) error {
	if t == "" {
		return fmt.Errorf("publish: %w", ErrEmptyTopic)
	}

	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	subs, err := b.snapshot(t)
	if err != nil {
		return fmt.Errorf("publish %s: %w", t, err)
	}

	b.seq++
	msg := Message{
		Topic:       t,
		Seq:         b.seq,
		Payload:     payload,
		PublishedAt: b.now(),
	}
	for _, sub := range subs {
		sub.queue.push(msg)
	}

	b.metrics.RecordPublish(topic.Class(t))
	return nil
}

// Subscribe attaches a new subscriber to t. The subscription ends when
// Close is called, when ctx is cancelled, or when the bus closes.
func (b *Bus) Subscribe(ctx context.Context, t string) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", t, err)
	}
	if t == "" {
		return nil, fmt.Errorf("subscribe: %w", ErrEmptyTopic)
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, fmt.Errorf("subscribe %s: %w", t, ErrClosed)
	}
	b.nextID++
	sub := newSubscription(b.nextID, t, b)
	subs, ok := b.topics[t]
	if !ok {
		subs = make(map[int64]*Subscription)
		b.topics[t] = subs
	}
	subs[sub.id] = sub
	b.metrics.AddSubscribers(topic.Class(t), 1)
	sub.start(ctx)
	b.mu.Unlock()

	b.logger.Debug("subscription opened", "topic", t, "subscriptionID", sub.id)
	return sub, nil
}

// SubscriberCount returns the number of live subscriptions on t.
func (b *Bus) SubscriberCount(t string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[t])
}

// Close ends every subscription and rejects further publishes and
// subscribes. It waits for forwarders to exit or for ctx to expire.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	var subs []*Subscription
	for _, byID := range b.topics {
		for _, sub := range byID {
			subs = append(subs, sub)
		}
	}
	b.topics = make(map[string]map[int64]*Subscription)
	b.mu.Unlock()

	var closeErrs []error
	for _, sub := range subs {
		if err := sub.shutdown(ctx); err != nil {
			closeErrs = append(closeErrs, err)
		}
	}
	if len(closeErrs) > 0 {
		return fmt.Errorf("close bus: %w", errors.Join(closeErrs...))
	}
	return nil
}

// snapshot returns the current subscribers of t for lock-free fan-out.
func (b *Bus) snapshot(t string) ([]*Subscription, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, ErrClosed
	}
	subs := make([]*Subscription, 0, len(b.topics[t]))
	for _, sub := range b.topics[t] {
		subs = append(subs, sub)
	}
	return subs, nil
}

// detach removes sub from its topic. It is a no-op if already removed.
func (b *Bus) detach(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.topics[sub.topic]
	if !ok {
		return
	}
	delete(subs, sub.id)
	if len(subs) == 0 {
		delete(b.topics, sub.topic)
	}
}
