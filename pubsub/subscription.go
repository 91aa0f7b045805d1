package pubsub

import (
	"context"
	"fmt"
	"sync"

	"github.com/jacentio/arbor/internal/topic"
)

// Subscription is one subscriber's attachment to a topic.
type Subscription struct {
	id     int64
	topic  string
	bus    *Bus
	queue  *queue
	events chan Message

	ctx    context.Context
	cancel context.CancelFunc
	stop   func() bool
	done   chan struct{}
	once   sync.Once
}

func newSubscription(id int64, t string, bus *Bus) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	return &Subscription{
		id:     id,
		topic:  t,
		bus:    bus,
		queue:  newQueue(),
		events: make(chan Message, bus.config.Buffer),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// start ties the subscription to parent and launches the forwarder.
// stop is written before the forwarder exists and only read by it.
func (s *Subscription) start(parent context.Context) {
	s.stop = context.AfterFunc(parent, s.Close)
	go s.forward()
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() string {
	return s.topic
}

// Events returns the delivery channel. It is closed once the subscription ends;
// messages still queued at that point are dropped.
func (s *Subscription) Events() <-chan Message {
	return s.events
}

// Done is closed after the forwarder has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close detaches the subscription from its topic and waits for the
// forwarder to exit. Other subscribers of the topic are unaffected.
// Close is safe to call more than once.
func (s *Subscription) Close() {
	s.bus.detach(s)
	s.signalClose()
	<-s.done
}

// forward drains the queue into the Events channel until the
// subscription is cancelled.
func (s *Subscription) forward() {
	defer close(s.done)
	defer close(s.events)
	defer s.stop()

	for {
		msg, ok := s.queue.pop()
		if !ok {
			select {
			case <-s.ctx.Done():
				return
			case <-s.queue.signal:
				continue
			}
		}

		select {
		case s.events <- msg:
		case <-s.ctx.Done():
			return
		}
	}
}

// signalClose cancels the forwarder exactly once.
func (s *Subscription) signalClose() {
	s.once.Do(func() {
		s.queue.close()
		s.cancel()
		s.bus.metrics.AddSubscribers(topic.Class(s.topic), -1)
		s.bus.logger.Debug("subscription closed", "topic", s.topic, "subscriptionID", s.id)
	})
}

// shutdown waits for forwarder exit or returns when ctx expires.
func (s *Subscription) shutdown(ctx context.Context) error {
	s.signalClose()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown subscription %s#%d: %w", s.topic, s.id, ctx.Err())
	}
}
