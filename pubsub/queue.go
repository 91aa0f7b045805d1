package pubsub

import "sync"

// queue is an unbounded FIFO of messages for one subscription.
// Publishers never block on it; the subscription's forwarder drains it.
type queue struct {
	mu     sync.Mutex
	items  []Message
	closed bool
	signal chan struct{} // buffered, size 1; coalesces wakeups
}

func newQueue() *queue {
	return &queue{signal: make(chan struct{}, 1)}
}

// push appends m. It reports false once the queue is closed.
func (q *queue) push(m Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, m)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// pop removes the front message without blocking.
func (q *queue) pop() (Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Message{}, false
	}
	m := q.items[0]
	q.items[0] = Message{}
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return m, true
}

// close rejects further pushes and drops anything pending.
func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.items = nil
}

// len returns the number of pending messages.
func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
