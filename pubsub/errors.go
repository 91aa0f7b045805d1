package pubsub

import "errors"

var (
	// ErrClosed is returned when publishing or subscribing on a closed bus.
	ErrClosed = errors.New("arbor: bus closed")

	// ErrEmptyTopic is returned when a topic name is empty.
	ErrEmptyTopic = errors.New("arbor: empty topic")
)
