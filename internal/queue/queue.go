// Package queue distributes background jobs between the API and the worker.
// Delivery is at-least-once: a message is removed from its queue only after the
// handler returned, whatever the handler's result.
package queue

import (
	"context"
	"errors"
)

var (
	ErrQueueFull = errors.New("queue is full")
	ErrClosed    = errors.New("broker is closed")
)

// Handler processes one message body. A returned error is logged and the
// message is still acknowledged: job failures are terminal.
type Handler func(ctx context.Context, body []byte) error

type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

type Consumer interface {
	// Consume runs concurrency handlers on queue until ctx is cancelled.
	Consume(ctx context.Context, queue string, concurrency int, h Handler) error
}

type Broker interface {
	Publisher
	Consumer
	Alive(ctx context.Context) bool
	Close() error
}
