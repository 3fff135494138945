package queue

import (
	"context"
	"log/slog"
	"sync"
)

// MemoryBroker is a process-local broker backed by buffered channels.
// It is meant for development with the worker running in the API process.
type MemoryBroker struct {
	size int

	mu     sync.Mutex
	queues map[string]chan []byte
	closed bool
}

func NewMemoryBroker(size int) *MemoryBroker {
	return &MemoryBroker{
		size:   size,
		queues: make(map[string]chan []byte),
	}
}

func (b *MemoryBroker) queue(name string) (chan []byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	q, ok := b.queues[name]
	if !ok {
		q = make(chan []byte, b.size)
		b.queues[name] = q
	}
	return q, nil
}

// Publish never blocks: a full queue returns ErrQueueFull.
func (b *MemoryBroker) Publish(ctx context.Context, queue string, body []byte) error {
	q, err := b.queue(queue)
	if err != nil {
		return err
	}

	msg := make([]byte, len(body))
	copy(msg, body)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case q <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (b *MemoryBroker) Consume(ctx context.Context, queue string, concurrency int, h Handler) error {
	if concurrency < 1 {
		concurrency = 1
	}

	q, err := b.queue(queue)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-q:
					if err := h(ctx, msg); err != nil {
						slog.Warn("job failed", "queue", queue, "error", err)
					}
				}
			}
		}()
	}
	wg.Wait()

	return nil
}

// Len reports the number of pending messages on queue.
func (b *MemoryBroker) Len(queue string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queues[queue])
}

func (b *MemoryBroker) Alive(context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
