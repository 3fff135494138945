package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisPollTimeout = time.Second
	redisRetryDelay  = 2 * time.Second
)

// RedisBroker implements a reliable list queue: producers LPUSH, consumers
// BRPOPLPUSH into "<queue>:processing" and LREM once handled.
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func processingKey(queue string) string {
	return queue + ":processing"
}

func (b *RedisBroker) Publish(ctx context.Context, queue string, body []byte) error {
	err := b.client.LPush(ctx, queue, body).Err()
	if err != nil {
		return fmt.Errorf("redis lpush %s: %w", queue, err)
	}
	return nil
}

func (b *RedisBroker) Consume(ctx context.Context, queue string, concurrency int, h Handler) error {
	if concurrency < 1 {
		concurrency = 1
	}

	n, err := b.recover(ctx, queue)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("requeued unfinished jobs", "queue", queue, "count", n)
	}

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.loop(ctx, queue, h)
		}()
	}
	wg.Wait()

	return nil
}

// recover moves messages left in the processing list by a crashed consumer
// back onto the queue.
func (b *RedisBroker) recover(ctx context.Context, queue string) (int, error) {
	n := 0
	for {
		err := b.client.RPopLPush(ctx, processingKey(queue), queue).Err()
		if errors.Is(err, redis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("redis recover %s: %w", queue, err)
		}
		n++
	}
}

func (b *RedisBroker) loop(ctx context.Context, queue string, h Handler) {
	for {
		if ctx.Err() != nil {
			return
		}

		msg, err := b.client.BRPopLPush(ctx, queue, processingKey(queue), redisPollTimeout).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("redis consume failed", "queue", queue, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(redisRetryDelay):
			}
			continue
		}

		if err := h(ctx, []byte(msg)); err != nil {
			slog.Warn("job failed", "queue", queue, "error", err)
		}

		// Ack even during shutdown
		ackCtx := context.WithoutCancel(ctx)
		if err := b.client.LRem(ackCtx, processingKey(queue), 1, msg).Err(); err != nil {
			slog.Error("redis ack failed", "queue", queue, "error", err)
		}
	}
}

func (b *RedisBroker) Alive(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return b.client.Ping(ctx).Err() == nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
