package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPBroker publishes persistent messages to durable RabbitMQ queues and
// consumes them with manual acknowledgements.
type AMQPBroker struct {
	conn *amqp.Connection

	mu       sync.Mutex
	pub      *amqp.Channel
	declared map[string]bool
}

func DialAMQP(url string) (*AMQPBroker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	return &AMQPBroker{
		conn:     conn,
		pub:      ch,
		declared: make(map[string]bool),
	}, nil
}

func declare(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp declare %s: %w", queue, err)
	}
	return nil
}

func (b *AMQPBroker) Publish(ctx context.Context, queue string, body []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn.IsClosed() {
		return ErrClosed
	}

	if !b.declared[queue] {
		if err := declare(b.pub, queue); err != nil {
			return err
		}
		b.declared[queue] = true
	}

	err := b.pub.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish %s: %w", queue, err)
	}
	return nil
}

func (b *AMQPBroker) Consume(ctx context.Context, queue string, concurrency int, h Handler) error {
	if concurrency < 1 {
		concurrency = 1
	}

	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	if err := declare(ch, queue); err != nil {
		return err
	}
	if err := ch.Qos(concurrency, 0, false); err != nil {
		return fmt.Errorf("amqp qos: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume %s: %w", queue, err)
	}

	return serveDeliveries(ctx, queue, concurrency, deliveries, h, func() { _ = ch.Close() })
}

// serveDeliveries handles deliveries until ctx is cancelled, then calls stop and
// waits for in-flight jobs. If the broker closes deliveries first (lost
// connection or channel) it returns an error so the caller can restart.
func serveDeliveries(ctx context.Context, queue string, concurrency int, deliveries <-chan amqp.Delivery, h Handler, stop func()) error {
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range deliveries {
				if err := h(ctx, d.Body); err != nil {
					slog.Warn("job failed", "queue", queue, "error", err)
				}
				if err := d.Ack(false); err != nil {
					slog.Error("amqp ack failed", "queue", queue, "error", err)
				}
			}
		}()
	}

	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()

	select {
	case <-ctx.Done():
		stop()
		<-drained
		return nil
	case <-drained:
		if ctx.Err() != nil {
			return nil
		}
		slog.Error("amqp deliveries closed", "queue", queue)
		return fmt.Errorf("%w: amqp deliveries closed for %s", ErrClosed, queue)
	}
}

func (b *AMQPBroker) Alive(context.Context) bool {
	return !b.conn.IsClosed()
}

func (b *AMQPBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn.IsClosed() {
		return nil
	}
	_ = b.pub.Close()
	return b.conn.Close()
}
