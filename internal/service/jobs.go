package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clementroume/holbertonschool-files-manager/internal/queue"
)

// enqueue publishes job on queueName. It is bounded by timeout and ignores
// cancellation of ctx, so an aborted request cannot lose a job half-way.
func enqueue(ctx context.Context, p queue.Publisher, timeout time.Duration, queueName string, job any) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	err = p.Publish(ctx, queueName, body)
	if err != nil {
		jobsEnqueuedTotal.WithLabelValues(queueName, "error").Inc()
		return err
	}
	jobsEnqueuedTotal.WithLabelValues(queueName, "ok").Inc()
	return nil
}
