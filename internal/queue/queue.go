// Package queue provides the bounded in-memory job queue and the job
// status registry. The queue is multi-producer/single-consumer: many
// callers enqueue concurrently, exactly one worker drains it in strict
// FIFO order.
package queue

import (
	"context"
	"log/slog"
)

// Queue is a bounded FIFO of jobs. A full queue blocks producers instead
// of rejecting work: backpressure is deliberate, submitted invoices are
// never silently dropped.
type Queue struct {
	jobs   chan string
	logger *slog.Logger
}

// New creates a queue with the given capacity.
func New(capacity int, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		jobs:   make(chan string, capacity),
		logger: logger.With("component", "job_queue"),
	}
}

// Enqueue pushes a job id, blocking while the queue is at capacity.
// It returns the context's error if the caller gives up first.
func (q *Queue) Enqueue(ctx context.Context, jobID string) error {
	select {
	case q.jobs <- jobID:
		q.logger.DebugContext(ctx, "job enqueued",
			"job_id", jobID, "queue_len", len(q.jobs), "queue_cap", cap(q.jobs))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Chan exposes the consume side for the single worker.
func (q *Queue) Chan() <-chan string {
	return q.jobs
}

// Len reports how many jobs are waiting in the queue.
func (q *Queue) Len() int {
	return len(q.jobs)
}

// Cap reports the queue capacity.
func (q *Queue) Cap() int {
	return cap(q.jobs)
}
