// Package memory is a channel-backed job queue for single-process setups and
// tests. Delivery is at-least-once: a job whose handler fails goes back on
// the channel for another attempt.
package memory

import (
	"context"
	"log/slog"

	"fileinsight/internal/core/domain"
)

const defaultBuffer = 64

type Queue struct {
	jobs chan domain.EnrichmentJob
}

func New(buffer int) *Queue {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Queue{jobs: make(chan domain.EnrichmentJob, buffer)}
}

func (q *Queue) Enqueue(ctx context.Context, job domain.EnrichmentJob) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe delivers jobs to handler until ctx is cancelled. Failed jobs are
// requeued; if the buffer is full at that moment the job is dropped with a
// log line rather than blocking the consumer.
func (q *Queue) Subscribe(ctx context.Context, handler func(context.Context, domain.EnrichmentJob) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case job := <-q.jobs:
			if err := handler(ctx, job); err != nil {
				slog.Warn("job_handler_failed", "job_id", job.JobID, "file_id", job.FileID, "error", err)
				select {
				case q.jobs <- job:
				default:
					slog.Error("job_requeue_dropped", "job_id", job.JobID, "file_id", job.FileID)
				}
			}
		}
	}
}
