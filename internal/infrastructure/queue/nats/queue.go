// Package nats delivers enrichment jobs over a JetStream work queue.
// Consumers share a durable queue-group consumer, so each job lands on
// exactly one worker, and a message is acknowledged only after its handler
// returns. Unacknowledged jobs (worker crash, ack window expiry) are
// redelivered, which keeps delivery at-least-once.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"fileinsight/internal/core/domain"
	"fileinsight/internal/infrastructure/resilience"
)

const (
	queueGroup = "workers"
	streamName = "fileinsight_jobs"

	// maxDeliver caps redelivery of a job that keeps failing; beyond it the
	// broker stops retrying a poisoned message.
	maxDeliver = 5
)

type Queue struct {
	conn     *nats.Conn
	js       nats.JetStreamContext
	subject  string
	executor *resilience.Executor
	ackWait  time.Duration
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor

	// AckWait is how long the broker waits for an ack before redelivering.
	// It must exceed the worker's per-job timeout.
	AckWait time.Duration
}

func NewWithOptions(url, subject string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}
	ackWait := options.AckWait
	if ackWait <= 0 {
		ackWait = 10 * time.Minute
	}

	conn, err := nats.Connect(
		url,
		nats.Name("fileinsight"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream context: %w", err)
	}
	if err := ensureStream(js, subject); err != nil {
		conn.Close()
		return nil, err
	}

	return &Queue{
		conn:     conn,
		js:       js,
		subject:  subject,
		executor: options.ResilienceExecutor,
		ackWait:  ackWait,
	}, nil
}

// ensureStream creates the work-queue stream on first use. Work-queue
// retention removes a message once it is acknowledged, so the stream holds
// exactly the jobs still owed to a worker.
func ensureStream(js nats.JetStreamContext, subject string) error {
	if _, err := js.StreamInfo(streamName); err == nil {
		return nil
	} else if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("stream info: %w", err)
	}

	_, err := js.AddStream(&nats.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subject},
		Retention: nats.WorkQueuePolicy,
		Storage:   nats.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("create stream: %w", err)
	}
	return nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) Enqueue(ctx context.Context, job domain.EnrichmentJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode enrichment job: %w", err)
	}

	call := func(callCtx context.Context) error {
		if _, err := q.js.Publish(q.subject, payload, nats.Context(callCtx)); err != nil {
			return fmt.Errorf("jetstream publish: %w", err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

// Subscribe blocks until ctx is cancelled, delivering decoded jobs to
// handler. A job is acknowledged only after handler returns nil; a handler
// error naks the message for redelivery. Payloads that fail to decode or
// carry an unknown schema version are terminated instead: redelivering them
// could never succeed.
func (q *Queue) Subscribe(ctx context.Context, handler func(context.Context, domain.EnrichmentJob) error) error {
	sub, err := q.js.QueueSubscribe(q.subject, queueGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		var job domain.EnrichmentJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			slog.Warn("malformed_job_payload", "subject", q.subject, "error", err)
			_ = msg.Term()
			return
		}
		if job.Schema != domain.JobSchemaVersion || job.Kind != domain.JobKindEnrich {
			slog.Warn("unknown_job_schema", "schema", job.Schema, "kind", job.Kind, "job_id", job.JobID)
			_ = msg.Term()
			return
		}

		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := handler(handlerCtx, job); err != nil {
			slog.Error("job_handler_failed", "job_id", job.JobID, "file_id", job.FileID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(queueGroup),
		nats.ManualAck(),
		nats.AckExplicit(),
		nats.AckWait(q.ackWait),
		nats.MaxDeliver(maxDeliver),
	)
	if err != nil {
		return fmt.Errorf("jetstream subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}
