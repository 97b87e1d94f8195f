// Package worker consumes enrichment jobs from the queue and drives each one
// through the engine and into the file store.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fileinsight/internal/core/domain"
	"fileinsight/internal/core/ports"
	"fileinsight/internal/observability/metrics"
)

const (
	defaultWorkers    = 4
	defaultJobTimeout = 5 * time.Minute
)

type Pool struct {
	engine  ports.EnrichmentEngine
	store   ports.FileStore
	queue   ports.JobQueue
	metrics *metrics.WorkerMetrics
	logger  *slog.Logger

	workers    int
	jobTimeout time.Duration
}

type Option func(*Pool)

func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithJobTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.jobTimeout = d
		}
	}
}

func WithMetrics(m *metrics.WorkerMetrics) Option {
	return func(p *Pool) {
		p.metrics = m
	}
}

func NewPool(engine ports.EnrichmentEngine, store ports.FileStore, queue ports.JobQueue, logger *slog.Logger, opts ...Option) *Pool {
	p := &Pool{
		engine:     engine,
		store:      store,
		queue:      queue,
		logger:     logger,
		workers:    defaultWorkers,
		jobTimeout: defaultJobTimeout,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes jobs on a fixed set of workers until ctx is cancelled. Each
// worker holds its own subscription in the shared queue group and processes
// inside the handler, so the queue acknowledges a job only after its result
// has been written to the store. A job lost to a crash mid-flight stays
// unacknowledged and is redelivered.
func (p *Pool) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make(chan error, p.workers)
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- p.queue.Subscribe(ctx, func(handlerCtx context.Context, job domain.EnrichmentJob) error {
				p.process(handlerCtx, job)
				return nil
			})
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// process runs one job to completion. A failed store write is logged and the
// job dropped; the queue will redeliver work lost to a crash, and the update
// is idempotent, so a retry here would only duplicate effort.
func (p *Pool) process(ctx context.Context, job domain.EnrichmentJob) {
	jobCtx, cancel := context.WithTimeout(ctx, p.jobTimeout)
	defer cancel()

	if p.metrics != nil {
		p.metrics.StartJob()
	}
	start := time.Now()

	result := p.engine.Enrich(jobCtx, job.FilePath, job.ContentType)
	outcome := string(result.Outcome)

	if err := p.store.UpdateEnrichment(jobCtx, job.FileID, result.Tags, result.Summary, result.Outcome.Status()); err != nil {
		p.logger.Error("enrichment_store_failed",
			"job_id", job.JobID,
			"file_id", job.FileID,
			"outcome", outcome,
			"error", err,
		)
		if p.metrics != nil {
			p.metrics.JobDropped()
			p.metrics.FinishJob("store_error", time.Since(start))
		}
		return
	}

	p.logger.Info("file_enriched",
		"job_id", job.JobID,
		"file_id", job.FileID,
		"outcome", outcome,
		"tags", len(result.Tags),
		"duration", time.Since(start),
	)
	if p.metrics != nil {
		p.metrics.FinishJob(outcome, time.Since(start))
	}
}
