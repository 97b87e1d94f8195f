// Package bootstrap wires infrastructure adapters to use cases for the
// worker and sweep binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"fileinsight/internal/config"
	"fileinsight/internal/core/ports"
	"fileinsight/internal/core/usecase"
	"fileinsight/internal/infrastructure/extractor"
	"fileinsight/internal/infrastructure/llm/gemini"
	"fileinsight/internal/infrastructure/llm/huggingface"
	"fileinsight/internal/infrastructure/queue/nats"
	"fileinsight/internal/infrastructure/repository/postgres"
	"fileinsight/internal/infrastructure/resilience"
	"fileinsight/internal/infrastructure/storage/localfs"
	"fileinsight/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Metrics *metrics.WorkerMetrics

	Queue   *nats.Queue
	Store   ports.FileStore
	Engine  ports.EnrichmentEngine
	Submit  ports.JobSubmitter
	Sweeper ports.BacklogSweeper

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewFileRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		// The ack window must outlast a worker's per-job timeout, or the
		// broker would redeliver jobs that are still being processed.
		AckWait: 2 * time.Duration(cfg.WorkerJobTimeoutSec) * time.Second,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init job queue: %w", err)
	}

	// Remote AI services share one throttled executor so the per-minute
	// budget covers classification and summarization together.
	aiConfig := resilience.DefaultConfig()
	aiConfig.RequestsPerMinute = cfg.AIRequestsPerMinute
	aiExecutor := resilience.NewExecutor(aiConfig)

	classifier := huggingface.New(cfg.HFModelURL, cfg.HFAPIKey, aiExecutor)
	summarizer, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, aiExecutor)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init summarizer: %w", err)
	}

	engine := usecase.NewEnrichFileUseCase(extractor.New(storage), classifier, summarizer)
	submit := usecase.NewSubmitEnrichmentUseCase(queue)
	sweeper := usecase.NewSweepBacklogUseCase(repo, submit)

	return &App{
		Config:  cfg,
		Metrics: metrics.NewWorkerMetrics("worker"),

		Queue:   queue,
		Store:   repo,
		Engine:  engine,
		Submit:  submit,
		Sweeper: sweeper,

		closeFn: func() {
			queue.Close()
			summarizer.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
