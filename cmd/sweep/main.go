// Command sweep enqueues enrichment jobs for files that were never
// processed, then exits. Run it on a schedule or by hand after an outage.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fileinsight/internal/bootstrap"
	"fileinsight/internal/config"
	"fileinsight/internal/observability/logging"
)

func main() {
	limit := flag.Int("limit", 0, "maximum files to enqueue (0 uses SWEEP_BATCH_SIZE)")
	flag.Parse()

	cfg := config.Load()
	logger := logging.NewJSONLogger("sweep", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	batch := *limit
	if batch <= 0 {
		batch = cfg.SweepBatchSize
	}

	enqueued, err := app.Sweeper.Sweep(ctx, batch)
	if err != nil {
		logger.Error("sweep_failed", "enqueued", enqueued, "error", err)
		os.Exit(1)
	}
	logger.Info("sweep_completed", "enqueued", enqueued)
}
