package ports

import (
	"context"

	"fileinsight/internal/core/domain"
)

// EnrichmentEngine is the inbound contract for deriving tags and summaries
// from a stored file. It never returns an error: every failure mode resolves
// to a degraded or unsupported result.
type EnrichmentEngine interface {
	Enrich(ctx context.Context, path, contentType string) domain.EnrichmentResult
}

// JobSubmitter enqueues enrichment work for a stored file.
type JobSubmitter interface {
	Submit(ctx context.Context, rec domain.FileRecord) error
}

// BacklogSweeper schedules enrichment for files never processed.
type BacklogSweeper interface {
	Sweep(ctx context.Context, limit int) (int, error)
}
