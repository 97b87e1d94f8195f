package usecase

import (
	"context"
	"errors"
	"fmt"

	"fileinsight/internal/core/domain"
	"fileinsight/internal/core/ports"
)

// SubmitEnrichmentUseCase turns a stored file record into a queued job. It is
// the single producer entry point, shared by the upload layer and the backlog
// sweep.
type SubmitEnrichmentUseCase struct {
	queue ports.JobQueue
}

func NewSubmitEnrichmentUseCase(queue ports.JobQueue) *SubmitEnrichmentUseCase {
	return &SubmitEnrichmentUseCase{queue: queue}
}

func (uc *SubmitEnrichmentUseCase) Submit(ctx context.Context, rec domain.FileRecord) error {
	if rec.ID == "" || rec.Path == "" {
		return domain.WrapError(domain.ErrInvalidInput, "submit enrichment", errors.New("file record missing id or path"))
	}

	job := domain.NewEnrichmentJob(rec)
	if err := uc.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("enqueue enrichment job: %w", err)
	}
	return nil
}
