package usecase

import (
	"context"
	"fmt"

	"fileinsight/internal/core/ports"
)

// defaultSweepLimit bounds a sweep batch when the caller passes no limit.
const defaultSweepLimit = 5

// SweepBacklogUseCase schedules enrichment for files that were stored but
// never processed. It only selects unprocessed records, so re-running it
// against completed work is a no-op.
type SweepBacklogUseCase struct {
	store     ports.FileStore
	submitter ports.JobSubmitter
}

func NewSweepBacklogUseCase(store ports.FileStore, submitter ports.JobSubmitter) *SweepBacklogUseCase {
	return &SweepBacklogUseCase{store: store, submitter: submitter}
}

// Sweep enqueues up to limit unprocessed files and reports how many jobs it
// submitted.
func (uc *SweepBacklogUseCase) Sweep(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = defaultSweepLimit
	}

	records, err := uc.store.FindUnprocessed(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("find unprocessed files: %w", err)
	}

	submitted := 0
	for _, rec := range records {
		if err := uc.submitter.Submit(ctx, rec); err != nil {
			return submitted, fmt.Errorf("submit backlog job for file %s: %w", rec.ID, err)
		}
		submitted++
	}
	return submitted, nil
}
