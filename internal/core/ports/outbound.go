package ports

import (
	"context"
	"io"

	"fileinsight/internal/core/domain"
)

// FileStore is the sole persistence boundary of the pipeline.
type FileStore interface {
	FindUnprocessed(ctx context.Context, limit int) ([]domain.FileRecord, error)
	UpdateEnrichment(ctx context.Context, fileID string, tags []string, summary string, status domain.EnrichmentStatus) error
}

// ObjectStorage reads stored source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// JobQueue delivers enrichment jobs from producers to workers at least once.
// Ordering across jobs is not guaranteed.
type JobQueue interface {
	Enqueue(ctx context.Context, job domain.EnrichmentJob) error
	Subscribe(ctx context.Context, handler func(context.Context, domain.EnrichmentJob) error) error
}

// ContentExtractor turns a stored file into text, raw bytes, or nothing.
// Extraction failures degrade to unsupported/empty content, never an error.
type ContentExtractor interface {
	Extract(ctx context.Context, path, contentType string) domain.Content
}

// ImageClassifier labels image bytes. Failures yield an empty slice.
type ImageClassifier interface {
	Classify(ctx context.Context, image []byte) []string
}

// Summarizer produces prose for extracted text. Remote failures resolve to a
// deterministic fallback string; the error return is reserved for context
// cancellation.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
