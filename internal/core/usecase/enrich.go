package usecase

import (
	"context"
	"fmt"
	"strings"

	"fileinsight/internal/core/domain"
	"fileinsight/internal/core/ports"
)

// Fixed summaries for files the pipeline cannot enrich. These are user-facing
// and persisted verbatim, so they must stay deterministic.
const (
	msgUnsupportedType = "File type not supported for summarization"
	msgExtractFailed   = "Failed to extract text from document. The PDF might be image-based, scanned, or encrypted."
	msgTooShortFmt     = "Document too short (%d characters)."
	msgUnavailable     = "AI summarization temporarily unavailable."
)

// minSummaryLength is the normalized-text threshold below which the remote
// summarizer is never invoked.
const minSummaryLength = 50

// EnrichFileUseCase orchestrates extraction, classification, and
// summarization for one stored file. It never touches the store and never
// returns an error: every failure mode degrades the result instead.
type EnrichFileUseCase struct {
	extractor  ports.ContentExtractor
	classifier ports.ImageClassifier
	summarizer ports.Summarizer
}

func NewEnrichFileUseCase(
	extractor ports.ContentExtractor,
	classifier ports.ImageClassifier,
	summarizer ports.Summarizer,
) *EnrichFileUseCase {
	return &EnrichFileUseCase{
		extractor:  extractor,
		classifier: classifier,
		summarizer: summarizer,
	}
}

func (uc *EnrichFileUseCase) Enrich(ctx context.Context, path, contentType string) domain.EnrichmentResult {
	content := uc.extractor.Extract(ctx, path, contentType)

	if domain.Categorize(contentType) == domain.CategoryImage && content.Kind == domain.ContentBytes {
		return uc.enrichImage(ctx, content.Bytes)
	}

	if content.Kind == domain.ContentText {
		if content.Text != "" {
			return uc.enrichDocument(ctx, content.Text)
		}
		// A supported document type whose extraction yielded nothing.
		return domain.EnrichmentResult{
			Summary: msgExtractFailed,
			Outcome: domain.OutcomeUnsupported,
		}
	}

	return domain.EnrichmentResult{
		Summary: msgUnsupportedType,
		Outcome: domain.OutcomeUnsupported,
	}
}

func (uc *EnrichFileUseCase) enrichImage(ctx context.Context, image []byte) domain.EnrichmentResult {
	tags := []string{string(domain.CategoryImage)}
	tags = append(tags, uc.classifier.Classify(ctx, image)...)
	return domain.EnrichmentResult{
		Tags:    tags,
		Outcome: domain.OutcomeSuccess,
	}
}

func (uc *EnrichFileUseCase) enrichDocument(ctx context.Context, text string) domain.EnrichmentResult {
	normalized := normalizeWhitespace(text)
	if len(normalized) < minSummaryLength {
		return domain.EnrichmentResult{
			Summary: fmt.Sprintf(msgTooShortFmt, len(normalized)),
			Outcome: domain.OutcomeDegraded,
		}
	}

	summary, err := uc.summarizer.Summarize(ctx, text)
	if err != nil {
		return domain.EnrichmentResult{
			Summary: msgUnavailable,
			Outcome: domain.OutcomeDegraded,
		}
	}
	return domain.EnrichmentResult{
		Summary: summary,
		Outcome: domain.OutcomeSuccess,
	}
}

func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
