package usecase

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"fileinsight/internal/core/domain"
)

type extractorFake struct {
	content domain.Content
}

func (f *extractorFake) Extract(context.Context, string, string) domain.Content {
	return f.content
}

type classifierFake struct {
	labels []string
	calls  int
}

func (f *classifierFake) Classify(context.Context, []byte) []string {
	f.calls++
	return f.labels
}

type summarizerFake struct {
	summary string
	err     error
	calls   int
}

func (f *summarizerFake) Summarize(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func newEngine(content domain.Content, classifier *classifierFake, summarizer *summarizerFake) *EnrichFileUseCase {
	return NewEnrichFileUseCase(&extractorFake{content: content}, classifier, summarizer)
}

func TestEnrichImageCombinesCategoryAndLabels(t *testing.T) {
	classifier := &classifierFake{labels: []string{"cat", "animal"}}
	uc := newEngine(domain.BytesContent([]byte{0xff, 0xd8}), classifier, &summarizerFake{})

	result := uc.Enrich(context.Background(), "photos/cat.jpg", "image/jpeg")

	want := []string{"image", "cat", "animal"}
	if !reflect.DeepEqual(result.Tags, want) {
		t.Fatalf("Tags = %v, want %v", result.Tags, want)
	}
	if result.Outcome != domain.OutcomeSuccess {
		t.Fatalf("Outcome = %s, want success", result.Outcome)
	}
}

func TestEnrichImageClassifierFailureKeepsCategoryTag(t *testing.T) {
	classifier := &classifierFake{labels: nil}
	uc := newEngine(domain.BytesContent([]byte{0x01}), classifier, &summarizerFake{})

	result := uc.Enrich(context.Background(), "photos/x.png", "image/png")

	if !reflect.DeepEqual(result.Tags, []string{"image"}) {
		t.Fatalf("Tags = %v, want [image]", result.Tags)
	}
	if result.Outcome != domain.OutcomeSuccess {
		t.Fatalf("Outcome = %s, want success", result.Outcome)
	}
}

func TestEnrichShortDocumentSkipsSummarizer(t *testing.T) {
	summarizer := &summarizerFake{summary: "never used"}
	uc := newEngine(domain.TextContent("ten chars."), &classifierFake{}, summarizer)

	result := uc.Enrich(context.Background(), "docs/tiny.txt", "text/plain")

	if result.Summary != "Document too short (10 characters)." {
		t.Fatalf("Summary = %q", result.Summary)
	}
	if result.Outcome != domain.OutcomeDegraded {
		t.Fatalf("Outcome = %s, want degraded", result.Outcome)
	}
	if len(result.Tags) != 0 {
		t.Fatalf("expected no tags for text documents, got %v", result.Tags)
	}
	if summarizer.calls != 0 {
		t.Fatalf("summarizer invoked %d times for short text", summarizer.calls)
	}
}

func TestEnrichShortThresholdCountsNormalizedLength(t *testing.T) {
	// 49 visible chars padded with whitespace that normalization collapses.
	text := "  " + strings.Repeat("a", 24) + "   \n\t " + strings.Repeat("b", 24) + "  "
	summarizer := &summarizerFake{summary: "unused"}
	uc := newEngine(domain.TextContent(text), &classifierFake{}, summarizer)

	result := uc.Enrich(context.Background(), "docs/padded.txt", "text/plain")

	if result.Summary != "Document too short (49 characters)." {
		t.Fatalf("Summary = %q", result.Summary)
	}
	if summarizer.calls != 0 {
		t.Fatalf("summarizer should not run below the threshold")
	}
}

func TestEnrichDocumentUsesSummarizerOutput(t *testing.T) {
	summarizer := &summarizerFake{summary: "A report about queues."}
	text := strings.Repeat("queueing theory in production systems ", 5)
	uc := newEngine(domain.TextContent(text), &classifierFake{}, summarizer)

	result := uc.Enrich(context.Background(), "docs/report.txt", "text/plain")

	if result.Summary != "A report about queues." {
		t.Fatalf("Summary = %q", result.Summary)
	}
	if result.Outcome != domain.OutcomeSuccess {
		t.Fatalf("Outcome = %s, want success", result.Outcome)
	}
	if summarizer.calls != 1 {
		t.Fatalf("summarizer calls = %d, want 1", summarizer.calls)
	}
}

func TestEnrichUnsupportedTypeFixedMessage(t *testing.T) {
	for _, contentType := range []string{"video/mp4", "application/zip", "application/octet-stream"} {
		uc := newEngine(domain.UnsupportedContent(), &classifierFake{}, &summarizerFake{})
		result := uc.Enrich(context.Background(), "files/blob", contentType)

		if result.Outcome != domain.OutcomeUnsupported {
			t.Fatalf("%s: Outcome = %s, want unsupported", contentType, result.Outcome)
		}
		if result.Summary != msgUnsupportedType {
			t.Fatalf("%s: Summary = %q", contentType, result.Summary)
		}
	}
}

func TestEnrichEmptyExtractionReportsExtractFailure(t *testing.T) {
	uc := newEngine(domain.TextContent(""), &classifierFake{}, &summarizerFake{})

	result := uc.Enrich(context.Background(), "docs/broken.pdf", "application/pdf")

	if result.Outcome != domain.OutcomeUnsupported {
		t.Fatalf("Outcome = %s, want unsupported", result.Outcome)
	}
	if result.Summary != msgExtractFailed {
		t.Fatalf("Summary = %q", result.Summary)
	}
}

func TestEnrichSummarizerErrorDegrades(t *testing.T) {
	summarizer := &summarizerFake{err: errors.New("context canceled")}
	text := strings.Repeat("long enough to summarize ", 4)
	uc := newEngine(domain.TextContent(text), &classifierFake{}, summarizer)

	result := uc.Enrich(context.Background(), "docs/report.txt", "text/plain")

	if result.Outcome != domain.OutcomeDegraded {
		t.Fatalf("Outcome = %s, want degraded", result.Outcome)
	}
	if result.Summary != msgUnavailable {
		t.Fatalf("Summary = %q", result.Summary)
	}
}

func TestEnrichIsDeterministic(t *testing.T) {
	summarizer := &summarizerFake{summary: "Stable output."}
	text := strings.Repeat("deterministic input text ", 4)
	uc := newEngine(domain.TextContent(text), &classifierFake{labels: []string{"x"}}, summarizer)

	first := uc.Enrich(context.Background(), "docs/a.txt", "text/plain")
	second := uc.Enrich(context.Background(), "docs/a.txt", "text/plain")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}
