package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"unicode/utf8"

	"google.golang.org/api/googleapi"

	"fileinsight/internal/core/domain"
)

func fakeSummarizer(generate generateFunc) *Summarizer {
	return &Summarizer{generate: generate}
}

func loremText(chars int) string {
	return strings.Repeat("a", chars/2) + " " + strings.Repeat("b", chars-chars/2-1)
}

func TestSummarizeReturnsGeneratedSummary(t *testing.T) {
	s := fakeSummarizer(func(ctx context.Context, prompt string) (string, error) {
		return "A short report about queues.", nil
	})

	got, err := s.Summarize(context.Background(), loremText(400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A short report about queues." {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestSummarizeAppendsPageCountForLargeDocuments(t *testing.T) {
	s := fakeSummarizer(func(ctx context.Context, prompt string) (string, error) {
		return "A study of distributed queues.", nil
	})

	got, err := s.Summarize(context.Background(), loremText(12000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "A study of distributed queues. [Document: approximately 5 pages]"
	if got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
}

func TestSummarizePrependsDetectedMetadata(t *testing.T) {
	text := "QUARTERLY REVENUE REPORT\nwritten by: John Smith\n" + loremText(200)
	s := fakeSummarizer(func(ctx context.Context, prompt string) (string, error) {
		return "Revenue grew in every region.", nil
	})

	got, err := s.Summarize(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `"QUARTERLY REVENUE REPORT" - by John Smith. Revenue grew in every region.`
	if got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
}

func TestSummarizeTruncatesPrompt(t *testing.T) {
	var promptLen int
	s := fakeSummarizer(func(ctx context.Context, prompt string) (string, error) {
		promptLen = len(prompt)
		return "ok", nil
	})

	if _, err := s.Summarize(context.Background(), loremText(80000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := len(promptPrefix) + maxPromptChars
	if promptLen != want {
		t.Fatalf("prompt length = %d, want %d", promptLen, want)
	}
}

func TestSummarizeTruncatesOnRuneBoundary(t *testing.T) {
	var captured string
	s := fakeSummarizer(func(ctx context.Context, prompt string) (string, error) {
		captured = prompt
		return "ok", nil
	})

	// Byte 30000 of this text falls inside a three-byte rune.
	text := "a" + strings.Repeat("€", 15000)
	if _, err := s.Summarize(context.Background(), text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !utf8.ValidString(captured) {
		t.Fatal("truncated prompt contains invalid UTF-8")
	}
	if len(captured) > len(promptPrefix)+maxPromptChars {
		t.Fatalf("prompt length = %d, want at most %d", len(captured), len(promptPrefix)+maxPromptChars)
	}
}

func TestSummarizeFallbacks(t *testing.T) {
	cases := []struct {
		name string
		err  error
		text string
		want string
	}{
		{
			name: "auth failure names the api key",
			err:  &googleapi.Error{Code: 401},
			text: loremText(12000),
			want: "Please check your Gemini API key in .env file. Document contains approximately 5 pages.",
		},
		{
			name: "quota exhausted",
			err:  &googleapi.Error{Code: 429},
			text: loremText(2500),
			want: "Daily API quota exceeded. Document contains approximately 1 pages. Try again tomorrow.",
		},
		{
			name: "model not found",
			err:  &googleapi.Error{Code: 404},
			text: loremText(5000),
			want: "Model configuration error. Document contains approximately 2 pages. Please check your setup.",
		},
		{
			name: "network unreachable",
			err:  &net.DNSError{Err: "no such host", Name: "generativelanguage.googleapis.com"},
			text: loremText(2500),
			want: "Network error: Cannot reach Google AI servers. Please check your internet connection. Document contains approximately 1 pages.",
		},
		{
			name: "unknown failure without title",
			err:  fmt.Errorf("gemini generate: %w", errors.New("boom")),
			text: loremText(5000),
			want: "Document contains approximately 2 pages. AI summarization temporarily unavailable.",
		},
		{
			name: "short document reports zero pages",
			err:  errors.New("boom"),
			text: loremText(600),
			want: "Document contains approximately 0 pages. AI summarization temporarily unavailable.",
		},
		{
			name: "unknown failure with detected title",
			err:  errors.New("boom"),
			text: "QUARTERLY REVENUE REPORT\n" + loremText(5000),
			want: `"QUARTERLY REVENUE REPORT" - A 2-page document. AI summarization temporarily unavailable.`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := fakeSummarizer(func(ctx context.Context, prompt string) (string, error) {
				return "", tc.err
			})

			got, err := s.Summarize(context.Background(), tc.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("summary = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.SummarizerErrorKind
	}{
		{"unauthorized", &googleapi.Error{Code: 401}, domain.SummarizerErrAuth},
		{"forbidden", &googleapi.Error{Code: 403}, domain.SummarizerErrAuth},
		{"quota", &googleapi.Error{Code: 429}, domain.SummarizerErrQuotaExceeded},
		{"missing model", &googleapi.Error{Code: 404}, domain.SummarizerErrModelNotFound},
		{"server error", &googleapi.Error{Code: 500}, domain.SummarizerErrUnknown},
		{"dns", &net.DNSError{Err: "no such host"}, domain.SummarizerErrNetworkUnreachable},
		{"wrapped api error", fmt.Errorf("gemini generate: %w", &googleapi.Error{Code: 403}), domain.SummarizerErrAuth},
		{"plain error", errors.New("boom"), domain.SummarizerErrUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := errorKind(tc.err); got != tc.want {
				t.Fatalf("errorKind = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClassifyGenerateError(t *testing.T) {
	cases := []struct {
		name          string
		err           error
		retryable     bool
		recordFailure bool
	}{
		{"auth is permanent", &googleapi.Error{Code: 401}, false, false},
		{"quota retries", &googleapi.Error{Code: 429}, true, true},
		{"server error retries", &googleapi.Error{Code: 503}, true, true},
		{"context cancellation passes through", context.Canceled, false, false},
		{"unknown is recorded", errors.New("boom"), false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			class := classifyGenerateError(tc.err)
			if class.Retryable != tc.retryable || class.RecordFailure != tc.recordFailure {
				t.Fatalf("classification = %+v, want retryable=%v record=%v", class, tc.retryable, tc.recordFailure)
			}
		})
	}
}
