// Package gemini generates document summaries through the Google generative
// AI service. Remote failures never propagate: every error is classified into
// a structured kind and replaced by a deterministic fallback summary, so the
// caller always receives a usable string.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fileinsight/internal/core/metadata"
	"fileinsight/internal/infrastructure/resilience"
)

const (
	// maxPromptChars bounds the remote request size.
	maxPromptChars = 30000

	// Documents longer than this get a page-count suffix on the summary.
	largeDocThreshold = 10000

	// pageChars approximates characters per printed page.
	pageChars = 2500
)

const promptPrefix = "Please provide a comprehensive 2-3 sentence summary of this document. " +
	"Focus on the main topics, key concepts, target audience, and overall purpose:\n\n"

type generateFunc func(ctx context.Context, prompt string) (string, error)

type Summarizer struct {
	client   *genai.Client
	generate generateFunc
	executor *resilience.Executor
}

func New(ctx context.Context, apiKey, model string, executor *resilience.Executor) (*Summarizer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	genModel := client.GenerativeModel(model)
	genModel.SetTemperature(0.2)

	return &Summarizer{
		client:   client,
		generate: generateWith(genModel),
		executor: executor,
	}, nil
}

func (s *Summarizer) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

// Summarize requests a short summary for text and decorates it with detected
// title/author metadata and, for large documents, an approximate page count.
// The caller guarantees the text is long enough to summarize.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	clean := strings.Join(strings.Fields(text), " ")
	if len(clean) > maxPromptChars {
		cut := maxPromptChars
		for cut > 0 && !utf8.RuneStart(clean[cut]) {
			cut--
		}
		clean = clean[:cut]
	}

	meta := metadata.Detect(text)
	pages := estimatePages(text)

	var generated string
	call := func(callCtx context.Context) error {
		out, err := s.generate(callCtx, promptPrefix+clean)
		if err != nil {
			return err
		}
		generated = out
		return nil
	}

	var err error
	if s.executor != nil {
		err = s.executor.Execute(ctx, "gemini.summarize", call, classifyGenerateError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		kind := errorKind(err)
		slog.Warn("summary_generation_failed", "kind", kind.String(), "error", err)
		return fallbackSummary(kind, meta, pages), nil
	}

	return richSummary(generated, meta, len(text), pages), nil
}

func generateWith(model *genai.GenerativeModel) generateFunc {
	return func(ctx context.Context, prompt string) (string, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", fmt.Errorf("gemini generate: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", fmt.Errorf("gemini generate: empty candidates")
		}

		var sb strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		return strings.TrimSpace(sb.String()), nil
	}
}
