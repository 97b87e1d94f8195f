// Package huggingface labels image bytes through the HuggingFace inference
// API. Classification is strictly best-effort: any terminal failure yields an
// empty label set and the enrichment proceeds with the category tag alone.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fileinsight/internal/infrastructure/resilience"
)

// maxLabels bounds how many remote predictions are considered.
const maxLabels = 3

type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(endpoint, apiKey string, executor *resilience.Executor) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
	}
}

type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *Client) Classify(ctx context.Context, image []byte) []string {
	var predictions []prediction
	call := func(callCtx context.Context) error {
		return c.post(callCtx, image, &predictions)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "huggingface.classify", call, classifyHTTPError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		slog.Warn("image_classification_failed", "error", err)
		return nil
	}

	return cleanLabels(predictions)
}

func (c *Client) post(ctx context.Context, image []byte, out *[]prediction) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(image))
	if err != nil {
		return fmt.Errorf("create classify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("classify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			Operation:  "classify",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode classify response: %w", err)
	}
	return nil
}

// cleanLabels keeps the first three predictions, strips everything past the
// first comma of each label, trims, and drops empties.
func cleanLabels(predictions []prediction) []string {
	limit := len(predictions)
	if limit > maxLabels {
		limit = maxLabels
	}

	tags := make([]string, 0, limit)
	for _, p := range predictions[:limit] {
		name := p.Label
		if i := strings.Index(name, ","); i >= 0 {
			name = name[:i]
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tags = append(tags, name)
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
