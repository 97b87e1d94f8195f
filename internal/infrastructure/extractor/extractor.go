// Package extractor turns stored files into enrichable content. Extraction
// failures never surface as errors: unreadable or malformed inputs resolve to
// empty text or unsupported content, which the engine maps to a fallback
// outcome.
package extractor

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"fileinsight/internal/core/domain"
	"fileinsight/internal/core/ports"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, path, contentType string) domain.Content {
	switch {
	case domain.Categorize(contentType) == domain.CategoryImage:
		data, err := e.readAll(ctx, path)
		if err != nil {
			slog.Warn("image_read_failed", "path", path, "error", err)
			return domain.UnsupportedContent()
		}
		return domain.BytesContent(data)

	case strings.EqualFold(contentType, "application/pdf"):
		return domain.TextContent(e.extractPDF(ctx, path))

	case strings.EqualFold(contentType, "text/plain") || strings.Contains(strings.ToLower(contentType), "text"):
		return domain.TextContent(e.extractPlainText(ctx, path))

	default:
		return domain.UnsupportedContent()
	}
}

func (e *Extractor) extractPlainText(ctx context.Context, path string) string {
	raw, err := e.readAll(ctx, path)
	if err != nil {
		slog.Warn("text_read_failed", "path", path, "error", err)
		return ""
	}
	if !utf8.Valid(raw) {
		slog.Warn("text_not_utf8", "path", path)
		return ""
	}
	return string(raw)
}

func (e *Extractor) readAll(ctx context.Context, path string) ([]byte, error) {
	reader, err := e.storage.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
