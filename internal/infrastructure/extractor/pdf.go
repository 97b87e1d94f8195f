package extractor

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Text runs occasionally carry percent-encoded characters; when a run fails
// to unescape wholesale, the two most common escapes are substituted
// literally instead of losing the run.
var escapeFallback = strings.NewReplacer("%20", " ", "%2C", ",")

func (e *Extractor) extractPDF(ctx context.Context, path string) (text string) {
	// The pdf parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("pdf_parse_panic", "path", path, "panic", r)
			text = ""
		}
	}()

	data, err := e.readAll(ctx, path)
	if err != nil {
		slog.Warn("pdf_read_failed", "path", path, "error", err)
		return ""
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		slog.Warn("pdf_open_failed", "path", path, "error", err)
		return ""
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		for _, run := range page.Content().Text {
			sb.WriteString(decodeRun(run.S))
			sb.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

func decodeRun(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return escapeFallback.Replace(raw)
	}
	return decoded
}
