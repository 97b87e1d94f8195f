package gemini

import (
	"fmt"
	"math"
	"strings"

	"fileinsight/internal/core/domain"
	"fileinsight/internal/core/metadata"
)

// richSummary prepends detected metadata to the generated summary and, for
// documents past largeDocThreshold, appends an approximate page count.
func richSummary(summary string, meta metadata.Metadata, textLen, pages int) string {
	var sb strings.Builder
	if meta.Title != "" {
		fmt.Fprintf(&sb, "\"%s\" - ", meta.Title)
	}
	if meta.Authors != "" {
		fmt.Fprintf(&sb, "by %s. ", meta.Authors)
	}
	sb.WriteString(strings.TrimSpace(summary))
	if textLen > largeDocThreshold {
		fmt.Fprintf(&sb, " [Document: approximately %d pages]", pages)
	}
	return sb.String()
}

// fallbackSummary maps a classified failure kind to a fixed human-readable
// summary so a broken AI backend still produces an explainable result.
func fallbackSummary(kind domain.SummarizerErrorKind, meta metadata.Metadata, pages int) string {
	switch kind {
	case domain.SummarizerErrAuth:
		return fmt.Sprintf("Please check your Gemini API key in .env file. Document contains approximately %d pages.", pages)
	case domain.SummarizerErrQuotaExceeded:
		return fmt.Sprintf("Daily API quota exceeded. Document contains approximately %d pages. Try again tomorrow.", pages)
	case domain.SummarizerErrModelNotFound:
		return fmt.Sprintf("Model configuration error. Document contains approximately %d pages. Please check your setup.", pages)
	case domain.SummarizerErrNetworkUnreachable:
		return fmt.Sprintf("Network error: Cannot reach Google AI servers. Please check your internet connection. Document contains approximately %d pages.", pages)
	default:
		if meta.Title != "" {
			return fmt.Sprintf("\"%s\" - A %d-page document. AI summarization temporarily unavailable.", meta.Title, pages)
		}
		return fmt.Sprintf("Document contains approximately %d pages. AI summarization temporarily unavailable.", pages)
	}
}

func estimatePages(text string) int {
	return int(math.Round(float64(len(text)) / pageChars))
}
