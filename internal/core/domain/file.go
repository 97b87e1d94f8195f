package domain

import (
	"strings"
	"time"
)

// EnrichmentStatus records the terminal outcome of the last enrichment
// attempt for a file. Processed stays the backlog-sweep selection flag;
// the status tells operators what actually happened.
type EnrichmentStatus string

const (
	StatusPending     EnrichmentStatus = "pending"
	StatusEnriched    EnrichmentStatus = "enriched"
	StatusDegraded    EnrichmentStatus = "degraded"
	StatusUnsupported EnrichmentStatus = "unsupported"
)

type FileRecord struct {
	ID          string           `json:"id"`
	Filename    string           `json:"filename"`
	Path        string           `json:"path"`
	ContentType string           `json:"content_type"`
	Size        int64            `json:"size"`
	UserID      string           `json:"user_id"`
	Tags        []string         `json:"tags,omitempty"`
	Summary     string           `json:"summary,omitempty"`
	Processed   bool             `json:"processed"`
	Status      EnrichmentStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// FileCategory buckets a declared content type into a coarse media category.
type FileCategory string

const (
	CategoryImage       FileCategory = "image"
	CategoryVideo       FileCategory = "video"
	CategoryAudio       FileCategory = "audio"
	CategoryDocument    FileCategory = "document"
	CategorySpreadsheet FileCategory = "spreadsheet"
	CategoryArchive     FileCategory = "archive"
	CategoryOther       FileCategory = "other"
)

func Categorize(contentType string) FileCategory {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "image/"):
		return CategoryImage
	case strings.HasPrefix(ct, "video/"):
		return CategoryVideo
	case strings.HasPrefix(ct, "audio/"):
		return CategoryAudio
	case strings.Contains(ct, "pdf"), strings.Contains(ct, "word"), strings.Contains(ct, "document"):
		return CategoryDocument
	case strings.Contains(ct, "excel"), strings.Contains(ct, "spreadsheet"):
		return CategorySpreadsheet
	case strings.Contains(ct, "zip"), strings.Contains(ct, "rar"):
		return CategoryArchive
	default:
		return CategoryOther
	}
}
