package domain

import "github.com/google/uuid"

// JobSchemaVersion is the current EnrichmentJob payload version. Consumers
// drop payloads with a version they do not understand instead of guessing at
// the shape.
const JobSchemaVersion = 1

// JobKindEnrich is the only job kind this pipeline consumes today.
const JobKindEnrich = "file.enrich"

// EnrichmentJob is the unit of work flowing from producers to workers.
// Immutable once enqueued; serialized as JSON on the queue transport.
type EnrichmentJob struct {
	Schema      int    `json:"schema"`
	Kind        string `json:"kind"`
	JobID       string `json:"job_id"`
	FileID      string `json:"file_id"`
	FilePath    string `json:"file_path"`
	UserID      string `json:"user_id"`
	ContentType string `json:"content_type"`
}

func NewEnrichmentJob(rec FileRecord) EnrichmentJob {
	return EnrichmentJob{
		Schema:      JobSchemaVersion,
		Kind:        JobKindEnrich,
		JobID:       uuid.NewString(),
		FileID:      rec.ID,
		FilePath:    rec.Path,
		UserID:      rec.UserID,
		ContentType: rec.ContentType,
	}
}

// Outcome classifies what the enrichment engine produced for a file.
type Outcome string

const (
	// OutcomeSuccess: AI-derived tags or a generated summary were produced.
	OutcomeSuccess Outcome = "success"
	// OutcomeDegraded: enrichment completed with a deterministic placeholder
	// instead of a full AI-derived result.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeUnsupported: the file could not be enriched at all.
	OutcomeUnsupported Outcome = "unsupported"
)

// EnrichmentResult is transient: it exists only between the engine and the
// store write for a single job.
type EnrichmentResult struct {
	Tags    []string
	Summary string
	Outcome Outcome
}

// Status maps an engine outcome onto the persisted enrichment status.
func (o Outcome) Status() EnrichmentStatus {
	switch o {
	case OutcomeSuccess:
		return StatusEnriched
	case OutcomeDegraded:
		return StatusDegraded
	default:
		return StatusUnsupported
	}
}

// ContentKind discriminates the extractor's output union.
type ContentKind int

const (
	ContentUnsupported ContentKind = iota
	ContentText
	ContentBytes
)

// Content is what the extractor produced for a stored file: plain text for
// documents, raw bytes for images, or nothing for unhandled types.
type Content struct {
	Kind  ContentKind
	Text  string
	Bytes []byte
}

func TextContent(text string) Content   { return Content{Kind: ContentText, Text: text} }
func BytesContent(b []byte) Content     { return Content{Kind: ContentBytes, Bytes: b} }
func UnsupportedContent() Content       { return Content{Kind: ContentUnsupported} }
