// Package metadata holds the best-effort title/author heuristics used to
// enrich document summaries. False positives and negatives are acceptable.
package metadata

import (
	"regexp"
	"strings"
)

// Only the head of the document is scanned; titles and bylines live there.
const previewLimit = 1000

const maxAuthors = 3

var (
	titleRe = regexp.MustCompile(`^([A-Z][A-Z\s]{10,80})`)

	// Marker form first ("by Jane Doe"), generic "First M. Last" second.
	authorMarkerRe  = regexp.MustCompile(`(?i)(?:by|author|written by)[:\s]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})`)
	authorInitialRe = regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z]\.\s+[A-Z][a-z]+`)
)

type Metadata struct {
	Title   string
	Authors string
}

// Detect scans the first kilobyte of text for a title and an author list.
func Detect(text string) Metadata {
	preview := text
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}

	var meta Metadata
	if m := titleRe.FindStringSubmatch(preview); m != nil {
		meta.Title = strings.TrimSpace(m[1])
	}

	var authors []string
	if m := authorMarkerRe.FindAllStringSubmatch(preview, maxAuthors); len(m) > 0 {
		for _, match := range m {
			authors = append(authors, match[1])
		}
	} else if m := authorInitialRe.FindAllString(preview, maxAuthors); len(m) > 0 {
		authors = m
	}
	meta.Authors = strings.Join(authors, ", ")

	return meta
}
