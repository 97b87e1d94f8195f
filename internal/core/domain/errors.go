package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound = errors.New("file record not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTemporary    = errors.New("temporary failure")
)

// SummarizerErrorKind is the structured failure taxonomy for the remote
// summarization service. Kinds are derived from transport/HTTP status
// information, never from matching substrings of error messages.
type SummarizerErrorKind int

const (
	SummarizerErrUnknown SummarizerErrorKind = iota
	SummarizerErrAuth
	SummarizerErrQuotaExceeded
	SummarizerErrModelNotFound
	SummarizerErrNetworkUnreachable
)

func (k SummarizerErrorKind) String() string {
	switch k {
	case SummarizerErrAuth:
		return "auth"
	case SummarizerErrQuotaExceeded:
		return "quota_exceeded"
	case SummarizerErrModelNotFound:
		return "model_not_found"
	case SummarizerErrNetworkUnreachable:
		return "network_unreachable"
	default:
		return "unknown"
	}
}

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
