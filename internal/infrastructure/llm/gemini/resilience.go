package gemini

import (
	"context"
	"errors"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"

	"fileinsight/internal/core/domain"
	"fileinsight/internal/infrastructure/resilience"
)

// errorKind classifies a generation failure by its transport-level shape.
// Only structured errors are inspected, never message text.
func errorKind(err error) domain.SummarizerErrorKind {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.SummarizerErrAuth
		case http.StatusTooManyRequests:
			return domain.SummarizerErrQuotaExceeded
		case http.StatusNotFound:
			return domain.SummarizerErrModelNotFound
		}
		return domain.SummarizerErrUnknown
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return domain.SummarizerErrNetworkUnreachable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.SummarizerErrNetworkUnreachable
	}

	return domain.SummarizerErrUnknown
}

func classifyGenerateError(err error) resilience.ErrorClassification {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: false}
	}

	switch errorKind(err) {
	case domain.SummarizerErrAuth, domain.SummarizerErrModelNotFound:
		// Configuration problems do not heal with retries and should not
		// trip the breaker.
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	case domain.SummarizerErrQuotaExceeded, domain.SummarizerErrNetworkUnreachable:
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code >= http.StatusInternalServerError {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
