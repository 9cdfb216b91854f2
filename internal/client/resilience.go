package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/infrastructure/resilience"
)

// HTTPStatusError is returned for responses the client has no dedicated
// mapping for.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: server returned %s: %s", e.Operation, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: server returned %s", e.Operation, e.Status)
}

// classifyClientError retries transport failures and server-side errors.
// Context cancellation and anything the caller did wrong stop immediately.
func classifyClientError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	// Expected outcomes, not server trouble. Never trip the breaker on them.
	if errors.Is(err, domain.ErrJobNotFound) ||
		errors.Is(err, domain.ErrJobNotFinished) ||
		errors.Is(err, domain.ErrArtifactNotFound) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusTooManyRequests:
			return resilience.ErrorClassification{Retryable: true, RecordFailure: false}
		case statusErr.StatusCode >= 500:
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		default:
			return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	// A connection dropped mid-body surfaces as an unexpected EOF rather
	// than a net.Error.
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
