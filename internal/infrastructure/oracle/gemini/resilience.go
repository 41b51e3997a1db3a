package gemini

import (
	"context"
	"errors"
	"net"

	"google.golang.org/genai"

	"github.com/kirillkom/document-extractor/internal/core/domain"
	"github.com/kirillkom/document-extractor/internal/infrastructure/resilience"
)

// classifyGeminiError decides retry and breaker policy for one failed model
// call. Rate limiting and server-side faults are retryable; caller
// cancellation is neither retried nor held against the breaker.
func classifyGeminiError(err error) resilience.ErrorClassification {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 408, 429, 500, 502, 503, 504:
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		default:
			return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

// wrapTemporaryIfNeeded marks transient oracle failures so the transport
// layer can answer with a retry hint instead of a hard failure.
func wrapTemporaryIfNeeded(operation string, err error) error {
	if err == nil {
		return nil
	}

	if resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}

	class := classifyGeminiError(err)
	if class.Retryable {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}
