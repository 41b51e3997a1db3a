package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"

	"github.com/kirillkom/document-extractor/internal/core/domain"
)

func TestClassifyGeminiErrorRetryableStatuses(t *testing.T) {
	retryable := []int{408, 429, 500, 502, 503, 504}
	for _, code := range retryable {
		err := fmt.Errorf("call failed: %w", genai.APIError{Code: code, Message: "upstream"})
		class := classifyGeminiError(err)
		if !class.Retryable || !class.RecordFailure {
			t.Fatalf("status %d: expected retryable recorded failure, got %+v", code, class)
		}
	}

	err := fmt.Errorf("call failed: %w", genai.APIError{Code: 400, Message: "bad request"})
	class := classifyGeminiError(err)
	if class.Retryable {
		t.Fatalf("status 400 must not be retryable, got %+v", class)
	}
}

func TestClassifyGeminiErrorIgnoresCancellation(t *testing.T) {
	for _, err := range []error{context.Canceled, context.DeadlineExceeded} {
		class := classifyGeminiError(fmt.Errorf("call failed: %w", err))
		if class.Retryable || class.RecordFailure {
			t.Fatalf("%v: cancellation must not retry or trip the breaker, got %+v", err, class)
		}
	}
}

func TestWrapTemporaryMarksTransientFailures(t *testing.T) {
	transient := fmt.Errorf("call failed: %w", genai.APIError{Code: 503, Message: "overloaded"})
	wrapped := wrapTemporaryIfNeeded("extract fields", transient)
	if !domain.IsKind(wrapped, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", wrapped)
	}

	permanent := fmt.Errorf("call failed: %w", genai.APIError{Code: 400, Message: "bad request"})
	wrapped = wrapTemporaryIfNeeded("extract fields", permanent)
	if domain.IsKind(wrapped, domain.ErrTemporary) {
		t.Fatalf("permanent failure must not be marked temporary, got %v", wrapped)
	}
	if !errors.Is(wrapped, permanent) {
		t.Fatalf("permanent failure must pass through unchanged")
	}
}
