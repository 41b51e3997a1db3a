package ports

import (
	"context"

	"github.com/kirillkom/document-extractor/internal/core/domain"
)

// DocumentExtractor is the inbound contract for the extraction pipeline.
type DocumentExtractor interface {
	// Extract classifies the upload first and then dispatches extraction.
	Extract(ctx context.Context, upload domain.Upload) (*domain.ExtractionResponse, error)
	// ExtractByType skips classification and extracts as the given type.
	ExtractByType(ctx context.Context, docType domain.DocumentType, upload domain.Upload) (*domain.ExtractionResponse, error)
}
