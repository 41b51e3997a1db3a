package ports

import (
	"context"

	"github.com/kirillkom/document-extractor/internal/core/domain"
)

// ImageNormalizer converts raw upload bytes into transport-ready page images.
// Multi-page inputs yield one image per page in page order.
type ImageNormalizer interface {
	Normalize(ctx context.Context, data []byte, contentType string) ([]domain.PageImage, error)
}

// ExtractionOracle is the external structured-generation service trusted to
// read document images. Classify must fail open (unknown/0.0) rather than
// return an error for anything short of programmer mistakes; Extract has no
// safe fallback and propagates failures.
type ExtractionOracle interface {
	Classify(ctx context.Context, image domain.PageImage) (domain.ClassificationResult, error)
	Extract(ctx context.Context, image domain.PageImage, def domain.Definition) (*domain.ExtractionResult, error)
}
