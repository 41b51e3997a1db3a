package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/document-extractor/internal/core/domain"
	"github.com/kirillkom/document-extractor/internal/core/ports"
	"github.com/kirillkom/document-extractor/internal/core/schema"
	"github.com/kirillkom/document-extractor/internal/core/validation"
)

// ExtractionUseCase orchestrates one request end-to-end:
// normalize -> classify -> dispatch -> validate -> assemble.
// It is stateless; any number of requests may run it concurrently.
type ExtractionUseCase struct {
	normalizer ports.ImageNormalizer
	oracle     ports.ExtractionOracle
	registry   *schema.Registry
	validator  *validation.Engine
	threshold  float64
}

func NewExtractionUseCase(
	normalizer ports.ImageNormalizer,
	oracle ports.ExtractionOracle,
	registry *schema.Registry,
	validator *validation.Engine,
	classifyThreshold float64,
) *ExtractionUseCase {
	return &ExtractionUseCase{
		normalizer: normalizer,
		oracle:     oracle,
		registry:   registry,
		validator:  validator,
		threshold:  classifyThreshold,
	}
}

func (uc *ExtractionUseCase) Extract(ctx context.Context, upload domain.Upload) (*domain.ExtractionResponse, error) {
	start := uploadStart(upload)

	pages, err := uc.normalize(ctx, upload)
	if err != nil {
		return nil, err
	}

	cls, err := uc.oracle.Classify(ctx, pages[0])
	if err != nil {
		return nil, fmt.Errorf("classify document: %w", err)
	}
	if cls.DocumentType == domain.TypeUnknown || cls.Confidence < uc.threshold {
		return nil, domain.WrapError(
			domain.ErrClassificationAmbiguous,
			"classify document",
			fmt.Errorf("type %q at confidence %.2f is below threshold %.2f", cls.DocumentType, cls.Confidence, uc.threshold),
		)
	}

	return uc.dispatch(ctx, cls.DocumentType, pages[0], start)
}

func (uc *ExtractionUseCase) ExtractByType(ctx context.Context, docType domain.DocumentType, upload domain.Upload) (*domain.ExtractionResponse, error) {
	start := uploadStart(upload)

	if _, err := uc.registry.Lookup(docType); err != nil {
		return nil, domain.WrapError(domain.ErrUnknownTypeKey, "resolve requested type", err)
	}

	pages, err := uc.normalize(ctx, upload)
	if err != nil {
		return nil, err
	}

	return uc.dispatch(ctx, docType, pages[0], start)
}

// uploadStart anchors processing time at the transport's first body read;
// uploads constructed without a timestamp fall back to pipeline entry.
func uploadStart(upload domain.Upload) time.Time {
	if upload.ReceivedAt.IsZero() {
		return time.Now()
	}
	return upload.ReceivedAt
}

func (uc *ExtractionUseCase) normalize(ctx context.Context, upload domain.Upload) ([]domain.PageImage, error) {
	pages, err := uc.normalizer.Normalize(ctx, upload.Data, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("normalize upload: %w", err)
	}
	if len(pages) == 0 {
		return nil, domain.WrapError(domain.ErrPreprocessing, "normalize upload", fmt.Errorf("no pages produced"))
	}
	return pages, nil
}

// dispatch resolves the schema for the (classified or requested) type, runs
// the extraction call, validates the result, and shapes the response.
// Extraction and validation always operate on the first page; later pages are
// normalized but not merged.
func (uc *ExtractionUseCase) dispatch(ctx context.Context, docType domain.DocumentType, page domain.PageImage, start time.Time) (*domain.ExtractionResponse, error) {
	def, err := uc.registry.Lookup(docType)
	if err != nil {
		return nil, err
	}

	result, err := uc.oracle.Extract(ctx, page, def)
	if err != nil {
		return nil, fmt.Errorf("extract fields: %w", err)
	}

	validationErrors := uc.validator.Validate(result)
	return assembleResponse(def, result, validationErrors, time.Since(start)), nil
}
