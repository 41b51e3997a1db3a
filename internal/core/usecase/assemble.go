package usecase

import (
	"time"

	"github.com/kirillkom/document-extractor/internal/core/domain"
)

// assembleResponse flattens an extraction result by walking the schema's
// declared field list: value-bearing fields land in both extracted_data and
// confidence_scores (clamped); flags and lists pass through unchanged.
// Purely a shaping step.
func assembleResponse(def domain.Definition, res *domain.ExtractionResult, validationErrors []domain.ValidationError, elapsed time.Duration) *domain.ExtractionResponse {
	data := make(map[string]any, len(def.Fields))
	scores := make(map[string]float64)

	for _, f := range def.Fields {
		switch f.Kind {
		case domain.KindText, domain.KindDate, domain.KindAmount:
			field := res.Fields[f.Name]
			data[f.Name] = field.Value
			scores[f.Name] = domain.ClampConfidence(field.Confidence)
		case domain.KindFlag:
			data[f.Name] = res.Flags[f.Name]
		case domain.KindStringList:
			values := res.Lists[f.Name]
			if values == nil {
				values = []string{}
			}
			data[f.Name] = values
		case domain.KindTransactionList:
			rows := res.Transactions[f.Name]
			if rows == nil {
				rows = []domain.Transaction{}
			}
			data[f.Name] = rows
		}
	}

	if validationErrors == nil {
		validationErrors = []domain.ValidationError{}
	}

	return &domain.ExtractionResponse{
		DocumentType:     res.DocumentType,
		ExtractedData:    data,
		ConfidenceScores: scores,
		ValidationErrors: validationErrors,
		IsValid:          len(validationErrors) == 0,
		ProcessingTimeMS: float64(elapsed.Microseconds()) / 1000.0,
	}
}
