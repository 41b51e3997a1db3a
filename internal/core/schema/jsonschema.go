package schema

import "github.com/kirillkom/document-extractor/internal/core/domain"

// JSONSchema returns a draft-2020-12 JSON Schema (as a generic map) describing
// the oracle's structured reply for one definition. The same map is embedded
// in the extraction prompt as an output constraint and compiled locally to
// validate every reply before it is trusted.
func JSONSchema(def domain.Definition) map[string]any {
	props := make(map[string]any, len(def.Fields))
	required := make([]string, 0, len(def.Fields))
	for _, f := range def.Fields {
		props[f.Name] = fieldSchema(f)
		if !f.Optional {
			required = append(required, f.Name)
		}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func fieldSchema(f domain.FieldSpec) map[string]any {
	switch f.Kind {
	case domain.KindFlag:
		return map[string]any{"type": "boolean"}
	case domain.KindStringList:
		return map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		}
	case domain.KindTransactionList:
		return map[string]any{
			"type":  "array",
			"items": transactionSchema(),
		}
	default:
		return confidenceFieldSchema()
	}
}

// Confidence carries no numeric bounds: an out-of-range value is clamped
// during result mapping, never rejected.
func confidenceFieldSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"value":       map[string]any{"type": "string"},
			"confidence":  map[string]any{"type": "number"},
			"is_readable": map[string]any{"type": "boolean"},
		},
		"required": []string{"value", "confidence", "is_readable"},
	}
}

func transactionSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"date":        map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"amount":      map[string]any{"type": "string"},
			"direction":   map[string]any{"type": "string", "enum": []string{"debit", "credit"}},
			"balance":     map[string]any{"type": "string"},
		},
		"required": []string{"date", "amount", "direction", "balance"},
	}
}
