package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kirillkom/document-extractor/internal/core/domain"
)

var markdownFences = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// cleanMarkdownFences strips a surrounding ```json fence when the model wraps
// its reply in one despite the JSON response mode.
func cleanMarkdownFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := markdownFences.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// parseClassification decodes the classifier reply. An unrecognized label
// degrades to the unknown type rather than erroring; confidence is clamped.
func parseClassification(raw string, labels []string) (domain.ClassificationResult, error) {
	cleaned := cleanMarkdownFences(raw)

	var reply struct {
		DocumentType string  `json:"document_type"`
		Confidence   float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("decode classification reply: %w", err)
	}

	key := strings.ToLower(strings.TrimSpace(reply.DocumentType))
	docType := domain.TypeUnknown
	for _, label := range labels {
		if key == label {
			if t, ok := domain.ParseDocumentType(key); ok {
				docType = t
			}
			break
		}
	}

	return domain.ClassificationResult{
		DocumentType: docType,
		Confidence:   domain.ClampConfidence(reply.Confidence),
	}, nil
}

// mapResult converts the schema-validated reply object into the typed result.
// Every declared field gets an entry; anything the oracle omitted lands as a
// zero value.
func mapResult(def domain.Definition, payload map[string]any) (*domain.ExtractionResult, error) {
	result := domain.NewExtractionResult(def.Type)

	for _, f := range def.Fields {
		value, present := payload[f.Name]

		switch f.Kind {
		case domain.KindText, domain.KindDate, domain.KindAmount:
			if !present {
				result.Fields[f.Name] = domain.DocumentField{}
				continue
			}
			field, err := decodeDocumentField(value)
			if err != nil {
				return nil, fmt.Errorf("map oracle reply: field %s: %w", f.Name, err)
			}
			result.Fields[f.Name] = field

		case domain.KindFlag:
			flag, _ := value.(bool)
			result.Flags[f.Name] = flag

		case domain.KindStringList:
			items, err := decodeStringList(value)
			if err != nil {
				return nil, fmt.Errorf("map oracle reply: field %s: %w", f.Name, err)
			}
			result.Lists[f.Name] = items

		case domain.KindTransactionList:
			rows, err := decodeTransactions(value)
			if err != nil {
				return nil, fmt.Errorf("map oracle reply: field %s: %w", f.Name, err)
			}
			result.Transactions[f.Name] = rows
		}
	}

	return result, nil
}

func decodeDocumentField(value any) (domain.DocumentField, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return domain.DocumentField{}, fmt.Errorf("expected object, got %T", value)
	}

	field := domain.DocumentField{}
	if v, ok := obj["value"].(string); ok {
		field.Value = v
	}
	if c, ok := obj["confidence"].(float64); ok {
		field.Confidence = domain.ClampConfidence(c)
	}
	if r, ok := obj["is_readable"].(bool); ok {
		field.IsReadable = r
	}
	return field, nil
}

func decodeStringList(value any) ([]string, error) {
	if value == nil {
		return []string{}, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", value)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected string element, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeTransactions(value any) ([]domain.Transaction, error) {
	if value == nil {
		return []domain.Transaction{}, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var rows []domain.Transaction
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Transaction{}
	}
	return rows, nil
}
