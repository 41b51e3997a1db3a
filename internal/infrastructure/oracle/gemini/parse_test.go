package gemini

import (
	"strings"
	"testing"

	"github.com/kirillkom/document-extractor/internal/core/domain"
	"github.com/kirillkom/document-extractor/internal/core/schema"
)

var classificationLabels = []string{
	"pan_card", "aadhaar_card", "driving_license", "rental_agreement",
	"proforma_invoice", "utility_bill", "bank_statement", "unknown",
}

func TestCleanMarkdownFences(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                          "{\"a\":1}",
		"```json\n{\"a\":1}\n```":            "{\"a\":1}",
		"```\n{\"a\":1}\n```":                "{\"a\":1}",
		"  ```json\n{\"a\": \"b\"}\n```\n  ": "{\"a\": \"b\"}",
	}
	for input, expected := range cases {
		if got := cleanMarkdownFences(input); got != expected {
			t.Fatalf("input %q: expected %q, got %q", input, expected, got)
		}
	}
}

func TestParseClassification(t *testing.T) {
	result, err := parseClassification(`{"document_type": "pan_card", "confidence": 0.92}`, classificationLabels)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.DocumentType != domain.TypePANCard {
		t.Fatalf("expected pan_card, got %q", result.DocumentType)
	}
	if result.Confidence != 0.92 {
		t.Fatalf("expected confidence 0.92, got %v", result.Confidence)
	}
}

func TestParseClassificationDegradesUnrecognizedLabel(t *testing.T) {
	result, err := parseClassification(`{"document_type": "passport", "confidence": 0.9}`, classificationLabels)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.DocumentType != domain.TypeUnknown {
		t.Fatalf("expected unknown for unrecognized label, got %q", result.DocumentType)
	}
}

func TestParseClassificationClampsConfidence(t *testing.T) {
	result, err := parseClassification(`{"document_type": "pan_card", "confidence": 1.8}`, classificationLabels)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.Confidence != 1 {
		t.Fatalf("expected clamped confidence 1, got %v", result.Confidence)
	}
}

func TestParseClassificationRejectsInvalidJSON(t *testing.T) {
	if _, err := parseClassification("the document looks like a PAN card", classificationLabels); err == nil {
		t.Fatalf("expected parse failure for non-JSON reply")
	}
}

func TestMapResultFillsEveryDeclaredField(t *testing.T) {
	registry := schema.NewRegistry()
	def, err := registry.Lookup(domain.TypePANCard)
	if err != nil {
		t.Fatalf("lookup pan_card: %v", err)
	}

	payload := map[string]any{
		"name":              map[string]any{"value": "RAVI KUMAR", "confidence": 0.95, "is_readable": true},
		"father_name":       map[string]any{"value": "", "confidence": 0.1, "is_readable": false},
		"date_of_birth":     map[string]any{"value": "14/02/1988", "confidence": 0.9, "is_readable": true},
		"pan_number":        map[string]any{"value": "ABCDE1234F", "confidence": 1.4, "is_readable": true},
		"signature_present": true,
	}

	result, err := mapResult(def, payload)
	if err != nil {
		t.Fatalf("map result: %v", err)
	}

	if result.DocumentType != domain.TypePANCard {
		t.Fatalf("expected pan_card, got %q", result.DocumentType)
	}
	if result.Fields["name"].Value != "RAVI KUMAR" {
		t.Fatalf("unexpected name %q", result.Fields["name"].Value)
	}
	if result.Fields["father_name"].IsReadable {
		t.Fatalf("expected father_name to be unreadable")
	}
	if result.Fields["pan_number"].Confidence != 1 {
		t.Fatalf("expected clamped confidence 1, got %v", result.Fields["pan_number"].Confidence)
	}
	if !result.Flags["signature_present"] {
		t.Fatalf("expected signature flag to be set")
	}
}

func TestMapResultDecodesTransactions(t *testing.T) {
	registry := schema.NewRegistry()
	def, err := registry.Lookup(domain.TypeBankStatement)
	if err != nil {
		t.Fatalf("lookup bank_statement: %v", err)
	}

	payload := map[string]any{
		"account_holder_name":    map[string]any{"value": "RAVI KUMAR", "confidence": 0.9, "is_readable": true},
		"account_holder_address": map[string]any{"value": "", "confidence": 0, "is_readable": false},
		"bank_name":              map[string]any{"value": "HDFC Bank", "confidence": 0.97, "is_readable": true},
		"account_number":         map[string]any{"value": "XXXX1234", "confidence": 0.85, "is_readable": true},
		"transactions": []any{
			map[string]any{"date": "01/03/2024", "description": "UPI", "amount": "500.00", "direction": "debit", "balance": "10500.00"},
		},
	}

	result, err := mapResult(def, payload)
	if err != nil {
		t.Fatalf("map result: %v", err)
	}

	rows := result.Transactions["transactions"]
	if len(rows) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(rows))
	}
	if rows[0].Direction != "debit" || rows[0].Balance != "10500.00" {
		t.Fatalf("unexpected transaction %+v", rows[0])
	}
}

func TestMapResultDefaultsMissingFields(t *testing.T) {
	registry := schema.NewRegistry()
	def, err := registry.Lookup(domain.TypePANCard)
	if err != nil {
		t.Fatalf("lookup pan_card: %v", err)
	}

	result, err := mapResult(def, map[string]any{})
	if err != nil {
		t.Fatalf("map result: %v", err)
	}
	for _, f := range def.Fields {
		if !f.HasConfidence() {
			continue
		}
		field, ok := result.Fields[f.Name]
		if !ok {
			t.Fatalf("expected entry for %q", f.Name)
		}
		if field.Value != "" || field.Confidence != 0 || field.IsReadable {
			t.Fatalf("expected zero field for %q, got %+v", f.Name, field)
		}
	}
}

func TestExtractionPromptNamesEveryField(t *testing.T) {
	registry := schema.NewRegistry()
	def, err := registry.Lookup(domain.TypeRentalAgreement)
	if err != nil {
		t.Fatalf("lookup rental_agreement: %v", err)
	}

	prompt := extractionPrompt(def)
	for _, f := range def.Fields {
		if !strings.Contains(prompt, f.Name) {
			t.Fatalf("prompt is missing field %q", f.Name)
		}
	}
	if !strings.Contains(prompt, "is_readable") {
		t.Fatalf("prompt is missing the readability contract")
	}
	if !strings.Contains(prompt, "JSON Schema") {
		t.Fatalf("prompt is missing the embedded schema")
	}
}

func TestClassificationPromptListsAllLabels(t *testing.T) {
	registry := schema.NewRegistry()
	prompt := classificationPrompt(registry)

	for _, label := range classificationLabels {
		if !strings.Contains(prompt, label) {
			t.Fatalf("prompt is missing label %q", label)
		}
	}
	if !strings.Contains(prompt, "confidence") {
		t.Fatalf("prompt is missing the confidence contract")
	}
}
