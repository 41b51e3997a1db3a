// Package validation applies static per-field and per-type rules to an
// extraction result. Validation never fails the pipeline: its output is a
// list of field-level errors carried on the response.
package validation

import (
	"fmt"
	"strings"

	"github.com/kirillkom/document-extractor/internal/core/domain"
	"github.com/kirillkom/document-extractor/internal/core/schema"
)

// RuleFunc holds the type-specific rules for one document kind.
type RuleFunc func(res *domain.ExtractionResult) []domain.ValidationError

type Engine struct {
	registry *schema.Registry
	rules    map[domain.DocumentType]RuleFunc
}

// NewEngine builds the engine with the rule dispatch table. Adding a document
// type means adding one rule function and one entry here.
func NewEngine(registry *schema.Registry) *Engine {
	return &Engine{
		registry: registry,
		rules: map[domain.DocumentType]RuleFunc{
			domain.TypePANCard:         validatePANCard,
			domain.TypeAadhaarCard:     validateAadhaarCard,
			domain.TypeDrivingLicense:  validateDrivingLicense,
			domain.TypeRentalAgreement: validateRentalAgreement,
			domain.TypeProformaInvoice: nil,
			domain.TypeUtilityBill:     nil,
			domain.TypeBankStatement:   nil,
		},
	}
}

// Validate is a pure function of its input: same result, same error list.
func (e *Engine) Validate(res *domain.ExtractionResult) []domain.ValidationError {
	def, err := e.registry.Lookup(res.DocumentType)
	if err != nil {
		return []domain.ValidationError{{
			Field:   "document_type",
			Message: fmt.Sprintf("unsupported document type: %s", res.DocumentType),
		}}
	}

	rule, ok := e.rules[res.DocumentType]
	if !ok {
		return []domain.ValidationError{{
			Field:   "document_type",
			Message: fmt.Sprintf("unsupported document type: %s", res.DocumentType),
		}}
	}

	errs := validateDeclaredFields(def, res)
	if rule != nil {
		errs = append(errs, rule(res)...)
	}
	return errs
}

// validateDeclaredFields runs the schema-driven baseline: date fields must
// parse against the accepted layouts and amount fields must be numeric.
// Empty values are skipped here; missing-field policy belongs to the oracle
// reply validation, not to this engine.
func validateDeclaredFields(def domain.Definition, res *domain.ExtractionResult) []domain.ValidationError {
	var errs []domain.ValidationError
	for _, f := range def.Fields {
		value := strings.TrimSpace(res.Fields[f.Name].Value)
		if value == "" {
			continue
		}
		switch f.Kind {
		case domain.KindDate:
			if _, err := ParseDate(value); err != nil {
				errs = append(errs, domain.ValidationError{
					Field:   f.Name,
					Message: fmt.Sprintf("%s must be a valid date", fieldTitle(f.Name)),
				})
			}
		case domain.KindAmount:
			if _, err := ParseAmount(value); err != nil {
				errs = append(errs, domain.ValidationError{
					Field:   f.Name,
					Message: fmt.Sprintf("%s must be a numeric amount", fieldTitle(f.Name)),
				})
			}
		}
	}
	return errs
}

func fieldTitle(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
