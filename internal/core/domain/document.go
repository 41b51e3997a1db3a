package domain

import "time"

// DocumentType identifies one supported document kind.
type DocumentType string

const (
	TypePANCard         DocumentType = "pan_card"
	TypeAadhaarCard     DocumentType = "aadhaar_card"
	TypeDrivingLicense  DocumentType = "driving_license"
	TypeRentalAgreement DocumentType = "rental_agreement"
	TypeProformaInvoice DocumentType = "proforma_invoice"
	TypeUtilityBill     DocumentType = "utility_bill"
	TypeBankStatement   DocumentType = "bank_statement"
	TypeUnknown         DocumentType = "unknown"
)

var documentTypes = map[DocumentType]struct{}{
	TypePANCard:         {},
	TypeAadhaarCard:     {},
	TypeDrivingLicense:  {},
	TypeRentalAgreement: {},
	TypeProformaInvoice: {},
	TypeUtilityBill:     {},
	TypeBankStatement:   {},
	TypeUnknown:         {},
}

// ParseDocumentType maps a raw key to a known DocumentType.
func ParseDocumentType(s string) (DocumentType, bool) {
	t := DocumentType(s)
	_, ok := documentTypes[t]
	return t, ok
}

// DocumentField is a single extracted value with its confidence and
// readability verdict as reported by the oracle.
type DocumentField struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	IsReadable bool    `json:"is_readable"`
}

// Transaction is one bank statement ledger row.
type Transaction struct {
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
	Direction   string `json:"direction"`
	Balance     string `json:"balance"`
}

// FieldKind describes how a schema attribute is represented both in the
// oracle's structured reply and in the flattened response.
type FieldKind int

const (
	KindText FieldKind = iota
	KindDate
	KindAmount
	KindFlag
	KindStringList
	KindTransactionList
)

// FieldSpec declares one schema attribute. Location and Format are the
// physical-location and format hints embedded into the extraction prompt.
type FieldSpec struct {
	Name     string
	Kind     FieldKind
	Optional bool
	Location string
	Format   string
}

// HasConfidence reports whether the field carries a DocumentField payload
// (value + confidence + readability) rather than a plain scalar or list.
func (f FieldSpec) HasConfidence() bool {
	switch f.Kind {
	case KindText, KindDate, KindAmount:
		return true
	default:
		return false
	}
}

// Definition is the immutable schema for one document type.
type Definition struct {
	Type        DocumentType
	DisplayName string
	Description string
	Fields      []FieldSpec
}

// ClassificationResult is the oracle's answer to "what document type is this".
type ClassificationResult struct {
	DocumentType DocumentType `json:"document_type"`
	Confidence   float64      `json:"confidence"`
}

// ExtractionResult is a filled instance of one Definition. Every declared
// field is present under its schema name; missing oracle values surface as
// zero entries rather than absent keys.
type ExtractionResult struct {
	DocumentType DocumentType
	Fields       map[string]DocumentField
	Flags        map[string]bool
	Lists        map[string][]string
	Transactions map[string][]Transaction
}

func NewExtractionResult(t DocumentType) *ExtractionResult {
	return &ExtractionResult{
		DocumentType: t,
		Fields:       map[string]DocumentField{},
		Flags:        map[string]bool{},
		Lists:        map[string][]string{},
		Transactions: map[string][]Transaction{},
	}
}

// ValidationError names one field-level rule violation. Validation errors are
// data, not failures: they ride along on an otherwise successful response.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

// ExtractionResponse is the externally visible aggregate built once per
// request and never mutated afterwards.
type ExtractionResponse struct {
	DocumentType     DocumentType       `json:"document_type"`
	ExtractedData    map[string]any     `json:"extracted_data"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	ValidationErrors []ValidationError  `json:"validation_errors"`
	IsValid          bool               `json:"is_valid"`
	ProcessingTimeMS float64            `json:"processing_time_ms"`
}

// Upload is the raw request payload handed to the pipeline. ReceivedAt marks
// when the transport began reading the body; processing time is measured from
// it.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
	ReceivedAt  time.Time
}

// PageImage is one normalized, transport-ready document page.
type PageImage struct {
	Page     int
	MIMEType string
	Width    int
	Height   int
	Base64   string
}

// ClampConfidence forces a confidence score into [0,1] even when the oracle
// misbehaves.
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
