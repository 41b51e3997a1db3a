package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kirillkom/document-extractor/internal/core/domain"
	"github.com/kirillkom/document-extractor/internal/core/schema"
)

const classifierInstruction = "You are a document classification assistant. " +
	"You look at one document image and decide which known document type it is. " +
	"Reply with strict JSON only, no markdown and no commentary."

const extractorInstruction = "You are a document data extraction assistant. " +
	"You read one document image and transcribe the requested fields exactly as printed. " +
	"Reply with strict JSON only, no markdown and no commentary."

// classificationPrompt lists the known labels with their one-line
// descriptions and demands a {document_type, confidence} reply.
func classificationPrompt(registry *schema.Registry) string {
	descriptions := registry.Descriptions()

	var b strings.Builder
	b.WriteString("Classify the attached document image as exactly one of the following types:\n\n")
	for _, docType := range registry.Types() {
		fmt.Fprintf(&b, "- %s: %s\n", docType, descriptions[docType])
	}
	fmt.Fprintf(&b, "- %s: none of the above, or the image is not a recognizable document\n", domain.TypeUnknown)
	b.WriteString("\nRespond with a JSON object of this exact shape:\n")
	b.WriteString(`{"document_type": "<one of the type keys above>", "confidence": <number between 0.0 and 1.0>}` + "\n")
	b.WriteString("\nUse the unknown type with low confidence when you are not sure. Do not invent new type keys.")
	return b.String()
}

// extractionPrompt walks the definition's field list, emitting one numbered
// block per field with its location and format hints, then appends the reply
// contract and the JSON schema the reply must satisfy.
func extractionPrompt(def domain.Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Extract the following fields from the attached %s image.\n\n", def.DisplayName)

	for i, f := range def.Fields {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f.Name)
		if f.Location != "" {
			fmt.Fprintf(&b, "   Location: %s\n", f.Location)
		}
		if f.Format != "" {
			fmt.Fprintf(&b, "   Format: %s\n", f.Format)
		}
	}

	b.WriteString("\nFor every text, date, and amount field, return an object with:\n")
	b.WriteString(`- "value": the transcribed text exactly as printed, or "" if absent` + "\n")
	b.WriteString(`- "confidence": how certain you are in the transcription, 0.0 to 1.0` + "\n")
	b.WriteString(`- "is_readable": false when the field is present but too blurred, cropped, or obscured to read` + "\n")
	b.WriteString("\nNever guess: an unreadable field gets an empty value, low confidence, and is_readable false.\n")

	raw, err := json.MarshalIndent(schema.JSONSchema(def), "", "  ")
	if err == nil {
		b.WriteString("\nYour reply must be a single JSON object conforming to this JSON Schema:\n")
		b.Write(raw)
		b.WriteString("\n")
	}

	return b.String()
}
