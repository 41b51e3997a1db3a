// Package gemini implements the extraction oracle on the Gemini API. Both
// operations send one normalized page image plus a task prompt and expect a
// strict JSON reply; extraction replies are checked against a compiled JSON
// Schema before they are mapped into the domain.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"google.golang.org/genai"

	"github.com/kirillkom/document-extractor/internal/core/domain"
	"github.com/kirillkom/document-extractor/internal/core/ports"
	"github.com/kirillkom/document-extractor/internal/core/schema"
	"github.com/kirillkom/document-extractor/internal/infrastructure/resilience"
)

// CallObserver receives one observation per finished model call.
type CallObserver interface {
	RecordOracleCall(service, operation, outcome string, duration time.Duration)
}

const (
	opClassify = "gemini.classify"
	opExtract  = "gemini.extract"

	generationTemperature = 0.1
)

type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	exec    *resilience.Executor

	registry *schema.Registry
	labels   []string
	schemas  map[domain.DocumentType]*jsonschema.Schema

	service  string
	observer CallObserver
}

var _ ports.ExtractionOracle = (*Client)(nil)

func New(ctx context.Context, apiKey, model string, timeout time.Duration, exec *resilience.Executor, registry *schema.Registry, service string, observer CallObserver) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	schemas := make(map[domain.DocumentType]*jsonschema.Schema)
	for _, docType := range registry.Types() {
		def, err := registry.Lookup(docType)
		if err != nil {
			return nil, fmt.Errorf("gemini: resolve definition %s: %w", docType, err)
		}
		compiled, err := compileSchema(def)
		if err != nil {
			return nil, fmt.Errorf("gemini: compile schema %s: %w", docType, err)
		}
		schemas[docType] = compiled
	}

	labels := make([]string, 0, len(registry.Types())+1)
	for _, docType := range registry.Types() {
		labels = append(labels, string(docType))
	}
	labels = append(labels, string(domain.TypeUnknown))

	return &Client{
		client:   client,
		model:    model,
		timeout:  timeout,
		exec:     exec,
		registry: registry,
		labels:   labels,
		schemas:  schemas,
		service:  service,
		observer: observer,
	}, nil
}

func compileSchema(def domain.Definition) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema.JSONSchema(def))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

// Classify fails open: any transport, model, or parse failure degrades to
// the unknown type at zero confidence instead of surfacing an error.
func (c *Client) Classify(ctx context.Context, img domain.PageImage) (domain.ClassificationResult, error) {
	raw, err := c.generate(ctx, opClassify, classificationPrompt(c.registry), classifierInstruction, img)
	if err != nil {
		slog.Warn("classification_degraded", "error", err)
		return domain.ClassificationResult{DocumentType: domain.TypeUnknown, Confidence: 0}, nil
	}

	result, err := parseClassification(raw, c.labels)
	if err != nil {
		slog.Warn("classification_degraded", "error", err)
		return domain.ClassificationResult{DocumentType: domain.TypeUnknown, Confidence: 0}, nil
	}
	return result, nil
}

func (c *Client) Extract(ctx context.Context, img domain.PageImage, def domain.Definition) (*domain.ExtractionResult, error) {
	raw, err := c.generate(ctx, opExtract, extractionPrompt(def), extractorInstruction, img)
	if err != nil {
		return nil, wrapTemporaryIfNeeded("extract fields", err)
	}

	cleaned := cleanMarkdownFences(raw)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("decode oracle reply: %w", err)
	}

	if compiled, ok := c.schemas[def.Type]; ok {
		if err := compiled.Validate(payload); err != nil {
			return nil, fmt.Errorf("validate oracle reply: %w", err)
		}
	}

	return mapResult(def, payload)
}

// generate runs one model call through the resilience executor. The page
// image rides along as inline bytes next to the task prompt.
func (c *Client) generate(ctx context.Context, operation, prompt, instruction string, img domain.PageImage) (string, error) {
	data, err := base64.StdEncoding.DecodeString(img.Base64)
	if err != nil {
		return "", domain.WrapError(domain.ErrPreprocessing, "decode page image", err)
	}

	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				genai.NewPartFromText(prompt),
				genai.NewPartFromBytes(data, img.MIMEType),
			},
		},
	}

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(generationTemperature)),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
	}

	start := time.Now()
	var text string
	err = c.exec.Execute(ctx, operation, func(ctx context.Context) error {
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		resp, err := c.client.Models.GenerateContent(callCtx, c.model, contents, config)
		if err != nil {
			return err
		}

		text = resp.Text()
		if text == "" {
			return fmt.Errorf("empty model response")
		}
		return nil
	}, classifyGeminiError)

	if c.observer != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.observer.RecordOracleCall(c.service, operation, outcome, time.Since(start))
	}

	if err != nil {
		return "", err
	}
	return text, nil
}
