package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/document-extractor/internal/config"
	"github.com/kirillkom/document-extractor/internal/core/ports"
	"github.com/kirillkom/document-extractor/internal/core/schema"
	"github.com/kirillkom/document-extractor/internal/core/usecase"
	"github.com/kirillkom/document-extractor/internal/core/validation"
	"github.com/kirillkom/document-extractor/internal/infrastructure/oracle/gemini"
	"github.com/kirillkom/document-extractor/internal/infrastructure/preprocess"
	"github.com/kirillkom/document-extractor/internal/infrastructure/resilience"
	"github.com/kirillkom/document-extractor/internal/observability/metrics"
)

const serviceName = "document-extractor-api"

type App struct {
	Config   config.Config
	Metrics  *metrics.HTTPServerMetrics
	Registry *schema.Registry

	Extractor ports.DocumentExtractor
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	m := metrics.NewHTTPServerMetrics(serviceName)
	registry := schema.NewRegistry()

	normalizer := preprocess.NewNormalizer(
		cfg.MaxUploadBytes,
		cfg.MaxImageDimension,
		cfg.JPEGQuality,
		cfg.AcceptedMIMETypes,
	)

	exec := resilience.NewExecutor(resilience.DefaultConfig())

	oracle, err := gemini.New(
		ctx,
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		time.Duration(cfg.OracleTimeoutSeconds)*time.Second,
		exec,
		registry,
		serviceName,
		m,
	)
	if err != nil {
		return nil, fmt.Errorf("init gemini oracle: %w", err)
	}

	validator := validation.NewEngine(registry)

	extractor := usecase.NewExtractionUseCase(
		normalizer,
		oracle,
		registry,
		validator,
		cfg.ClassifyConfidenceThreshold,
	)

	return &App{
		Config:    cfg,
		Metrics:   m,
		Registry:  registry,
		Extractor: extractor,
	}, nil
}
