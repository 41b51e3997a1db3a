package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	APIPort  string
	LogLevel string

	GeminiAPIKey string
	GeminiModel  string

	ClassifyConfidenceThreshold float64

	MaxUploadBytes    int64
	AcceptedMIMETypes []string
	MaxImageDimension int
	JPEGQuality       int

	OracleTimeoutSeconds int

	RateLimitRPS             float64
	RateLimitBurst           int
	MaxConcurrentExtractions int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		GeminiAPIKey: mustEnv("GEMINI_API_KEY", ""),
		GeminiModel:  mustEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		ClassifyConfidenceThreshold: mustEnvFloat("CLASSIFY_CONFIDENCE_THRESHOLD", 0.6),

		MaxUploadBytes:    mustEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		AcceptedMIMETypes: splitCSV(mustEnv("ACCEPTED_MIME_TYPES", "image/jpeg,image/png,image/tiff,application/pdf")),
		MaxImageDimension: mustEnvInt("MAX_IMAGE_DIMENSION", 2000),
		JPEGQuality:       mustEnvInt("JPEG_QUALITY", 95),

		OracleTimeoutSeconds: mustEnvInt("ORACLE_TIMEOUT_SECONDS", 60),

		RateLimitRPS:             mustEnvFloat("API_RATE_LIMIT_RPS", 10),
		RateLimitBurst:           mustEnvInt("API_RATE_LIMIT_BURST", 20),
		MaxConcurrentExtractions: mustEnvInt("API_MAX_CONCURRENT_EXTRACTIONS", 8),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
