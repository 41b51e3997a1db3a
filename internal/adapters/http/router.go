package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/document-extractor/internal/config"
	"github.com/kirillkom/document-extractor/internal/core/domain"
	"github.com/kirillkom/document-extractor/internal/core/ports"
	"github.com/kirillkom/document-extractor/internal/core/schema"
	"github.com/kirillkom/document-extractor/internal/observability/metrics"
)

const serviceName = "document-extractor-api"

type Router struct {
	cfg       config.Config
	extractor ports.DocumentExtractor
	registry  *schema.Registry
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	extractor ports.DocumentExtractor,
	registry *schema.Registry,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:       cfg,
		extractor: extractor,
		registry:  registry,
		metrics:   m,
	}
}

func (rt *Router) Handler() http.Handler {
	// Traffic control guards only the extraction routes; liveness and scrapes
	// must keep answering on a saturated instance. Both routes share one
	// limiter and one concurrency gate.
	extractMux := http.NewServeMux()
	extractMux.HandleFunc("/api/extract", rt.extract)
	extractMux.HandleFunc("/api/extract_by_type/", rt.extractByType)
	var extraction http.Handler = extractMux
	extraction = backpressureMiddleware(extraction, rt.cfg.MaxConcurrentExtractions, 100*time.Millisecond)
	extraction = rateLimitMiddleware(extraction, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", rt.health)
	mux.HandleFunc("/api/document_types", rt.documentTypes)
	mux.Handle("/api/extract", extraction)
	mux.Handle("/api/extract_by_type/", extraction)
	mux.Handle("/metrics", rt.metrics.Handler())

	var handler http.Handler = mux
	handler = rt.metrics.Middleware(serviceName, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type documentTypeEntry struct {
	Type        domain.DocumentType `json:"type"`
	DisplayName string              `json:"display_name"`
	Description string              `json:"description"`
}

func (rt *Router) documentTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	types := rt.registry.Types()
	entries := make([]documentTypeEntry, 0, len(types))
	for _, docType := range types {
		def, err := rt.registry.Lookup(docType)
		if err != nil {
			continue
		}
		entries = append(entries, documentTypeEntry{
			Type:        def.Type,
			DisplayName: def.DisplayName,
			Description: def.Description,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"document_types": entries})
}

func (rt *Router) extract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	upload, ok := rt.readUpload(w, r)
	if !ok {
		return
	}

	resp, err := rt.extractor.Extract(r.Context(), upload)
	if err != nil {
		rt.metrics.RecordExtraction(serviceName, "unknown", errorOutcome(err))
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	rt.recordSuccess(resp)
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) extractByType(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/api/extract_by_type/")
	key = strings.Trim(key, "/")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document type is required"})
		return
	}

	docType, known := domain.ParseDocumentType(strings.ToLower(key))
	if !known {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "unknown document type: " + key})
		return
	}

	upload, ok := rt.readUpload(w, r)
	if !ok {
		return
	}

	resp, err := rt.extractor.ExtractByType(r.Context(), docType, upload)
	if err != nil {
		rt.metrics.RecordExtraction(serviceName, string(docType), errorOutcome(err))
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	rt.recordSuccess(resp)
	writeJSON(w, http.StatusOK, resp)
}

// readUpload pulls the multipart "file" part into memory. Size enforcement
// happens during normalization; the reader is only capped as a hard stop
// against runaway bodies. ReceivedAt is taken before the body is drained so
// processing time covers the upload read.
func (rt *Router) readUpload(w http.ResponseWriter, r *http.Request) (domain.Upload, bool) {
	received := time.Now()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return domain.Upload{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, rt.cfg.MaxUploadBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read uploaded file"})
		return domain.Upload{}, false
	}

	return domain.Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
		ReceivedAt:  received,
	}, true
}

func (rt *Router) recordSuccess(resp *domain.ExtractionResponse) {
	outcome := "valid"
	if !resp.IsValid {
		outcome = "invalid"
	}
	rt.metrics.RecordExtraction(serviceName, string(resp.DocumentType), outcome)
	rt.metrics.RecordValidationErrors(serviceName, string(resp.DocumentType), len(resp.ValidationErrors))
}

func errorOutcome(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrClassificationAmbiguous):
		return "ambiguous"
	case domain.IsKind(err, domain.ErrTemporary):
		return "temporary"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
