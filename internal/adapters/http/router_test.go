package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirillkom/document-extractor/internal/config"
	"github.com/kirillkom/document-extractor/internal/core/domain"
	"github.com/kirillkom/document-extractor/internal/core/schema"
	"github.com/kirillkom/document-extractor/internal/observability/metrics"
)

type fakeExtractor struct {
	resp *domain.ExtractionResponse
	err  error

	lastType domain.DocumentType
	calls    int
}

func (f *fakeExtractor) Extract(_ context.Context, _ domain.Upload) (*domain.ExtractionResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeExtractor) ExtractByType(_ context.Context, docType domain.DocumentType, _ domain.Upload) (*domain.ExtractionResponse, error) {
	f.calls++
	f.lastType = docType
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func testConfig() config.Config {
	return config.Config{
		MaxUploadBytes:           1 << 20,
		RateLimitRPS:             0,
		RateLimitBurst:           0,
		MaxConcurrentExtractions: 0,
	}
}

func newTestHandler(cfg config.Config, extractor *fakeExtractor) http.Handler {
	return NewRouter(cfg, extractor, schema.NewRegistry(), metrics.NewHTTPServerMetrics("test")).Handler()
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func validResponse() *domain.ExtractionResponse {
	return &domain.ExtractionResponse{
		DocumentType:     domain.TypePANCard,
		ExtractedData:    map[string]any{"pan_number": "ABCDE1234F"},
		ConfidenceScores: map[string]float64{"pan_number": 0.97},
		ValidationErrors: []domain.ValidationError{},
		IsValid:          true,
		ProcessingTimeMS: 1342.7,
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(testConfig(), &fakeExtractor{resp: validResponse()})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected X-Request-Id header")
	}
}

func TestDocumentTypesEndpoint(t *testing.T) {
	handler := newTestHandler(testConfig(), &fakeExtractor{resp: validResponse()})

	req := httptest.NewRequest(http.MethodGet, "/api/document_types", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var body struct {
		DocumentTypes []documentTypeEntry `json:"document_types"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.DocumentTypes) != 7 {
		t.Fatalf("expected 7 document types, got %d", len(body.DocumentTypes))
	}
}

func TestExtractHappyPath(t *testing.T) {
	extractor := &fakeExtractor{resp: validResponse()}
	handler := newTestHandler(testConfig(), extractor)

	body, contentType := multipartUpload(t, "file", "pan.jpg", []byte("fake image bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var resp domain.ExtractionResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DocumentType != domain.TypePANCard || !resp.IsValid {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.ValidationErrors == nil {
		t.Fatalf("validation_errors must serialize as an empty list, not null")
	}
}

func TestExtractRequiresFileField(t *testing.T) {
	handler := newTestHandler(testConfig(), &fakeExtractor{resp: validResponse()})

	body, contentType := multipartUpload(t, "document", "pan.jpg", []byte("fake"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestExtractRejectsNonPost(t *testing.T) {
	handler := newTestHandler(testConfig(), &fakeExtractor{resp: validResponse()})

	req := httptest.NewRequest(http.MethodGet, "/api/extract", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestExtractMapsErrorKindsToStatuses(t *testing.T) {
	cases := []struct {
		kind   error
		status int
	}{
		{domain.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{domain.ErrUnsupportedMedia, http.StatusBadRequest},
		{domain.ErrClassificationAmbiguous, http.StatusBadRequest},
		{domain.ErrUnsupportedType, http.StatusNotImplemented},
		{domain.ErrTemporary, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		extractor := &fakeExtractor{err: domain.WrapError(tc.kind, "extract", context.DeadlineExceeded)}
		handler := newTestHandler(testConfig(), extractor)

		body, contentType := multipartUpload(t, "file", "doc.jpg", []byte("fake"))
		req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
		req.Header.Set("Content-Type", contentType)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		if res.Code != tc.status {
			t.Fatalf("kind %v: expected %d, got %d", tc.kind, tc.status, res.Code)
		}
	}
}

func TestExtractByTypeDispatchesRequestedType(t *testing.T) {
	extractor := &fakeExtractor{resp: validResponse()}
	handler := newTestHandler(testConfig(), extractor)

	body, contentType := multipartUpload(t, "file", "pan.jpg", []byte("fake"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract_by_type/pan_card", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if extractor.lastType != domain.TypePANCard {
		t.Fatalf("expected pan_card dispatch, got %q", extractor.lastType)
	}
}

func TestExtractByTypeRejectsUnknownKey(t *testing.T) {
	extractor := &fakeExtractor{resp: validResponse()}
	handler := newTestHandler(testConfig(), extractor)

	body, contentType := multipartUpload(t, "file", "doc.jpg", []byte("fake"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract_by_type/passport", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Code)
	}
	if extractor.calls != 0 {
		t.Fatalf("extractor must not run for an unknown type key")
	}
}

func TestExtractByTypeMapsUnknownTypeKeyError(t *testing.T) {
	extractor := &fakeExtractor{err: domain.WrapError(domain.ErrUnknownTypeKey, "resolve requested type", context.DeadlineExceeded)}
	handler := newTestHandler(testConfig(), extractor)

	body, contentType := multipartUpload(t, "file", "doc.jpg", []byte("fake"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract_by_type/unknown", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Code)
	}
}

func TestMetricsEndpointIsExposed(t *testing.T) {
	handler := newTestHandler(testConfig(), &fakeExtractor{resp: validResponse()})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}
