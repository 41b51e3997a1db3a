package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	extractionsTotal      *prometheus.CounterVec
	oracleCallsTotal      *prometheus.CounterVec
	oracleDuration        *prometheus.HistogramVec
	validationErrorsTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docex",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docex",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docex",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	extractionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docex",
			Subsystem: "pipeline",
			Name:      "extractions_total",
			Help:      "Total completed extraction requests by document type and outcome.",
		},
		[]string{"service", "document_type", "outcome"},
	)
	oracleCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docex",
			Subsystem: "oracle",
			Name:      "calls_total",
			Help:      "Total oracle model calls by operation and outcome.",
		},
		[]string{"service", "operation", "outcome"},
	)
	oracleDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docex",
			Subsystem: "oracle",
			Name:      "call_duration_seconds",
			Help:      "Oracle model call duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 60},
		},
		[]string{"service", "operation"},
	)
	validationErrorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docex",
			Subsystem: "pipeline",
			Name:      "validation_errors_total",
			Help:      "Total field validation errors by document type.",
		},
		[]string{"service", "document_type"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		extractionsTotal,
		oracleCallsTotal,
		oracleDuration,
		validationErrorsTotal,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		extractionsTotal:      extractionsTotal,
		oracleCallsTotal:      oracleCallsTotal,
		oracleDuration:        oracleDuration,
		validationErrorsTotal: validationErrorsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/extract_by_type/"):
		return "/api/extract_by_type/{document_type}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordExtraction(service, documentType, outcome string) {
	if documentType == "" {
		documentType = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.extractionsTotal.WithLabelValues(service, documentType, outcome).Inc()
}

func (m *HTTPServerMetrics) RecordOracleCall(service, operation, outcome string, duration time.Duration) {
	if operation == "" {
		operation = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.oracleCallsTotal.WithLabelValues(service, operation, outcome).Inc()
	m.oracleDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordValidationErrors(service, documentType string, count int) {
	if count <= 0 {
		return
	}
	if documentType == "" {
		documentType = "unknown"
	}
	m.validationErrorsTotal.WithLabelValues(service, documentType).Add(float64(count))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
