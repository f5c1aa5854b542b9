package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics carries the HTTP surface metrics plus the retrieval pipeline
// telemetry. It satisfies usecase.PipelineObserver so the core stays free of
// prometheus imports.
type ServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	pipelineRequestsTotal *prometheus.CounterVec
	pipelineStageDuration *prometheus.HistogramVec
	pipelineRetriesTotal  *prometheus.CounterVec
	oracleParseFailures   *prometheus.CounterVec
	dedupRejectedTotal    prometheus.Counter
	cascadeDepth          prometheus.Histogram
}

func NewServerMetrics(service string) *ServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coach",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coach",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "coach",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	pipelineRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coach",
			Subsystem: "pipeline",
			Name:      "requests_total",
			Help:      "Completed pipeline runs by category and outcome.",
		},
		[]string{"category", "outcome"},
	)
	pipelineStageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coach",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Per-stage pipeline execution time in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	pipelineRetriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coach",
			Subsystem: "pipeline",
			Name:      "rewrite_retries_total",
			Help:      "Query rewrite retries spent by category.",
		},
		[]string{"category"},
	)
	oracleParseFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coach",
			Subsystem: "oracle",
			Name:      "parse_failures_total",
			Help:      "Model outputs that fell through the defensive parse chain.",
		},
		[]string{"stage"},
	)
	dedupRejectedTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coach",
			Subsystem: "retrieval",
			Name:      "dedup_rejected_total",
			Help:      "Candidate chunks rejected as near-duplicates.",
		},
	)
	cascadeDepth := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "coach",
			Subsystem: "retrieval",
			Name:      "cascade_depth",
			Help:      "Filter cascade steps walked per filtered retrieval.",
			Buckets:   []float64{1, 2, 3, 4},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		pipelineRequestsTotal,
		pipelineStageDuration,
		pipelineRetriesTotal,
		oracleParseFailures,
		dedupRejectedTotal,
		cascadeDepth,
	)

	return &ServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		pipelineRequestsTotal: pipelineRequestsTotal,
		pipelineStageDuration: pipelineStageDuration,
		pipelineRetriesTotal:  pipelineRetriesTotal,
		oracleParseFailures:   oracleParseFailures,
		dedupRejectedTotal:    dedupRejectedTotal,
		cascadeDepth:          cascadeDepth,
	}
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
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
			r.URL.Path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

func (m *ServerMetrics) StageCompleted(stage string, seconds float64) {
	m.pipelineStageDuration.WithLabelValues(stage).Observe(seconds)
}

func (m *ServerMetrics) RequestCompleted(category, outcome string) {
	if category == "" {
		category = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.pipelineRequestsTotal.WithLabelValues(category, outcome).Inc()
}

func (m *ServerMetrics) RetryOccurred(category string) {
	if category == "" {
		category = "unknown"
	}
	m.pipelineRetriesTotal.WithLabelValues(category).Inc()
}

func (m *ServerMetrics) OracleParseFailure(stage string) {
	m.oracleParseFailures.WithLabelValues(stage).Inc()
}

func (m *ServerMetrics) DedupRejected() {
	m.dedupRejectedTotal.Inc()
}

func (m *ServerMetrics) CascadeDepth(depth int) {
	m.cascadeDepth.Observe(float64(depth))
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
