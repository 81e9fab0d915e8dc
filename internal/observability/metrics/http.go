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

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	ingestTotal       *prometheus.CounterVec
	searchTotal       *prometheus.CounterVec
	answerTotal       *prometheus.CounterVec
	answerDegraded    *prometheus.CounterVec
	retrievedChunks   *prometheus.HistogramVec
	retrievalDuration *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mqa",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mqa",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mqa",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	ingestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mqa",
			Subsystem: "qa",
			Name:      "ingest_total",
			Help:      "Total manifesto ingestions by status.",
		},
		[]string{"service", "status"},
	)
	searchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mqa",
			Subsystem: "qa",
			Name:      "search_total",
			Help:      "Total successful searches by retrieval mode.",
		},
		[]string{"service", "mode"},
	)
	answerTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mqa",
			Subsystem: "qa",
			Name:      "answers_total",
			Help:      "Total answered questions.",
		},
		[]string{"service"},
	)
	answerDegraded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mqa",
			Subsystem: "qa",
			Name:      "answers_degraded_total",
			Help:      "Total answers synthesized by the extractive fallback.",
		},
		[]string{"service"},
	)
	retrievedChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mqa",
			Subsystem: "qa",
			Name:      "retrieved_chunks",
			Help:      "Distribution of retrieved chunks per request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "endpoint"},
	)
	retrievalDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mqa",
			Subsystem: "qa",
			Name:      "duration_seconds",
			Help:      "Retrieval and answering duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		ingestTotal,
		searchTotal,
		answerTotal,
		answerDegraded,
		retrievedChunks,
		retrievalDuration,
	)

	return &HTTPServerMetrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		ingestTotal:       ingestTotal,
		searchTotal:       searchTotal,
		answerTotal:       answerTotal,
		answerDegraded:    answerDegraded,
		retrievedChunks:   retrievedChunks,
		retrievalDuration: retrievalDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
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

func (m *HTTPServerMetrics) RecordIngest(service string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ingestTotal.WithLabelValues(service, status).Inc()
}

func (m *HTTPServerMetrics) RecordSearch(service, mode string, chunkCount int, duration time.Duration) {
	if mode == "" {
		mode = "unknown"
	}
	m.searchTotal.WithLabelValues(service, mode).Inc()
	m.retrievedChunks.WithLabelValues(service, "search").Observe(float64(chunkCount))
	m.retrievalDuration.WithLabelValues(service, "search").Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordAnswer(service string, degraded bool, sourceCount int, duration time.Duration) {
	m.answerTotal.WithLabelValues(service).Inc()
	if degraded {
		m.answerDegraded.WithLabelValues(service).Inc()
	}
	m.retrievedChunks.WithLabelValues(service, "answer").Observe(float64(sourceCount))
	m.retrievalDuration.WithLabelValues(service, "answer").Observe(duration.Seconds())
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
