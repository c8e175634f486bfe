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

	scanSubmitTotal    *prometheus.CounterVec
	scanAnalyzeTotal   *prometheus.CounterVec
	scanAnalyzeSeconds *prometheus.HistogramVec
	leaderboardReads   *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cannon",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cannon",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cannon",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	scanSubmitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cannon",
			Subsystem: "scan",
			Name:      "submit_total",
			Help:      "Total scan submissions by outcome.",
		},
		[]string{"service", "outcome"},
	)
	scanAnalyzeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cannon",
			Subsystem: "scan",
			Name:      "analyze_total",
			Help:      "Total analysis triggers by final scan status.",
		},
		[]string{"service", "status"},
	)
	scanAnalyzeSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cannon",
			Subsystem: "scan",
			Name:      "analyze_duration_seconds",
			Help:      "End-to-end analysis duration in seconds by final status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
		},
		[]string{"service", "status"},
	)
	leaderboardReads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cannon",
			Subsystem: "leaderboard",
			Name:      "reads_total",
			Help:      "Total leaderboard reads by endpoint.",
		},
		[]string{"service", "endpoint"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		scanSubmitTotal,
		scanAnalyzeTotal,
		scanAnalyzeSeconds,
		leaderboardReads,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		scanSubmitTotal:    scanSubmitTotal,
		scanAnalyzeTotal:   scanAnalyzeTotal,
		scanAnalyzeSeconds: scanAnalyzeSeconds,
		leaderboardReads:   leaderboardReads,
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
	case strings.HasSuffix(path, "/analyze"):
		return "/v1/scans/{scan_id}/analyze"
	case strings.HasPrefix(path, "/v1/scans/") && path != "/v1/scans/latest" && path != "/v1/scans/history":
		return "/v1/scans/{scan_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordSubmit(service, outcome string) {
	m.scanSubmitTotal.WithLabelValues(service, outcome).Inc()
}

func (m *HTTPServerMetrics) RecordAnalyze(service, status string, duration time.Duration) {
	if status == "" {
		status = "unknown"
	}
	m.scanAnalyzeTotal.WithLabelValues(service, status).Inc()
	m.scanAnalyzeSeconds.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordLeaderboardRead(service, endpoint string) {
	m.leaderboardReads.WithLabelValues(service, endpoint).Inc()
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

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
