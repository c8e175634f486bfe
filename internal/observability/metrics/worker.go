package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	rankUpdateTotal    *prometheus.CounterVec
	rankUpdateDuration *prometheus.HistogramVec
	rankUpdateInFlight prometheus.Gauge
	rerankEntries      *prometheus.HistogramVec
	queueLag           *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	rankUpdateTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cannon",
			Subsystem: "ranker",
			Name:      "update_total",
			Help:      "Total leaderboard updates by status.",
		},
		[]string{"service", "status"},
	)
	rankUpdateDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cannon",
			Subsystem: "ranker",
			Name:      "update_duration_seconds",
			Help:      "Leaderboard update duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	rankUpdateInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cannon",
			Subsystem: "ranker",
			Name:      "update_in_flight",
			Help:      "Number of in-flight leaderboard updates.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	rerankEntries := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cannon",
			Subsystem: "ranker",
			Name:      "rerank_entries",
			Help:      "Board size at each global rank recomputation.",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
		[]string{"service"},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cannon",
			Subsystem: "ranker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between scan completion and ranking start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(rankUpdateTotal, rankUpdateDuration, rankUpdateInFlight, rerankEntries, queueLag)

	return &WorkerMetrics{
		registry:           registry,
		rankUpdateTotal:    rankUpdateTotal,
		rankUpdateDuration: rankUpdateDuration,
		rankUpdateInFlight: rankUpdateInFlight,
		rerankEntries:      rerankEntries,
		queueLag:           queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartUpdate() {
	m.rankUpdateInFlight.Inc()
}

func (m *WorkerMetrics) FinishUpdate(service string, duration time.Duration, err error) {
	m.rankUpdateInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.rankUpdateTotal.WithLabelValues(service, status).Inc()
	m.rankUpdateDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveBoardSize(service string, entries int) {
	if entries < 0 {
		return
	}
	m.rerankEntries.WithLabelValues(service).Observe(float64(entries))
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
