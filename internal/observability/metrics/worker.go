package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	buildTotal        *prometheus.CounterVec
	buildDuration     *prometheus.HistogramVec
	buildInFlight     prometheus.Gauge
	queueLag          *prometheus.HistogramVec
	itemsPerQuotation *prometheus.HistogramVec
	matchStatusTotal  *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	buildTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tq",
			Subsystem: "worker",
			Name:      "quotation_build_total",
			Help:      "Total quotation builds by outcome.",
		},
		[]string{"service", "status"},
	)
	buildDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tq",
			Subsystem: "worker",
			Name:      "quotation_build_duration_seconds",
			Help:      "Quotation build duration in seconds by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	buildInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tq",
			Subsystem: "worker",
			Name:      "quotation_build_in_flight",
			Help:      "Number of in-flight quotation builds.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tq",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between quotation submission and build start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	itemsPerQuotation := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tq",
			Subsystem: "worker",
			Name:      "items_per_quotation",
			Help:      "Distribution of extracted tender items per build.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34, 55},
		},
		[]string{"service"},
	)
	matchStatusTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tq",
			Subsystem: "worker",
			Name:      "match_status_total",
			Help:      "Total resolved tender items by match status.",
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(
		buildTotal,
		buildDuration,
		buildInFlight,
		queueLag,
		itemsPerQuotation,
		matchStatusTotal,
	)

	return &WorkerMetrics{
		registry:          registry,
		buildTotal:        buildTotal,
		buildDuration:     buildDuration,
		buildInFlight:     buildInFlight,
		queueLag:          queueLag,
		itemsPerQuotation: itemsPerQuotation,
		matchStatusTotal:  matchStatusTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) BuildStarted() {
	m.buildInFlight.Inc()
}

func (m *WorkerMetrics) BuildFinished(service, status string, duration time.Duration) {
	m.buildInFlight.Dec()
	m.buildTotal.WithLabelValues(service, status).Inc()
	m.buildDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) RecordQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) RecordResolvedItems(service string, statuses map[string]int) {
	total := 0
	for status, count := range statuses {
		total += count
		m.matchStatusTotal.WithLabelValues(service, status).Add(float64(count))
	}
	m.itemsPerQuotation.WithLabelValues(service).Observe(float64(total))
}
