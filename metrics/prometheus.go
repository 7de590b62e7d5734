package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	catalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of requests sent to the catalog service.",
		},
		[]string{"method", "endpoint", "status"},
	)
	catalogRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Histogram of catalog request durations.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)
	fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fallbacks_total",
			Help: "Fallback searches issued after an empty single-dimension result, by outcome.",
		},
		[]string{"dimension", "outcome"},
	)
	staleResponsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_stale_responses_total",
			Help: "Responses discarded because a newer query was issued.",
		},
	)
)

func init() {
	prometheus.MustRegister(catalogRequestsTotal)
	prometheus.MustRegister(catalogRequestDuration)
	prometheus.MustRegister(fallbacksTotal)
	prometheus.MustRegister(staleResponsesTotal)
}

// RecordRequest записывает метрики для запроса к каталогу. statusCode 0 означает
// транспортную ошибку.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	catalogRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	catalogRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

func RecordFallback(dimension, outcome string) {
	fallbacksTotal.WithLabelValues(dimension, outcome).Inc()
}

func RecordStaleResponse() {
	staleResponsesTotal.Inc()
}

// classifyStatus классифицирует HTTP-статус код в строку.
func classifyStatus(statusCode int) string {
	switch {
	case statusCode == 0:
		return "error"
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// MetricsHandler возвращает HTTP-обработчик для экспорта метрик Prometheus.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
