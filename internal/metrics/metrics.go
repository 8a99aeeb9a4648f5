package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "bsched_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	projectionTotal   *prometheus.CounterVec
	projectionLatency *prometheus.HistogramVec
	skippedRecords    *prometheus.CounterVec

	storageOps     *prometheus.CounterVec
	storageLatency *prometheus.HistogramVec

	mutations *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		)

		projectionTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "projection_total",
				Help: "Total week projections by result",
			},
			[]string{"result"},
		)
		projectionLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "projection_latency_seconds",
				Help:    "Week projection latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		skippedRecords = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "skipped_records_total",
				Help: "Persisted records skipped because they could not be read, by operation",
			},
			[]string{"operation"},
		)

		storageOps = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "storage_operations_total",
				Help: "Total storage operations by backend, operation and result",
			},
			[]string{"backend", "operation", "result"},
		)
		storageLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "storage_latency_seconds",
				Help:    "Storage operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		)

		mutations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "mutations_total",
				Help: "Total schedule mutations by type and result",
			},
			[]string{"type", "result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			projectionTotal,
			projectionLatency,
			skippedRecords,
			storageOps,
			storageLatency,
			mutations,
			exportTotal,
			exportLatency,
		)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one served request.
func ObserveHTTP(route, method, status string, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(route, method, status).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(route, method).Observe(duration.Seconds())
	}
}

// ObserveProjection records projection latency and result.
func ObserveProjection(err error, duration time.Duration) {
	result := resultOf(err)
	if projectionTotal != nil {
		projectionTotal.WithLabelValues(result).Inc()
	}
	if projectionLatency != nil {
		projectionLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddSkipped counts records skipped during an operation such as "list" or "projection".
func AddSkipped(operation string, count int) {
	if count <= 0 {
		return
	}
	if skippedRecords != nil {
		skippedRecords.WithLabelValues(operation).Add(float64(count))
	}
}

// ObserveStorage records one backend call.
func ObserveStorage(backend, operation string, err error, duration time.Duration) {
	if storageOps != nil {
		storageOps.WithLabelValues(backend, operation, resultOf(err)).Inc()
	}
	if storageLatency != nil {
		storageLatency.WithLabelValues(backend, operation).Observe(duration.Seconds())
	}
}

// IncMutation counts a create, edit or delete attempt.
func IncMutation(typ string, err error) {
	if typ == "" {
		typ = "unknown"
	}
	if mutations != nil {
		mutations.WithLabelValues(typ, resultOf(err)).Inc()
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format string, err error, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, resultOf(err)).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format).Observe(duration.Seconds())
	}
}

func resultOf(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}
