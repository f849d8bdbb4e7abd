package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Analysis metrics
	analysisRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kizuna_analysis_requests_total",
		Help: "Total number of analysis requests by operation and outcome",
	}, []string{"operation", "status"})

	analysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kizuna_analysis_duration_seconds",
		Help:    "Duration of analysis operations end to end",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	fallbacksServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kizuna_analysis_fallbacks_total",
		Help: "Total number of default-fallback responses served",
	}, []string{"operation"})

	// Summarization metrics
	summariesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kizuna_summaries_generated_total",
		Help: "Total number of rolling summaries generated",
	})

	summariesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kizuna_summaries_skipped_total",
		Help: "Total number of calls where summarization was skipped or failed",
	})

	// Cache metrics
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kizuna_cache_hits_total",
		Help: "Total number of analysis cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kizuna_cache_misses_total",
		Help: "Total number of analysis cache misses",
	})

	// Rate limit metrics
	rateLimitExceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kizuna_rate_limit_exceeded_total",
		Help: "Total number of rate limit exceeded events",
	})

	// Storage metrics
	storageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kizuna_storage_operations_total",
		Help: "Total number of storage operations",
	}, []string{"operation", "status"})

	storageOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kizuna_storage_operation_duration_seconds",
		Help:    "Duration of storage operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// Metrics provides methods to record metrics
type Metrics struct{}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordAnalysis records one analysis operation.
func (m *Metrics) RecordAnalysis(operation, status string, duration time.Duration) {
	analysisRequests.WithLabelValues(operation, status).Inc()
	analysisDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFallback records a default-fallback response.
func (m *Metrics) RecordFallback(operation string) {
	fallbacksServed.WithLabelValues(operation).Inc()
}

// RecordSummaryGenerated records a generated rolling summary.
func (m *Metrics) RecordSummaryGenerated() {
	summariesGenerated.Inc()
}

// RecordSummarySkipped records a call where no summary was produced.
func (m *Metrics) RecordSummarySkipped() {
	summariesSkipped.Inc()
}

// RecordCacheHit records a cache hit
func (m *Metrics) RecordCacheHit() {
	cacheHits.Inc()
}

// RecordCacheMiss records a cache miss
func (m *Metrics) RecordCacheMiss() {
	cacheMisses.Inc()
}

// RecordRateLimitExceeded records a rate limit exceeded event
func (m *Metrics) RecordRateLimitExceeded() {
	rateLimitExceeded.Inc()
}

// RecordStorageOperation records a storage operation
func (m *Metrics) RecordStorageOperation(operation, status string, duration time.Duration) {
	storageOperations.WithLabelValues(operation, status).Inc()
	storageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// StartMetricsServer starts the metrics HTTP server
func StartMetricsServer(port int, path string) error {
	router := mux.NewRouter()
	router.Handle(path, promhttp.Handler())

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
