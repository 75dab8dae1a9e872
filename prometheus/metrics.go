package prometheus

import (
	"net/http"
	"time"

	"paintflow-api/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Authentication metrics
	LoginCounter      prometheus.Counter
	RegisterCounter   prometheus.Counter
	AuthErrorsCounter prometheus.CounterVec

	// Session metrics
	TokensIssuedCounter    prometheus.Counter
	TokensRefreshedCounter prometheus.Counter
	TokensRevokedCounter   prometheus.Counter

	// Inventory metrics
	StockAdjustmentsCounter   prometheus.CounterVec
	TransferOperationsCounter prometheus.CounterVec

	// Recommendation metrics
	RecommendationsServedCounter prometheus.Counter
	BundleOrdersCounter          prometheus.Counter
	ForecastDegradedCounter      prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	LoginCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_login_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_registrations_total",
			Help: "Total number of registration attempts",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"error_type"},
	)

	TokensIssuedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_tokens_issued_total",
			Help: "Total number of token pairs issued",
		},
	)

	TokensRefreshedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_tokens_refreshed_total",
			Help: "Total number of refresh token rotations",
		},
	)

	TokensRevokedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_tokens_revoked_total",
			Help: "Total number of refresh tokens revoked",
		},
	)

	StockAdjustmentsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_stock_adjustments_total",
			Help: "Total number of stock ledger adjustments",
		},
		[]string{"result"},
	)

	TransferOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_transfer_operations_total",
			Help: "Total number of transfer state operations",
		},
		[]string{"operation", "result"},
	)

	RecommendationsServedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_recommendations_served_total",
			Help: "Total number of smart order recommendations served",
		},
	)

	BundleOrdersCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_bundle_orders_total",
			Help: "Total number of orders placed through bundle acceptance",
		},
	)

	ForecastDegradedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_forecast_degraded_total",
			Help: "Total number of forecast calls that failed and fell back to zero demand",
		},
	)
}

// RecordForecastDegraded counts a forecast call that failed and fell back to
// zero demand. No-op before InitMetrics so library code can call it
// unconditionally.
func RecordForecastDegraded() {
	if ForecastDegradedCounter != nil {
		ForecastDegradedCounter.Inc()
	}
}

// RecordAuthError increments the auth error counter for a given error type
func RecordAuthError(errorType string) {
	AuthErrorsCounter.WithLabelValues(errorType).Inc()
}

// RecordTransferOperation increments the transfer operation counter
func RecordTransferOperation(operation, result string) {
	TransferOperationsCounter.WithLabelValues(operation, result).Inc()
}

// TrackDBOperation returns a function to track database operation duration.
// Usage: defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operationType string) func(time.Time) {
	return func(start time.Time) {
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(start).Seconds())
	}
}

// GetPrometheusHandler returns the HTTP handler for the metrics endpoint
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
