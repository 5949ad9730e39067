package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "medifind"

// Counter metrics
var (
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	AuthAttemptCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Total number of register and login attempts",
		},
		[]string{"operation"},
	)

	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_errors_total",
			Help:      "Total number of authentication errors",
		},
		[]string{"type"}, // invalid_credentials, email_taken, invalid_token, forbidden ...
	)

	DiscoveryQueryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_queries_total",
			Help:      "Total number of discovery queries by operation and outcome",
		},
		[]string{"operation", "result"},
	)

	OrdersCreatedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Total number of orders created",
		},
		[]string{"coupon_applied"},
	)

	OrderStatusUpdateCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_updates_total",
			Help:      "Total number of order status updates by new status",
		},
		[]string{"status"},
	)

	AIRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_requests_total",
			Help:      "Total number of upstream AI requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_operation_duration_seconds",
			Help:      "Duration of database operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DiscoveryResultSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "discovery_result_size",
			Help:      "Number of rows returned by discovery queries",
			Buckets:   []float64{0, 1, 2, 4, 5, 10, 25, 50, 100},
		},
		[]string{"operation"},
	)
)

// Gauge metrics
var (
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "info",
			Help:      "Information about the service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthAttemptCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(DiscoveryQueryCounter)
	prometheus.MustRegister(OrdersCreatedCounter)
	prometheus.MustRegister(OrderStatusUpdateCounter)
	prometheus.MustRegister(AIRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
	prometheus.MustRegister(DiscoveryResultSize)

	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation starts a timer for a store operation; call the returned
// func when the operation finishes.
func TrackDBOperation(operation string) func() {
	start := time.Now()
	return func() {
		DBOperationDuration.With(prometheus.Labels{"operation": operation}).Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request.
// Errors are handed to the HTTP error handler first so the recorded status is
// the one the client receives.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthAttempt records a register or login attempt
func RecordAuthAttempt(operation string) {
	AuthAttemptCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordDiscoveryQuery records a discovery query and its result size
func RecordDiscoveryQuery(operation string, results int) {
	result := "found"
	if results == 0 {
		result = "empty"
	}
	DiscoveryQueryCounter.With(prometheus.Labels{"operation": operation, "result": result}).Inc()
	DiscoveryResultSize.With(prometheus.Labels{"operation": operation}).Observe(float64(results))
}

// RecordOrderCreated records a new order
func RecordOrderCreated(couponApplied bool) {
	OrdersCreatedCounter.With(prometheus.Labels{"coupon_applied": strconv.FormatBool(couponApplied)}).Inc()
}

// RecordOrderStatusUpdate records a status change
func RecordOrderStatusUpdate(status string) {
	OrderStatusUpdateCounter.With(prometheus.Labels{"status": status}).Inc()
}

// RecordAIRequest records an upstream AI call
func RecordAIRequest(operation, outcome string) {
	AIRequestCounter.With(prometheus.Labels{"operation": operation, "outcome": outcome}).Inc()
}
