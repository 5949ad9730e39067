package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	e := echo.New()
	e.Use(MetricsMiddleware())
	e.GET("/api/shops/nearby", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	before := testutil.ToFloat64(HTTPRequestCounter.WithLabelValues("/api/shops/nearby", http.MethodGet, "200"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shops/nearby", nil))

	after := testutil.ToFloat64(HTTPRequestCounter.WithLabelValues("/api/shops/nearby", http.MethodGet, "200"))
	assert.Equal(t, before+1, after)
}

func TestMetricsMiddlewareRecordsErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(MetricsMiddleware(), middleware.Recover())
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})
	e.GET("/panics", func(c echo.Context) error {
		panic("boom")
	})

	tests := []struct {
		path   string
		status int
	}{
		{"/teapot", http.StatusTeapot},
		{"/panics", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status := strconv.Itoa(tt.status)
			before := testutil.ToFloat64(HTTPRequestCounter.WithLabelValues(tt.path, http.MethodGet, status))
			okBefore := testutil.ToFloat64(HTTPRequestCounter.WithLabelValues(tt.path, http.MethodGet, "200"))

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestCounter.WithLabelValues(tt.path, http.MethodGet, status)))
			assert.Equal(t, okBefore, testutil.ToFloat64(HTTPRequestCounter.WithLabelValues(tt.path, http.MethodGet, "200")))
		})
	}
}

func TestRecordDiscoveryQuery(t *testing.T) {
	before := testutil.ToFloat64(DiscoveryQueryCounter.WithLabelValues("search", "empty"))
	RecordDiscoveryQuery("search", 0)
	assert.Equal(t, before+1, testutil.ToFloat64(DiscoveryQueryCounter.WithLabelValues("search", "empty")))

	before = testutil.ToFloat64(DiscoveryQueryCounter.WithLabelValues("search", "found"))
	RecordDiscoveryQuery("search", 3)
	assert.Equal(t, before+1, testutil.ToFloat64(DiscoveryQueryCounter.WithLabelValues("search", "found")))
}

func TestTrackDBOperation(t *testing.T) {
	done := TrackDBOperation("test_op")
	done()
	assert.GreaterOrEqual(t, testutil.CollectAndCount(DBOperationDuration, "medifind_db_operation_duration_seconds"), 1)
}
