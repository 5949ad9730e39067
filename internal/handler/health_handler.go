package handler

import (
	"net/http"

	"medifind-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Root answers the bare liveness check used by the web client.
func (h *Handler) Root(c echo.Context) error {
	return c.String(http.StatusOK, "MediFind API is running...")
}

// HealthCheck handles the health check endpoint; ?check=db also pings the database
func (h *Handler) HealthCheck(c echo.Context) error {
	log := logger.FromContext(c)

	response := map[string]interface{}{
		"status":  "healthy",
		"service": h.ServiceName,
	}

	if c.QueryParam("check") == "db" {
		if h.DB == nil {
			response["status"] = "unhealthy"
			response["db_status"] = "not configured"
			return c.JSON(http.StatusServiceUnavailable, response)
		}
		if err := h.DB.PingContext(c.Request().Context()); err != nil {
			log.Error("Database ping error", zap.Error(err))
			response["status"] = "unhealthy"
			response["db_status"] = "error"
			return c.JSON(http.StatusServiceUnavailable, response)
		}
		response["db_status"] = "ok"
	}

	return c.JSON(http.StatusOK, response)
}
