package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const RequestIDKey = "X-Request-ID"

const contextKey = "logger"

// FromContext retrieves the request logger from echo.Context, falling back to
// the global logger tagged with the request ID.
func FromContext(c echo.Context) *zap.Logger {
	if logger, ok := c.Get(contextKey).(*zap.Logger); ok {
		return logger
	}

	requestID, ok := c.Get(RequestIDKey).(string)
	if !ok {
		requestID = c.Request().Header.Get(RequestIDKey)
		if requestID == "" {
			requestID = "unknown"
		}
	}

	return GetLogger().With(zap.String("request_id", requestID))
}

// WithLogger replaces the request logger, typically to add fields such as
// the authenticated user.
func WithLogger(c echo.Context, l *zap.Logger) {
	c.Set(contextKey, l)
}
