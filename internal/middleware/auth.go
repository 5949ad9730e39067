package middleware

import (
	"net/http"
	"strings"

	"medifind-service/internal/model"
	"medifind-service/pkg/jwtutil"
	"medifind-service/pkg/logger"
	"medifind-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const principalKey = "principal"

// AuthMiddleware validates the Bearer token and stores the caller on the
// context. Role checks are left to the services.
func AuthMiddleware(tokens *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "No token, authorization denied"})
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Token is not valid"})
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Token is not valid"})
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				log.Warn("JWT token carries a malformed user id", zap.String("user_id", claims.UserID))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Token is not valid"})
			}

			c.Set(principalKey, model.Principal{UserID: userID, Role: model.Role(claims.Role)})
			logger.WithLogger(c, log.With(zap.String("user_id", claims.UserID), zap.String("role", claims.Role)))

			return next(c)
		}
	}
}

// PrincipalFrom returns the caller stored by AuthMiddleware.
func PrincipalFrom(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(principalKey).(model.Principal)
	return p, ok
}
