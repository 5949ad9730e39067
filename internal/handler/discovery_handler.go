package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"medifind-service/internal/apperror"
	"medifind-service/internal/model"
	"medifind-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// parseLocation reads the required longitude and latitude query parameters.
func parseLocation(c echo.Context) (model.GeoPoint, error) {
	lonParam, latParam := c.QueryParam("longitude"), c.QueryParam("latitude")
	if lonParam == "" || latParam == "" {
		return model.GeoPoint{}, apperror.Validation("Location is required.")
	}

	lon, err := strconv.ParseFloat(lonParam, 64)
	if err != nil {
		return model.GeoPoint{}, apperror.Validation("Invalid location.")
	}
	lat, err := strconv.ParseFloat(latParam, 64)
	if err != nil {
		return model.GeoPoint{}, apperror.Validation("Invalid location.")
	}

	p := model.GeoPoint{Longitude: lon, Latitude: lat}
	if err := p.Validate(); err != nil {
		return model.GeoPoint{}, apperror.Validation("Invalid location.")
	}
	return p, nil
}

// medicineParam returns the decoded :medicine segment. Echo routes on the
// raw path only when it differs from the decoded one, and only then are
// params left escaped.
func medicineParam(c echo.Context) (string, error) {
	term := c.Param("medicine")
	if c.Request().URL.RawPath != "" {
		unescaped, err := url.PathUnescape(term)
		if err != nil {
			return "", apperror.Validation("Invalid medicine name.")
		}
		term = unescaped
	}
	if strings.TrimSpace(term) == "" {
		return "", apperror.Validation("Please provide a medicine name.")
	}
	return term, nil
}

func (h *Handler) NearbyShops(c echo.Context) error {
	log := logger.FromContext(c)

	at, err := parseLocation(c)
	if err != nil {
		return respondError(c, err)
	}

	shops, err := h.Discovery.NearbyShops(c.Request().Context(), at)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Nearby shops retrieved", zap.Int("count", len(shops)))
	return c.JSON(http.StatusOK, shops)
}

func (h *Handler) SearchMedicine(c echo.Context) error {
	log := logger.FromContext(c)

	term, err := medicineParam(c)
	if err != nil {
		return respondError(c, err)
	}

	at, err := parseLocation(c)
	if err != nil {
		return respondError(c, err)
	}

	results, err := h.Discovery.SearchMedicine(c.Request().Context(), term, at)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Medicine search completed",
		zap.String("medicine", term),
		zap.Int("count", len(results)))
	return c.JSON(http.StatusOK, results)
}

func (h *Handler) FeaturedMedicines(c echo.Context) error {
	at, err := parseLocation(c)
	if err != nil {
		return respondError(c, err)
	}

	featured, err := h.Discovery.FeaturedMedicines(c.Request().Context(), at)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, featured)
}
