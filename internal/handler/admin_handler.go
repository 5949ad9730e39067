package handler

import (
	"net/http"

	"medifind-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.Admin.ListUsers(c.Request().Context(), principal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) ListShops(c echo.Context) error {
	shops, err := h.Admin.ListShops(c.Request().Context(), principal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, shops)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := uuidParam(c, "id", "User not found.")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.Admin.DeleteUser(c.Request().Context(), principal(c), id); err != nil {
		return respondError(c, err)
	}

	log.Info("User deleted", zap.String("deleted_user_id", id.String()))
	return c.JSON(http.StatusOK, echo.Map{"msg": "User removed"})
}

func (h *Handler) DeleteShop(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := uuidParam(c, "id", "Shop not found.")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.Admin.DeleteShop(c.Request().Context(), principal(c), id); err != nil {
		return respondError(c, err)
	}

	log.Info("Shop deleted", zap.String("deleted_shop_id", id.String()))
	return c.JSON(http.StatusOK, echo.Map{"msg": "Shop removed"})
}
