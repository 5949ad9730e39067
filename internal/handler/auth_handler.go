package handler

import (
	"net/http"

	"medifind-service/internal/model"
	"medifind-service/internal/service"
	"medifind-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Register(c echo.Context) error {
	log := logger.FromContext(c)

	var req RegisterRequest
	if err := bind(c, &req, "Please enter all fields"); err != nil {
		return respondError(c, err)
	}

	user, err := h.Auth.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return c.JSON(http.StatusCreated, echo.Map{"msg": "User registered successfully!"})
}

func (h *Handler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req LoginRequest
	if err := bind(c, &req, "Please provide email and password"); err != nil {
		return respondError(c, err)
	}

	token, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("User logged in")
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}
