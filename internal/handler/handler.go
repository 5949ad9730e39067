package handler

import (
	"context"
	"errors"
	"net/http"

	"medifind-service/internal/apperror"
	"medifind-service/internal/middleware"
	"medifind-service/internal/model"
	"medifind-service/internal/service"
	"medifind-service/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type ShopService interface {
	RegisterShop(ctx context.Context, p model.Principal, in service.RegisterShopInput) (*model.Shop, error)
	AddInventoryItem(ctx context.Context, p model.Principal, in service.InventoryInput) (*model.Shop, error)
	EditInventoryItem(ctx context.Context, p model.Principal, itemID uuid.UUID, in service.InventoryInput) (*model.Shop, error)
	DeleteInventoryItem(ctx context.Context, p model.Principal, itemID uuid.UUID) (*model.Shop, error)
	GetOwnShop(ctx context.Context, p model.Principal) (*model.Shop, error)
	AddOffer(ctx context.Context, p model.Principal, in service.OfferInput) (*model.Offer, error)
	SetOfferActive(ctx context.Context, p model.Principal, offerID uuid.UUID, active bool) (*model.Offer, error)
}

type DiscoveryService interface {
	NearbyShops(ctx context.Context, at model.GeoPoint) ([]model.NearbyShop, error)
	SearchMedicine(ctx context.Context, term string, at model.GeoPoint) ([]service.SearchResult, error)
	FeaturedMedicines(ctx context.Context, at model.GeoPoint) ([]service.FeaturedMedicine, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, p model.Principal, in service.CreateOrderInput) (*model.Order, error)
	ListMyOrders(ctx context.Context, p model.Principal) ([]model.Order, error)
	ListShopOrders(ctx context.Context, p model.Principal) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, p model.Principal, orderID uuid.UUID, status string) (*model.Order, error)
}

type AdminService interface {
	ListUsers(ctx context.Context, p model.Principal) ([]model.User, error)
	ListShops(ctx context.Context, p model.Principal) ([]model.Shop, error)
	DeleteUser(ctx context.Context, p model.Principal, id uuid.UUID) error
	DeleteShop(ctx context.Context, p model.Principal, id uuid.UUID) error
}

type AIService interface {
	ScanPrescription(ctx context.Context, imageData, mimeType string) (string, error)
	SuggestRemedies(ctx context.Context, symptoms string) (string, error)
}

// Pinger reports database reachability for the health check.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves the HTTP API on top of the services.
type Handler struct {
	ServiceName string
	DB          Pinger

	Auth      AuthService
	Shops     ShopService
	Discovery DiscoveryService
	Orders    OrderService
	Admin     AdminService
	AI        AIService
}

// RequestValidator plugs go-playground/validator into echo.
type RequestValidator struct {
	validate *validator.Validate
}

func NewValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// bind decodes and validates the request body; any failure is reported
// with msg.
func bind(c echo.Context, req interface{}, msg string) error {
	if err := c.Bind(req); err != nil {
		logger.FromContext(c).Warn("Invalid request data", zap.Error(err))
		return apperror.Validation(msg)
	}
	if err := c.Validate(req); err != nil {
		logger.FromContext(c).Warn("Request validation failed", zap.Error(err))
		return apperror.Validation(msg)
	}
	return nil
}

func principal(c echo.Context) model.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}

func uuidParam(c echo.Context, name, notFoundMsg string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound(notFoundMsg)
	}
	return id, nil
}

// respondError writes {"msg": ...} with the status of err's kind. Causes of
// server side failures are logged, never returned.
func respondError(c echo.Context, err error) error {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)
	msg := apperror.MessageOf(err)
	log := logger.FromContext(c)

	if status >= http.StatusInternalServerError {
		log.Error("Request failed",
			zap.String("kind", kind.String()),
			zap.String("path", c.Path()),
			zap.Error(err))
	} else {
		log.Warn("Request rejected",
			zap.String("kind", kind.String()),
			zap.String("msg", msg))
	}

	return c.JSON(status, echo.Map{"msg": msg})
}

// HTTPErrorHandler renders errors that escape handlers, such as unknown
// routes, in the same {"msg": ...} shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
		if he.Code >= http.StatusInternalServerError {
			logger.FromContext(c).Error("Unhandled error", zap.Error(err))
			msg = "Server Error"
		}
		if err := c.JSON(he.Code, echo.Map{"msg": msg}); err != nil {
			logger.FromContext(c).Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := respondError(c, err); err != nil {
		logger.FromContext(c).Error("Failed to write error response", zap.Error(err))
	}
}
