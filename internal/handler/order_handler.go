package handler

import (
	"net/http"

	"medifind-service/internal/service"
	"medifind-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type OrderItemRequest struct {
	MedicineID string `json:"medicineId" validate:"required,uuid"`
	Quantity   int    `json:"quantity"`
}

type CreateOrderRequest struct {
	ShopID     string             `json:"shopId" validate:"required,uuid"`
	Items      []OrderItemRequest `json:"items" validate:"dive"`
	CouponCode string             `json:"couponCode"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)

	var req CreateOrderRequest
	if err := bind(c, &req, "Invalid request data"); err != nil {
		return respondError(c, err)
	}

	lines := make([]service.OrderLine, len(req.Items))
	for i, it := range req.Items {
		lines[i] = service.OrderLine{MedicineID: uuid.MustParse(it.MedicineID), Quantity: it.Quantity}
	}

	order, err := h.Orders.CreateOrder(c.Request().Context(), principal(c), service.CreateOrderInput{
		ShopID:     uuid.MustParse(req.ShopID),
		Items:      lines,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("shop_id", order.ShopID.String()),
		zap.String("final_amount", order.FinalAmount.StringFixed(2)))
	return c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListMyOrders(c echo.Context) error {
	orders, err := h.Orders.ListMyOrders(c.Request().Context(), principal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) ListShopOrders(c echo.Context) error {
	orders, err := h.Orders.ListShopOrders(c.Request().Context(), principal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)

	orderID, err := uuidParam(c, "id", "Order not found.")
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateStatusRequest
	if err := bind(c, &req, "Invalid request data"); err != nil {
		return respondError(c, err)
	}

	order, err := h.Orders.UpdateOrderStatus(c.Request().Context(), principal(c), orderID, req.Status)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)))
	return c.JSON(http.StatusOK, order)
}
