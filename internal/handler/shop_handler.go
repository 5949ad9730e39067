package handler

import (
	"net/http"

	"medifind-service/internal/apperror"
	"medifind-service/internal/model"
	"medifind-service/internal/service"
	"medifind-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RegisterShopRequest struct {
	ShopName      string        `json:"shopName" validate:"required"`
	Address       model.Address `json:"address"`
	Coordinates   []float64     `json:"coordinates" validate:"required,len=2"`
	LicenseNumber string        `json:"licenseNumber" validate:"required"`
	ContactNumber string        `json:"contactNumber" validate:"required"`
}

// InventoryRequest accepts numbers or numeric strings for the numeric fields.
type InventoryRequest struct {
	MedicineName    *string          `json:"medicineName"`
	Brand           *string          `json:"brand"`
	Price           *decimal.Decimal `json:"price"`
	Stock           *decimal.Decimal `json:"stock"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	ImageURL        *string          `json:"imageUrl"`
}

var maxStock = decimal.NewFromInt(model.MaxStock)

// toInput converts the request, truncating fractional stock. Stock outside
// the column range is rejected before it can wrap.
func (r InventoryRequest) toInput() (service.InventoryInput, error) {
	in := service.InventoryInput{
		MedicineName:    r.MedicineName,
		Brand:           r.Brand,
		Price:           r.Price,
		DiscountPercent: r.DiscountPercent,
		ImageURL:        r.ImageURL,
	}
	if r.Stock != nil {
		truncated := r.Stock.Truncate(0)
		if truncated.IsNegative() || truncated.GreaterThan(maxStock) {
			return service.InventoryInput{}, apperror.Validation("Stock must be between 0 and 2147483647")
		}
		stock := int(truncated.IntPart())
		in.Stock = &stock
	}
	return in, nil
}

type OfferRequest struct {
	CouponCode         string `json:"couponCode" validate:"required"`
	DiscountPercentage int    `json:"discountPercentage"`
	IsActive           *bool  `json:"isActive"`
}

type OfferStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (h *Handler) RegisterShop(c echo.Context) error {
	log := logger.FromContext(c)

	var req RegisterShopRequest
	if err := bind(c, &req, "Please provide shop name, coordinates, license number and contact number"); err != nil {
		return respondError(c, err)
	}

	shop, err := h.Shops.RegisterShop(c.Request().Context(), principal(c), service.RegisterShopInput{
		ShopName:      req.ShopName,
		Address:       req.Address,
		Location:      model.GeoPoint{Longitude: req.Coordinates[0], Latitude: req.Coordinates[1]},
		LicenseNumber: req.LicenseNumber,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Shop registered",
		zap.String("shop_id", shop.ID.String()),
		zap.String("shop_name", shop.ShopName))
	return c.JSON(http.StatusCreated, shop)
}

func (h *Handler) AddInventoryItem(c echo.Context) error {
	log := logger.FromContext(c)

	var req InventoryRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid inventory request", zap.Error(err))
		return respondError(c, apperror.Validation("Please provide medicine name, price, and stock"))
	}

	in, err := req.toInput()
	if err != nil {
		return respondError(c, err)
	}

	shop, err := h.Shops.AddInventoryItem(c.Request().Context(), principal(c), in)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Inventory item added",
		zap.String("shop_id", shop.ID.String()),
		zap.Int("inventory_size", len(shop.Inventory)))
	return c.JSON(http.StatusOK, shop)
}

func (h *Handler) EditInventoryItem(c echo.Context) error {
	log := logger.FromContext(c)

	itemID, err := uuidParam(c, "itemId", "Item not found in inventory.")
	if err != nil {
		return respondError(c, err)
	}

	var req InventoryRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid inventory request", zap.Error(err))
		return respondError(c, apperror.Validation("Invalid request data"))
	}

	in, err := req.toInput()
	if err != nil {
		return respondError(c, err)
	}

	shop, err := h.Shops.EditInventoryItem(c.Request().Context(), principal(c), itemID, in)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Inventory item updated",
		zap.String("shop_id", shop.ID.String()),
		zap.String("item_id", itemID.String()))
	return c.JSON(http.StatusOK, shop)
}

func (h *Handler) DeleteInventoryItem(c echo.Context) error {
	log := logger.FromContext(c)

	// a malformed id matches no item, so the delete is a successful no-op
	itemID, _ := uuid.Parse(c.Param("itemId"))

	shop, err := h.Shops.DeleteInventoryItem(c.Request().Context(), principal(c), itemID)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Inventory item removed",
		zap.String("shop_id", shop.ID.String()),
		zap.String("item_id", c.Param("itemId")))
	return c.JSON(http.StatusOK, shop)
}

func (h *Handler) GetOwnShop(c echo.Context) error {
	shop, err := h.Shops.GetOwnShop(c.Request().Context(), principal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, shop)
}

func (h *Handler) AddOffer(c echo.Context) error {
	log := logger.FromContext(c)

	var req OfferRequest
	if err := bind(c, &req, "Coupon code is required"); err != nil {
		return respondError(c, err)
	}

	offer, err := h.Shops.AddOffer(c.Request().Context(), principal(c), service.OfferInput{
		CouponCode:         req.CouponCode,
		DiscountPercentage: req.DiscountPercentage,
		IsActive:           req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Offer added",
		zap.String("offer_id", offer.ID.String()),
		zap.String("coupon_code", offer.CouponCode))
	return c.JSON(http.StatusCreated, offer)
}

func (h *Handler) SetOfferActive(c echo.Context) error {
	offerID, err := uuidParam(c, "offerId", "Offer not found.")
	if err != nil {
		return respondError(c, err)
	}

	var req OfferStatusRequest
	if err := bind(c, &req, "isActive is required"); err != nil {
		return respondError(c, err)
	}

	offer, err := h.Shops.SetOfferActive(c.Request().Context(), principal(c), offerID, *req.IsActive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, offer)
}
