package service

import (
	"context"
	"strings"

	"medifind-service/internal/apperror"
	"medifind-service/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	msgOnlyOwnersRegister = "Forbidden: Only shop owners can register a shop"
	msgOnlyOwnersManage   = "Forbidden: Only shop owners can manage inventory"
	msgShopNotFound       = "Shop not found for this owner."
	msgNoShopForOwner     = "No shop found for this owner."
)

type ShopService struct {
	shops ShopStore
}

func NewShopService(shops ShopStore) *ShopService {
	return &ShopService{shops: shops}
}

type RegisterShopInput struct {
	ShopName      string
	Address       model.Address
	Location      model.GeoPoint
	LicenseNumber string
	ContactNumber string
}

func (s *ShopService) RegisterShop(ctx context.Context, p model.Principal, in RegisterShopInput) (*model.Shop, error) {
	if err := authorize(p, msgOnlyOwnersRegister, model.RoleShopOwner); err != nil {
		return nil, err
	}

	in.ShopName = strings.TrimSpace(in.ShopName)
	in.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	if in.ShopName == "" || in.LicenseNumber == "" || in.ContactNumber == "" {
		return nil, apperror.Validation("Please provide shop name, license number and contact number")
	}
	if err := in.Location.Validate(); err != nil {
		return nil, apperror.Validation("Invalid shop coordinates")
	}

	_, err := s.shops.FindByOwner(ctx, p.UserID)
	switch {
	case err == nil:
		return nil, apperror.Conflict("Shop owner can only register one shop")
	case !isNotFound(err):
		return nil, apperror.Internal(err)
	}

	taken, err := s.shops.ExistsByLicense(ctx, in.LicenseNumber)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if taken {
		return nil, apperror.Conflict("This license number is already registered")
	}

	shop := &model.Shop{
		ID:            uuid.New(),
		OwnerID:       p.UserID,
		ShopName:      in.ShopName,
		Address:       in.Address,
		Location:      in.Location,
		LicenseNumber: in.LicenseNumber,
		ContactNumber: in.ContactNumber,
		IsOpen:        true,
		Inventory:     []model.InventoryItem{},
		Offers:        []model.Offer{},
	}
	if err := s.shops.Create(ctx, shop); err != nil {
		// lost a race against a concurrent registration
		if isDuplicate(err) {
			return nil, apperror.Conflict("This shop or license number is already registered")
		}
		return nil, apperror.Internal(err)
	}
	return shop, nil
}

const msgStockOutOfRange = "Stock must be between 0 and 2147483647"

// InventoryInput carries item fields; nil means the field was not supplied.
type InventoryInput struct {
	MedicineName    *string
	Brand           *string
	Price           *decimal.Decimal
	Stock           *int
	DiscountPercent *decimal.Decimal
	ImageURL        *string
}

func (in InventoryInput) validateValues() error {
	if in.MedicineName != nil && strings.TrimSpace(*in.MedicineName) == "" {
		return apperror.Validation("Medicine name cannot be empty")
	}
	if in.Price != nil && in.Price.IsNegative() {
		return apperror.Validation("Price cannot be negative")
	}
	if in.Price != nil && in.Price.Round(2).GreaterThan(model.MaxPrice) {
		return apperror.Validation("Price is too large")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return apperror.Validation("Stock cannot be negative")
	}
	if in.Stock != nil && *in.Stock > model.MaxStock {
		return apperror.Validation(msgStockOutOfRange)
	}
	if in.DiscountPercent != nil && (in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(decimal.NewFromInt(100))) {
		return apperror.Validation("Discount percent must be between 0 and 100")
	}
	return nil
}

// apply overwrites only the supplied fields of item.
func (in InventoryInput) apply(item *model.InventoryItem) {
	if in.MedicineName != nil {
		item.MedicineName = strings.TrimSpace(*in.MedicineName)
	}
	if in.Brand != nil {
		item.Brand = *in.Brand
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Stock != nil {
		item.Stock = *in.Stock
	}
	if in.DiscountPercent != nil {
		item.DiscountPercent = *in.DiscountPercent
	}
	if in.ImageURL != nil && *in.ImageURL != "" {
		item.ImageURL = *in.ImageURL
	}
}

func (s *ShopService) ownShop(ctx context.Context, p model.Principal, notFoundMsg string) (*model.Shop, error) {
	shop, err := s.shops.FindByOwner(ctx, p.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound(notFoundMsg)
		}
		return nil, apperror.Internal(err)
	}
	return shop, nil
}

// AddInventoryItem appends an item to the caller's shop and returns the shop.
func (s *ShopService) AddInventoryItem(ctx context.Context, p model.Principal, in InventoryInput) (*model.Shop, error) {
	if err := authorize(p, msgOnlyOwnersManage, model.RoleShopOwner); err != nil {
		return nil, err
	}
	if in.MedicineName == nil || strings.TrimSpace(*in.MedicineName) == "" || in.Price == nil || in.Stock == nil {
		return nil, apperror.Validation("Please provide medicine name, price, and stock")
	}
	if err := in.validateValues(); err != nil {
		return nil, err
	}

	shop, err := s.ownShop(ctx, p, msgShopNotFound)
	if err != nil {
		return nil, err
	}

	item := model.InventoryItem{
		ID:              uuid.New(),
		ShopID:          shop.ID,
		DiscountPercent: decimal.Zero,
		ImageURL:        model.DefaultImageURL,
	}
	in.apply(&item)

	if err := s.shops.AddItem(ctx, &item); err != nil {
		return nil, apperror.Internal(err)
	}
	return s.ownShop(ctx, p, msgShopNotFound)
}

// EditInventoryItem overwrites the supplied fields of one item; fields left
// out of the request keep their stored values.
func (s *ShopService) EditInventoryItem(ctx context.Context, p model.Principal, itemID uuid.UUID, in InventoryInput) (*model.Shop, error) {
	if err := authorize(p, msgOnlyOwnersManage, model.RoleShopOwner); err != nil {
		return nil, err
	}
	if err := in.validateValues(); err != nil {
		return nil, err
	}

	shop, err := s.ownShop(ctx, p, msgShopNotFound)
	if err != nil {
		return nil, err
	}

	var item *model.InventoryItem
	for i := range shop.Inventory {
		if shop.Inventory[i].ID == itemID {
			item = &shop.Inventory[i]
			break
		}
	}
	if item == nil {
		return nil, apperror.NotFound("Item not found in inventory.")
	}

	in.apply(item)
	if err := s.shops.SaveItem(ctx, item); err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("Item not found in inventory.")
		}
		return nil, apperror.Internal(err)
	}
	return shop, nil
}

// DeleteInventoryItem removes an item; deleting an unknown id succeeds.
func (s *ShopService) DeleteInventoryItem(ctx context.Context, p model.Principal, itemID uuid.UUID) (*model.Shop, error) {
	if err := authorize(p, msgOnlyOwnersManage, model.RoleShopOwner); err != nil {
		return nil, err
	}

	shop, err := s.ownShop(ctx, p, msgShopNotFound)
	if err != nil {
		return nil, err
	}

	if err := s.shops.DeleteItem(ctx, shop.ID, itemID); err != nil {
		return nil, apperror.Internal(err)
	}
	return s.ownShop(ctx, p, msgShopNotFound)
}

func (s *ShopService) GetOwnShop(ctx context.Context, p model.Principal) (*model.Shop, error) {
	return s.ownShop(ctx, p, msgNoShopForOwner)
}

type OfferInput struct {
	CouponCode         string
	DiscountPercentage int
	IsActive           *bool
}

func normalizeCoupon(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *ShopService) AddOffer(ctx context.Context, p model.Principal, in OfferInput) (*model.Offer, error) {
	if err := authorize(p, msgOnlyOwnersManage, model.RoleShopOwner); err != nil {
		return nil, err
	}

	code := normalizeCoupon(in.CouponCode)
	if code == "" {
		return nil, apperror.Validation("Coupon code is required")
	}
	if in.DiscountPercentage < 1 || in.DiscountPercentage > 100 {
		return nil, apperror.Validation("Discount percentage must be between 1 and 100")
	}

	shop, err := s.ownShop(ctx, p, msgShopNotFound)
	if err != nil {
		return nil, err
	}

	offer := &model.Offer{
		ID:                 uuid.New(),
		ShopID:             shop.ID,
		CouponCode:         code,
		DiscountPercentage: in.DiscountPercentage,
		IsActive:           in.IsActive == nil || *in.IsActive,
	}
	if err := s.shops.AddOffer(ctx, offer); err != nil {
		if isDuplicate(err) {
			return nil, apperror.Conflict("This coupon code already exists for your shop")
		}
		return nil, apperror.Internal(err)
	}
	return offer, nil
}

func (s *ShopService) SetOfferActive(ctx context.Context, p model.Principal, offerID uuid.UUID, active bool) (*model.Offer, error) {
	if err := authorize(p, msgOnlyOwnersManage, model.RoleShopOwner); err != nil {
		return nil, err
	}

	shop, err := s.ownShop(ctx, p, msgShopNotFound)
	if err != nil {
		return nil, err
	}

	offer, err := s.shops.SetOfferActive(ctx, shop.ID, offerID, active)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("Offer not found.")
		}
		return nil, apperror.Internal(err)
	}
	return offer, nil
}
