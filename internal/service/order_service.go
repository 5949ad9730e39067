package service

import (
	"context"
	"strings"
	"time"

	"medifind-service/internal/apperror"
	"medifind-service/internal/model"
	"medifind-service/prometheus"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	msgAccessDenied       = "Access denied."
	msgOrderNotFound      = "Order not found."
	msgNotYourOrder       = "Not authorized to update this order."
	msgMedicineOutOfStock = "Medicine out of stock."
)

var hundred = decimal.NewFromInt(100)

type OrderService struct {
	orders OrderStore
	shops  ShopStore
	now    func() time.Time
}

func NewOrderService(orders OrderStore, shops ShopStore) *OrderService {
	return &OrderService{orders: orders, shops: shops, now: time.Now}
}

type OrderLine struct {
	MedicineID uuid.UUID
	Quantity   int
}

type CreateOrderInput struct {
	ShopID     uuid.UUID
	Items      []OrderLine
	CouponCode string
}

// CreateOrder prices the requested lines against the shop's live inventory
// and stores an immutable cash-on-delivery order. Stock is checked but not
// reserved. Any failing line rejects the whole order.
func (s *OrderService) CreateOrder(ctx context.Context, p model.Principal, in CreateOrderInput) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperror.Validation("Order must contain at least one item.")
	}
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, apperror.Validation("Quantity must be at least 1.")
		}
	}

	shop, err := s.shops.FindByID(ctx, in.ShopID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("Shop not found")
		}
		return nil, apperror.Internal(err)
	}

	inventory := make(map[uuid.UUID]model.InventoryItem, len(shop.Inventory))
	for _, item := range shop.Inventory {
		inventory[item.ID] = item
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		medicine, ok := inventory[line.MedicineID]
		if !ok || medicine.Stock < line.Quantity {
			return nil, apperror.Validation(msgMedicineOutOfStock)
		}
		total = total.Add(medicine.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, model.OrderItem{
			ID:           uuid.New(),
			MedicineID:   medicine.ID,
			MedicineName: medicine.MedicineName,
			Quantity:     line.Quantity,
			Price:        medicine.Price,
		})
	}

	code := normalizeCoupon(in.CouponCode)
	discount := decimal.Zero
	if offer := activeOffer(shop.Offers, code); offer != nil {
		discount = total.Mul(decimal.NewFromInt(int64(offer.DiscountPercentage))).Div(hundred).Round(2)
	}

	order := &model.Order{
		ID:             uuid.New(),
		CustomerID:     p.UserID,
		ShopID:         shop.ID,
		Items:          items,
		TotalAmount:    total,
		CouponUsed:     code,
		DiscountAmount: discount,
		FinalAmount:    total.Sub(discount),
		PaymentStatus:  model.PaymentUnpaid,
		Status:         model.StatusPending,
		OrderDate:      s.now(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperror.Internal(err)
	}

	prometheus.RecordOrderCreated(discount.IsPositive())
	return order, nil
}

// activeOffer finds an active offer by its normalized code. Unknown or
// inactive codes yield nil.
func activeOffer(offers []model.Offer, code string) *model.Offer {
	if code == "" {
		return nil
	}
	for i := range offers {
		if offers[i].IsActive && offers[i].CouponCode == code {
			return &offers[i]
		}
	}
	return nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, p model.Principal) ([]model.Order, error) {
	orders, err := s.orders.ListByCustomer(ctx, p.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return orders, nil
}

func (s *OrderService) ListShopOrders(ctx context.Context, p model.Principal) ([]model.Order, error) {
	if err := authorize(p, msgAccessDenied, model.RoleShopOwner); err != nil {
		return nil, err
	}

	shop, err := s.shops.FindByOwner(ctx, p.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound(msgNoShopForOwner)
		}
		return nil, apperror.Internal(err)
	}

	orders, err := s.orders.ListByShop(ctx, shop.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return orders, nil
}

// UpdateOrderStatus lets the owning shop set any status value. An empty
// status leaves the order unchanged.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, p model.Principal, orderID uuid.UUID, status string) (*model.Order, error) {
	if err := authorize(p, msgAccessDenied, model.RoleShopOwner); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound(msgOrderNotFound)
		}
		return nil, apperror.Internal(err)
	}

	shop, err := s.shops.FindByOwner(ctx, p.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.Unauthorized(msgNotYourOrder)
		}
		return nil, apperror.Internal(err)
	}
	if order.ShopID != shop.ID {
		return nil, apperror.Unauthorized(msgNotYourOrder)
	}

	next := model.OrderStatus(strings.TrimSpace(status))
	if next == "" {
		return order, nil
	}
	if !next.Valid() {
		return nil, apperror.Validation("Invalid order status.")
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, shop.ID, next); err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound(msgOrderNotFound)
		}
		return nil, apperror.Internal(err)
	}

	order.Status = next
	prometheus.RecordOrderStatusUpdate(string(next))
	return order, nil
}
