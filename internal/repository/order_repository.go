package repository

import (
	"context"

	"medifind-service/internal/model"
	"medifind-service/prometheus"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create inserts the order and its item snapshot in one transaction.
func (r *OrderRepo) Create(ctx context.Context, order *model.Order) error {
	defer prometheus.TrackDBOperation("order_create")()
	return translate(r.db.WithContext(ctx).Omit("Customer", "Shop").Create(order).Error)
}

func (r *OrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	defer prometheus.TrackDBOperation("order_find_by_id")()

	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// ListByCustomer returns the customer's orders newest first with the shop name.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("order_list_by_customer")()

	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Shop", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "shop_name")
		}).
		Where("customer_id = ?", customerID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByShop returns the shop's orders newest first with customer name and email.
func (r *OrderRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("order_list_by_shop")()

	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Where("shop_id = ?", shopID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the status of an order that belongs to shopID.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, shopID uuid.UUID, status model.OrderStatus) error {
	defer prometheus.TrackDBOperation("order_update_status")()

	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND shop_id = ?", id, shopID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
