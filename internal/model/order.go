package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusConfirmed      OrderStatus = "Confirmed"
	StatusPacked         OrderStatus = "Packed"
	StatusReadyForPickup OrderStatus = "Ready for Pickup"
	StatusCompleted      OrderStatus = "Completed"
	StatusCancelled      OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPacked, StatusReadyForPickup, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is a cash-on-delivery order. Items and amounts are a snapshot taken
// at creation and never change afterwards.
type Order struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	CustomerID     uuid.UUID       `json:"customerId" gorm:"type:uuid;not null"`
	Customer       *UserRef        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ShopID         uuid.UUID       `json:"shopId" gorm:"type:uuid;not null"`
	Shop           *ShopRef        `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
	Items          []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount    decimal.Decimal `json:"totalAmount" gorm:"type:numeric(12,2);not null"`
	CouponUsed     string          `json:"couponUsed,omitempty"`
	DiscountAmount decimal.Decimal `json:"discountAmount" gorm:"type:numeric(12,2)"`
	FinalAmount    decimal.Decimal `json:"finalAmount" gorm:"type:numeric(12,2);not null"`
	PaymentStatus  PaymentStatus   `json:"paymentStatus" gorm:"type:varchar(20)"`
	Status         OrderStatus     `json:"status" gorm:"type:varchar(30)"`
	OrderDate      time.Time       `json:"orderDate"`
}

type OrderItem struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `json:"-" gorm:"type:uuid;not null"`
	MedicineID   uuid.UUID       `json:"medicineId" gorm:"type:uuid;not null"`
	MedicineName string          `json:"medicineName"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
}
