package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices and amounts are plain JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true
}

type Role string

const (
	RoleCustomer  Role = "customer"
	RoleShopOwner Role = "shop_owner"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleShopOwner, RoleAdmin:
		return true
	}
	return false
}

// User represents an account of any role
type User struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" gorm:"type:varchar(100);not null"`
	Email     string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string     `json:"-" gorm:"type:varchar(255);not null"`
	Role      Role       `json:"role" gorm:"type:varchar(20);not null"`
	ShopID    *uuid.UUID `json:"shopId" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"createdAt"`
}

// UserRef is the public part of a user attached to shops and orders
type UserRef struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (UserRef) TableName() string {
	return "users"
}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
