package model

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultImageURL is used for inventory items registered without a picture
const DefaultImageURL = "https://via.placeholder.com/150"

// Column limits of inventory_items: stock is INTEGER, price is numeric(12,2).
const MaxStock = math.MaxInt32

var MaxPrice = decimal.RequireFromString("9999999999.99")

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// GeoPoint is a WGS84 position. It is stored as two columns and
// serialized as a GeoJSON Point.
type GeoPoint struct {
	Longitude float64 `gorm:"column:longitude"`
	Latitude  float64 `gorm:"column:latitude"`
}

var ErrInvalidCoordinates = errors.New("coordinates out of range")

func (p GeoPoint) Validate() error {
	// written as negated ranges so NaN is rejected too
	if !(p.Longitude >= -180 && p.Longitude <= 180) || !(p.Latitude >= -90 && p.Latitude <= 90) {
		return ErrInvalidCoordinates
	}
	return nil
}

type geoJSONPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func (p GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSONPoint{Type: "Point", Coordinates: []float64{p.Longitude, p.Latitude}})
}

func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	var g geoJSONPoint
	if err := json.Unmarshal(data, &g); err != nil {
		return err
	}
	if g.Type != "" && g.Type != "Point" {
		return errors.New("location must be a Point")
	}
	if len(g.Coordinates) != 2 {
		return errors.New("location needs [longitude, latitude]")
	}
	p.Longitude, p.Latitude = g.Coordinates[0], g.Coordinates[1]
	return nil
}

// Shop is a pharmacy owned by exactly one shop_owner
type Shop struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID       uuid.UUID       `json:"ownerId" gorm:"type:uuid;not null"`
	Owner         *UserRef        `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	ShopName      string          `json:"shopName" gorm:"type:varchar(255);not null"`
	Address       Address         `json:"address" gorm:"embedded"`
	Location      GeoPoint        `json:"location" gorm:"embedded"`
	LicenseNumber string          `json:"licenseNumber" gorm:"type:varchar(100);not null"`
	ContactNumber string          `json:"contactNumber" gorm:"type:varchar(50);not null"`
	IsOpen        bool            `json:"isOpen"`
	Inventory     []InventoryItem `json:"inventory" gorm:"foreignKey:ShopID"`
	Offers        []Offer         `json:"offers" gorm:"foreignKey:ShopID"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ShopRef is the display part of a shop attached to orders
type ShopRef struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ShopName string    `json:"shopName"`
}

func (ShopRef) TableName() string {
	return "shops"
}

// InventoryItem is a medicine line owned by a shop. Position keeps the
// insertion order and is assigned by the database.
type InventoryItem struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ShopID          uuid.UUID       `json:"-" gorm:"type:uuid;not null"`
	Position        int64           `json:"-" gorm:"->"`
	MedicineName    string          `json:"medicineName" gorm:"type:varchar(255);not null"`
	Brand           string          `json:"brand"`
	Price           decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Stock           int             `json:"stock"`
	DiscountPercent decimal.Decimal `json:"discountPercent" gorm:"type:numeric(5,2)"`
	ImageURL        string          `json:"imageUrl"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Offer is a shop scoped coupon
type Offer struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ShopID             uuid.UUID `json:"-" gorm:"type:uuid;not null"`
	CouponCode         string    `json:"couponCode" gorm:"type:varchar(50);not null"`
	DiscountPercentage int       `json:"discountPercentage"`
	IsActive           bool      `json:"isActive"`
}

// NearbyShop is a shop annotated with its distance in meters from a query point
type NearbyShop struct {
	Shop
	Distance float64 `json:"distance"`
}

// InventoryRow is one inventory item of a nearby shop, flattened with the
// shop summary.
type InventoryRow struct {
	ShopID   uuid.UUID
	ShopName string
	Address  Address
	Distance float64
	Item     InventoryItem
}
