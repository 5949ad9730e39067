package repository

import (
	"context"
	"time"

	"medifind-service/internal/model"
	"medifind-service/prometheus"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// shopPoint must match the expression of idx_shops_location.
const shopPoint = "ST_SetSRID(ST_MakePoint(shops.longitude, shops.latitude), 4326)::geography"

const queryPoint = "ST_SetSRID(ST_MakePoint(@lon, @lat), 4326)::geography"

const nearbyShopsSQL = `
SELECT shops.id, ST_Distance(` + shopPoint + `, ` + queryPoint + `) AS distance
FROM shops
WHERE ST_DWithin(` + shopPoint + `, ` + queryPoint + `, @radius)
ORDER BY distance
LIMIT @limit`

const nearbyInventorySQL = `
SELECT shops.id AS shop_id, shops.shop_name, shops.street, shops.city, shops.state, shops.pincode,
       ST_Distance(` + shopPoint + `, ` + queryPoint + `) AS distance,
       i.id AS item_id, i.position, i.medicine_name, i.brand, i.price, i.stock,
       i.discount_percent, i.image_url, i.created_at
FROM shops
JOIN inventory_items i ON i.shop_id = shops.id
WHERE ST_DWithin(` + shopPoint + `, ` + queryPoint + `, @radius)
ORDER BY distance, i.position`

type ShopRepo struct {
	db *gorm.DB
}

func NewShopRepo(db *gorm.DB) *ShopRepo {
	return &ShopRepo{db: db}
}

// Create inserts the shop and points the owner's shop_id at it.
func (r *ShopRepo) Create(ctx context.Context, shop *model.Shop) error {
	defer prometheus.TrackDBOperation("shop_create")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Owner", "Inventory", "Offers").Create(shop).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", shop.OwnerID).Update("shop_id", shop.ID).Error
	})
	return translate(err)
}

func (r *ShopRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	defer prometheus.TrackDBOperation("shop_find_by_id")()

	var shop model.Shop
	err := r.db.WithContext(ctx).
		Preload("Inventory", orderedInventory).
		Preload("Offers").
		First(&shop, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &shop, nil
}

func (r *ShopRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Shop, error) {
	defer prometheus.TrackDBOperation("shop_find_by_owner")()

	var shop model.Shop
	err := r.db.WithContext(ctx).
		Preload("Inventory", orderedInventory).
		Preload("Offers").
		Where("owner_id = ?", ownerID).
		First(&shop).Error
	if err != nil {
		return nil, translate(err)
	}
	return &shop, nil
}

func (r *ShopRepo) ExistsByLicense(ctx context.Context, license string) (bool, error) {
	defer prometheus.TrackDBOperation("shop_exists_by_license")()

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Shop{}).Where("license_number = ?", license).Count(&count).Error
	return count > 0, err
}

// List returns every shop with its owner's name and email.
func (r *ShopRepo) List(ctx context.Context) ([]model.Shop, error) {
	defer prometheus.TrackDBOperation("shop_list")()

	var shops []model.Shop
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Inventory", orderedInventory).
		Preload("Offers").
		Order("created_at").
		Find(&shops).Error
	if err != nil {
		return nil, err
	}
	return shops, nil
}

// Delete clears the owner's back-reference and removes the shop. Orders
// placed against it are left untouched.
func (r *ShopRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer prometheus.TrackDBOperation("shop_delete")()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("shop_id = ?", id).Update("shop_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Shop{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *ShopRepo) AddItem(ctx context.Context, item *model.InventoryItem) error {
	defer prometheus.TrackDBOperation("inventory_add")()
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

// SaveItem overwrites the editable columns of an existing item.
func (r *ShopRepo) SaveItem(ctx context.Context, item *model.InventoryItem) error {
	defer prometheus.TrackDBOperation("inventory_save")()

	res := r.db.WithContext(ctx).
		Model(&model.InventoryItem{}).
		Where("id = ? AND shop_id = ?", item.ID, item.ShopID).
		Select("medicine_name", "brand", "price", "stock", "discount_percent", "image_url").
		Updates(map[string]any{
			"medicine_name":    item.MedicineName,
			"brand":            item.Brand,
			"price":            item.Price,
			"stock":            item.Stock,
			"discount_percent": item.DiscountPercent,
			"image_url":        item.ImageURL,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem succeeds whether or not the item exists.
func (r *ShopRepo) DeleteItem(ctx context.Context, shopID, itemID uuid.UUID) error {
	defer prometheus.TrackDBOperation("inventory_delete")()
	return r.db.WithContext(ctx).Where("id = ? AND shop_id = ?", itemID, shopID).Delete(&model.InventoryItem{}).Error
}

func (r *ShopRepo) AddOffer(ctx context.Context, offer *model.Offer) error {
	defer prometheus.TrackDBOperation("offer_add")()
	return translate(r.db.WithContext(ctx).Create(offer).Error)
}

func (r *ShopRepo) SetOfferActive(ctx context.Context, shopID, offerID uuid.UUID, active bool) (*model.Offer, error) {
	defer prometheus.TrackDBOperation("offer_set_active")()

	res := r.db.WithContext(ctx).
		Model(&model.Offer{}).
		Where("id = ? AND shop_id = ?", offerID, shopID).
		Update("is_active", active)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var offer model.Offer
	if err := r.db.WithContext(ctx).First(&offer, "id = ?", offerID).Error; err != nil {
		return nil, translate(err)
	}
	return &offer, nil
}

type nearbyHit struct {
	ID       uuid.UUID
	Distance float64
}

// Nearby returns up to limit shops within radius meters of point, nearest
// first, with their inventory and offers.
func (r *ShopRepo) Nearby(ctx context.Context, point model.GeoPoint, radius float64, limit int) ([]model.NearbyShop, error) {
	defer prometheus.TrackDBOperation("shop_nearby")()

	var hits []nearbyHit
	err := r.db.WithContext(ctx).Raw(nearbyShopsSQL, map[string]any{
		"lon":    point.Longitude,
		"lat":    point.Latitude,
		"radius": radius,
		"limit":  limit,
	}).Scan(&hits).Error
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return []model.NearbyShop{}, nil
	}

	ids := make([]uuid.UUID, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}

	var shops []model.Shop
	err = r.db.WithContext(ctx).
		Preload("Inventory", orderedInventory).
		Preload("Offers").
		Where("id IN ?", ids).
		Find(&shops).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]model.Shop, len(shops))
	for _, s := range shops {
		byID[s.ID] = s
	}

	out := make([]model.NearbyShop, 0, len(hits))
	for _, h := range hits {
		// a shop deleted between the two queries is skipped
		if s, ok := byID[h.ID]; ok {
			out = append(out, model.NearbyShop{Shop: s, Distance: h.Distance})
		}
	}
	return out, nil
}

type inventoryRow struct {
	ShopID          uuid.UUID
	ShopName        string
	Street          string
	City            string
	State           string
	Pincode         string
	Distance        float64
	ItemID          uuid.UUID
	Position        int64
	MedicineName    string
	Brand           string
	Price           decimal.Decimal
	Stock           int
	DiscountPercent decimal.Decimal
	ImageURL        string
	CreatedAt       time.Time
}

func (r inventoryRow) toModel() model.InventoryRow {
	return model.InventoryRow{
		ShopID:   r.ShopID,
		ShopName: r.ShopName,
		Address: model.Address{
			Street:  r.Street,
			City:    r.City,
			State:   r.State,
			Pincode: r.Pincode,
		},
		Distance: r.Distance,
		Item: model.InventoryItem{
			ID:              r.ItemID,
			ShopID:          r.ShopID,
			Position:        r.Position,
			MedicineName:    r.MedicineName,
			Brand:           r.Brand,
			Price:           r.Price,
			Stock:           r.Stock,
			DiscountPercent: r.DiscountPercent,
			ImageURL:        r.ImageURL,
			CreatedAt:       r.CreatedAt,
		},
	}
}

// NearbyInventory expands every shop within radius meters of point into one
// row per inventory item, ordered by shop distance then item position.
func (r *ShopRepo) NearbyInventory(ctx context.Context, point model.GeoPoint, radius float64) ([]model.InventoryRow, error) {
	defer prometheus.TrackDBOperation("inventory_nearby")()

	var rows []inventoryRow
	err := r.db.WithContext(ctx).Raw(nearbyInventorySQL, map[string]any{
		"lon":    point.Longitude,
		"lat":    point.Latitude,
		"radius": radius,
	}).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]model.InventoryRow, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}
	return out, nil
}
