package service

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"

	"medifind-service/internal/apperror"
	"medifind-service/internal/model"
	"medifind-service/prometheus"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Search radii are in meters.
const (
	NearbyRadius   = 10000
	NearbyLimit    = 5
	SearchRadius   = 5000
	FeaturedRadius = 10000
	FeaturedSample = 4
)

// SearchResult is one shop offering a matching medicine.
type SearchResult struct {
	ShopID          uuid.UUID           `json:"shopId"`
	ShopName        string              `json:"shopName"`
	Address         model.Address       `json:"address"`
	Distance        float64             `json:"distance"`
	MatchedMedicine model.InventoryItem `json:"matchedMedicine"`
}

// FeaturedMedicine is an in-stock item picked at random around the caller.
type FeaturedMedicine struct {
	ID           uuid.UUID       `json:"id"`
	MedicineName string          `json:"medicineName"`
	ImageURL     string          `json:"imageUrl"`
	Price        decimal.Decimal `json:"price"`
	ShopName     string          `json:"shopName"`
	ShopID       uuid.UUID       `json:"shopId"`
}

type DiscoveryService struct {
	shops ShopStore
	intn  func(n int) int
}

func NewDiscoveryService(shops ShopStore) *DiscoveryService {
	return &DiscoveryService{shops: shops, intn: rand.IntN}
}

// NearbyShops returns the closest shops, nearest first. No match is an
// empty list.
func (s *DiscoveryService) NearbyShops(ctx context.Context, at model.GeoPoint) ([]model.NearbyShop, error) {
	shops, err := s.shops.Nearby(ctx, at, NearbyRadius, NearbyLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	prometheus.RecordDiscoveryQuery("nearby", len(shops))
	return shops, nil
}

// SearchMedicine lists every nearby item whose name contains term, cheapest
// first. Unlike the other lookups an empty result is NotFound.
const msgMedicineRequired = "Please provide a medicine name."

func (s *DiscoveryService) SearchMedicine(ctx context.Context, term string, at model.GeoPoint) ([]SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return nil, apperror.Validation(msgMedicineRequired)
	}

	rows, err := s.shops.NearbyInventory(ctx, at, SearchRadius)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	rows = sortByPrice(matchName(rows, term))
	prometheus.RecordDiscoveryQuery("search", len(rows))
	if len(rows) == 0 {
		return nil, apperror.NotFound("No shops found with this medicine nearby.")
	}

	out := make([]SearchResult, len(rows))
	for i, r := range rows {
		out[i] = SearchResult{
			ShopID:          r.ShopID,
			ShopName:        r.ShopName,
			Address:         r.Address,
			Distance:        r.Distance,
			MatchedMedicine: r.Item,
		}
	}
	return out, nil
}

// FeaturedMedicines draws a fresh random sample of in-stock items around at.
func (s *DiscoveryService) FeaturedMedicines(ctx context.Context, at model.GeoPoint) ([]FeaturedMedicine, error) {
	rows, err := s.shops.NearbyInventory(ctx, at, FeaturedRadius)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	rows = sample(inStock(rows), FeaturedSample, s.intn)
	prometheus.RecordDiscoveryQuery("featured", len(rows))

	out := make([]FeaturedMedicine, len(rows))
	for i, r := range rows {
		out[i] = FeaturedMedicine{
			ID:           r.Item.ID,
			MedicineName: r.Item.MedicineName,
			ImageURL:     r.Item.ImageURL,
			Price:        r.Item.Price,
			ShopName:     r.ShopName,
			ShopID:       r.ShopID,
		}
	}
	return out, nil
}

// matchName keeps rows whose medicine name contains term, ignoring case.
func matchName(rows []model.InventoryRow, term string) []model.InventoryRow {
	term = strings.ToLower(term)
	out := make([]model.InventoryRow, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Item.MedicineName), term) {
			out = append(out, r)
		}
	}
	return out
}

func inStock(rows []model.InventoryRow) []model.InventoryRow {
	out := make([]model.InventoryRow, 0, len(rows))
	for _, r := range rows {
		if r.Item.Stock > 0 {
			out = append(out, r)
		}
	}
	return out
}

// sortByPrice orders rows by ascending price in place. Equal prices keep
// their incoming (distance) order.
func sortByPrice(rows []model.InventoryRow) []model.InventoryRow {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Item.Price.LessThan(rows[j].Item.Price)
	})
	return rows
}

// sample picks n rows uniformly without replacement using a partial
// Fisher-Yates shuffle. rows is left untouched.
func sample(rows []model.InventoryRow, n int, intn func(int) int) []model.InventoryRow {
	out := make([]model.InventoryRow, len(rows))
	copy(out, rows)
	if len(out) <= n {
		return out
	}
	for i := 0; i < n; i++ {
		j := i + intn(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}
	return out[:n]
}
