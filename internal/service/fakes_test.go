package service

import (
	"context"
	"sort"
	"sync"

	"medifind-service/internal/model"
	"medifind-service/internal/repository"
	"medifind-service/pkg/gemini"

	"github.com/google/uuid"
)

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.User
	err   error
	shops *fakeShops
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]*model.User{}}
}

func (f *fakeUsers) add(u model.User) *model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.byID[u.ID] = &u
	return &u
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, u := range f.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) List(_ context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, f.err
}

func (f *fakeUsers) Delete(ctx context.Context, id uuid.UUID) error {
	if f.shops != nil {
		if shop, err := f.shops.FindByOwner(ctx, id); err == nil {
			_ = f.shops.Delete(ctx, shop.ID)
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) get(id uuid.UUID) *model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

type fakeShops struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.Shop
	users *fakeUsers
	err   error

	nearby    []model.NearbyShop
	rows      []model.InventoryRow
	lastPoint model.GeoPoint
	lastRad   float64
	lastLimit int
}

func newFakeShops(users *fakeUsers) *fakeShops {
	f := &fakeShops{byID: map[uuid.UUID]*model.Shop{}, users: users}
	if users != nil {
		users.shops = f
	}
	return f
}

func cloneShop(s *model.Shop) *model.Shop {
	cp := *s
	cp.Inventory = append([]model.InventoryItem{}, s.Inventory...)
	cp.Offers = append([]model.Offer{}, s.Offers...)
	return &cp
}

func (f *fakeShops) add(s model.Shop) *model.Shop {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Inventory {
		s.Inventory[i].ShopID = s.ID
	}
	for i := range s.Offers {
		s.Offers[i].ShopID = s.ID
	}
	f.byID[s.ID] = cloneShop(&s)
	return &s
}

func (f *fakeShops) Create(_ context.Context, shop *model.Shop) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, s := range f.byID {
		if s.OwnerID == shop.OwnerID || s.LicenseNumber == shop.LicenseNumber {
			return repository.ErrDuplicate
		}
	}
	f.byID[shop.ID] = cloneShop(shop)
	if f.users != nil {
		if u := f.users.get(shop.OwnerID); u != nil {
			id := shop.ID
			u.ShopID = &id
		}
	}
	return nil
}

func (f *fakeShops) FindByID(_ context.Context, id uuid.UUID) (*model.Shop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneShop(s), nil
}

func (f *fakeShops) FindByOwner(_ context.Context, ownerID uuid.UUID) (*model.Shop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.byID {
		if s.OwnerID == ownerID {
			return cloneShop(s), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeShops) ExistsByLicense(_ context.Context, license string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byID {
		if s.LicenseNumber == license {
			return true, nil
		}
	}
	return false, f.err
}

func (f *fakeShops) List(_ context.Context) ([]model.Shop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Shop, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, *cloneShop(s))
	}
	return out, f.err
}

func (f *fakeShops) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	if f.users != nil {
		f.users.mu.Lock()
		for _, u := range f.users.byID {
			if u.ShopID != nil && *u.ShopID == id {
				u.ShopID = nil
			}
		}
		f.users.mu.Unlock()
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeShops) AddItem(_ context.Context, item *model.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[item.ShopID]
	if !ok {
		return repository.ErrNotFound
	}
	s.Inventory = append(s.Inventory, *item)
	return nil
}

func (f *fakeShops) SaveItem(_ context.Context, item *model.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[item.ShopID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range s.Inventory {
		if s.Inventory[i].ID == item.ID {
			s.Inventory[i] = *item
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeShops) DeleteItem(_ context.Context, shopID, itemID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[shopID]
	if !ok {
		return nil
	}
	kept := s.Inventory[:0]
	for _, it := range s.Inventory {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	s.Inventory = kept
	return nil
}

func (f *fakeShops) AddOffer(_ context.Context, offer *model.Offer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[offer.ShopID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, o := range s.Offers {
		if o.CouponCode == offer.CouponCode {
			return repository.ErrDuplicate
		}
	}
	s.Offers = append(s.Offers, *offer)
	return nil
}

func (f *fakeShops) SetOfferActive(_ context.Context, shopID, offerID uuid.UUID, active bool) (*model.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[shopID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for i := range s.Offers {
		if s.Offers[i].ID == offerID {
			s.Offers[i].IsActive = active
			cp := s.Offers[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeShops) Nearby(_ context.Context, point model.GeoPoint, radius float64, limit int) ([]model.NearbyShop, error) {
	f.lastPoint, f.lastRad, f.lastLimit = point, radius, limit
	return f.nearby, f.err
}

func (f *fakeShops) NearbyInventory(_ context.Context, point model.GeoPoint, radius float64) ([]model.InventoryRow, error) {
	f.lastPoint, f.lastRad = point, radius
	out := make([]model.InventoryRow, len(f.rows))
	copy(out, f.rows)
	return out, f.err
}

type fakeOrders struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Order
	err  error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: map[uuid.UUID]*model.Order{}}
}

func cloneOrder(o *model.Order) *model.Order {
	cp := *o
	cp.Items = append([]model.OrderItem{}, o.Items...)
	return &cp
}

func (f *fakeOrders) Create(_ context.Context, order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.byID[order.ID] = cloneOrder(order)
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (f *fakeOrders) list(match func(*model.Order) bool) []model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Order
	for _, o := range f.byID {
		if match(o) {
			out = append(out, *cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out
}

func (f *fakeOrders) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.Order, error) {
	return f.list(func(o *model.Order) bool { return o.CustomerID == customerID }), f.err
}

func (f *fakeOrders) ListByShop(_ context.Context, shopID uuid.UUID) ([]model.Order, error) {
	return f.list(func(o *model.Order) bool { return o.ShopID == shopID }), f.err
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id, shopID uuid.UUID, status model.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok || o.ShopID != shopID {
		return repository.ErrNotFound
	}
	o.Status = status
	return nil
}

type fakeGenerator struct {
	text string
	err  error
	got  *gemini.GenerateRequest
}

func (f *fakeGenerator) GenerateContent(_ context.Context, req *gemini.GenerateRequest) (string, error) {
	f.got = req
	return f.text, f.err
}

func customer() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: model.RoleCustomer}
}

func owner() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: model.RoleShopOwner}
}

func admin() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
}
