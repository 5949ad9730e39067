package handler

import (
	"context"

	"medifind-service/internal/model"
	"medifind-service/internal/service"

	"github.com/google/uuid"
)

type fakeAuth struct {
	registered *service.RegisterInput
	token      string
	err        error
}

func (f *fakeAuth) Register(_ context.Context, in service.RegisterInput) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.registered = &in
	return &model.User{ID: uuid.New(), Name: in.Name, Email: in.Email, Role: in.Role}, nil
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (string, error) {
	return f.token, f.err
}

type fakeShops struct {
	caller    model.Principal
	inventory *service.InventoryInput
	itemID    uuid.UUID
	offer     *service.OfferInput
	shop      *model.Shop
	err       error
}

func (f *fakeShops) RegisterShop(_ context.Context, p model.Principal, in service.RegisterShopInput) (*model.Shop, error) {
	f.caller = p
	if f.err != nil {
		return nil, f.err
	}
	return &model.Shop{ID: uuid.New(), OwnerID: p.UserID, ShopName: in.ShopName, Location: in.Location}, nil
}

func (f *fakeShops) AddInventoryItem(_ context.Context, p model.Principal, in service.InventoryInput) (*model.Shop, error) {
	f.caller, f.inventory = p, &in
	return f.shop, f.err
}

func (f *fakeShops) EditInventoryItem(_ context.Context, p model.Principal, itemID uuid.UUID, in service.InventoryInput) (*model.Shop, error) {
	f.caller, f.itemID, f.inventory = p, itemID, &in
	return f.shop, f.err
}

func (f *fakeShops) DeleteInventoryItem(_ context.Context, p model.Principal, itemID uuid.UUID) (*model.Shop, error) {
	f.caller, f.itemID = p, itemID
	return f.shop, f.err
}

func (f *fakeShops) GetOwnShop(_ context.Context, p model.Principal) (*model.Shop, error) {
	f.caller = p
	return f.shop, f.err
}

func (f *fakeShops) AddOffer(_ context.Context, p model.Principal, in service.OfferInput) (*model.Offer, error) {
	f.caller, f.offer = p, &in
	if f.err != nil {
		return nil, f.err
	}
	return &model.Offer{ID: uuid.New(), CouponCode: in.CouponCode, DiscountPercentage: in.DiscountPercentage, IsActive: true}, nil
}

func (f *fakeShops) SetOfferActive(_ context.Context, p model.Principal, offerID uuid.UUID, active bool) (*model.Offer, error) {
	f.caller = p
	if f.err != nil {
		return nil, f.err
	}
	return &model.Offer{ID: offerID, IsActive: active}, nil
}

type fakeDiscovery struct {
	at      model.GeoPoint
	term    string
	nearby  []model.NearbyShop
	results []service.SearchResult
	err     error
}

func (f *fakeDiscovery) NearbyShops(_ context.Context, at model.GeoPoint) ([]model.NearbyShop, error) {
	f.at = at
	return f.nearby, f.err
}

func (f *fakeDiscovery) SearchMedicine(_ context.Context, term string, at model.GeoPoint) ([]service.SearchResult, error) {
	f.term, f.at = term, at
	return f.results, f.err
}

func (f *fakeDiscovery) FeaturedMedicines(_ context.Context, at model.GeoPoint) ([]service.FeaturedMedicine, error) {
	f.at = at
	return []service.FeaturedMedicine{}, f.err
}

type fakeOrders struct {
	caller  model.Principal
	created *service.CreateOrderInput
	orderID uuid.UUID
	status  string
	err     error
}

func (f *fakeOrders) CreateOrder(_ context.Context, p model.Principal, in service.CreateOrderInput) (*model.Order, error) {
	f.caller, f.created = p, &in
	if f.err != nil {
		return nil, f.err
	}
	return &model.Order{ID: uuid.New(), CustomerID: p.UserID, ShopID: in.ShopID, Status: model.StatusPending}, nil
}

func (f *fakeOrders) ListMyOrders(_ context.Context, p model.Principal) ([]model.Order, error) {
	f.caller = p
	return []model.Order{}, f.err
}

func (f *fakeOrders) ListShopOrders(_ context.Context, p model.Principal) ([]model.Order, error) {
	f.caller = p
	return []model.Order{}, f.err
}

func (f *fakeOrders) UpdateOrderStatus(_ context.Context, p model.Principal, orderID uuid.UUID, status string) (*model.Order, error) {
	f.caller, f.orderID, f.status = p, orderID, status
	if f.err != nil {
		return nil, f.err
	}
	return &model.Order{ID: orderID, Status: model.OrderStatus(status)}, nil
}

type fakeAdmin struct {
	caller  model.Principal
	deleted uuid.UUID
	err     error
}

func (f *fakeAdmin) ListUsers(_ context.Context, p model.Principal) ([]model.User, error) {
	f.caller = p
	return []model.User{}, f.err
}

func (f *fakeAdmin) ListShops(_ context.Context, p model.Principal) ([]model.Shop, error) {
	f.caller = p
	return []model.Shop{}, f.err
}

func (f *fakeAdmin) DeleteUser(_ context.Context, p model.Principal, id uuid.UUID) error {
	f.caller, f.deleted = p, id
	return f.err
}

func (f *fakeAdmin) DeleteShop(_ context.Context, p model.Principal, id uuid.UUID) error {
	f.caller, f.deleted = p, id
	return f.err
}

type fakeAI struct {
	text string
	err  error
}

func (f *fakeAI) ScanPrescription(_ context.Context, _, _ string) (string, error) {
	return f.text, f.err
}

func (f *fakeAI) SuggestRemedies(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }
