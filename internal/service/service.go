// Package service holds the business rules of MediFind. Every exported
// operation returns *apperror.Error values for failures the client should see.
package service

import (
	"context"
	"errors"

	"medifind-service/internal/apperror"
	"medifind-service/internal/model"
	"medifind-service/internal/repository"
	"medifind-service/pkg/gemini"

	"github.com/google/uuid"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ShopStore interface {
	Create(ctx context.Context, shop *model.Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Shop, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Shop, error)
	ExistsByLicense(ctx context.Context, license string) (bool, error)
	List(ctx context.Context) ([]model.Shop, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddItem(ctx context.Context, item *model.InventoryItem) error
	SaveItem(ctx context.Context, item *model.InventoryItem) error
	DeleteItem(ctx context.Context, shopID, itemID uuid.UUID) error

	AddOffer(ctx context.Context, offer *model.Offer) error
	SetOfferActive(ctx context.Context, shopID, offerID uuid.UUID, active bool) (*model.Offer, error)

	Nearby(ctx context.Context, point model.GeoPoint, radius float64, limit int) ([]model.NearbyShop, error)
	NearbyInventory(ctx context.Context, point model.GeoPoint, radius float64) ([]model.InventoryRow, error)
}

type OrderStore interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id, shopID uuid.UUID, status model.OrderStatus) error
}

// TokenIssuer signs session credentials.
type TokenIssuer interface {
	GenerateToken(userID, role string) (string, error)
}

// Generator produces text from a generative model.
type Generator interface {
	GenerateContent(ctx context.Context, req *gemini.GenerateRequest) (string, error)
}

// authorize is the single role gate used by every privileged operation.
func authorize(p model.Principal, msg string, roles ...model.Role) error {
	if !p.HasRole(roles...) {
		return apperror.Forbidden(msg)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicate)
}
