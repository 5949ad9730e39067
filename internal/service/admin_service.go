package service

import (
	"context"

	"medifind-service/internal/apperror"
	"medifind-service/internal/model"

	"github.com/google/uuid"
)

const msgAdminRequired = "Access denied. Admin role required."

type AdminService struct {
	users UserStore
	shops ShopStore
}

func NewAdminService(users UserStore, shops ShopStore) *AdminService {
	return &AdminService{users: users, shops: shops}
}

func (s *AdminService) ListUsers(ctx context.Context, p model.Principal) ([]model.User, error) {
	if err := authorize(p, msgAdminRequired, model.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

func (s *AdminService) ListShops(ctx context.Context, p model.Principal) ([]model.Shop, error) {
	if err := authorize(p, msgAdminRequired, model.RoleAdmin); err != nil {
		return nil, err
	}
	shops, err := s.shops.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return shops, nil
}

// DeleteUser removes a user and, for shop owners, their shop. Nobody can
// delete their own account, whatever their role.
func (s *AdminService) DeleteUser(ctx context.Context, p model.Principal, id uuid.UUID) error {
	if id == p.UserID {
		return apperror.Validation("You cannot delete your own account.")
	}
	if err := authorize(p, msgAdminRequired, model.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.users.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return apperror.NotFound("User not found.")
		}
		return apperror.Internal(err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperror.NotFound("User not found.")
		}
		return apperror.Internal(err)
	}
	return nil
}

// DeleteShop removes a shop and clears its owner's back-reference. Orders
// against the shop are kept.
func (s *AdminService) DeleteShop(ctx context.Context, p model.Principal, id uuid.UUID) error {
	if err := authorize(p, msgAdminRequired, model.RoleAdmin); err != nil {
		return err
	}

	if err := s.shops.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperror.NotFound("Shop not found.")
		}
		return apperror.Internal(err)
	}
	return nil
}
