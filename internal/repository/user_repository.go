package repository

import (
	"context"

	"medifind-service/internal/model"
	"medifind-service/prometheus"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("user_create")()
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("user_find_by_email")()

	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	defer prometheus.TrackDBOperation("user_find_by_id")()

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	defer prometheus.TrackDBOperation("user_list")()

	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes the user together with the shop they own, if any. The
// shop's inventory and offers go with it; orders are kept.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer prometheus.TrackDBOperation("user_delete")()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&model.Shop{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
