package repository

import (
	"context"
	"time"

	"aroma-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
	FindAll(ctx context.Context) ([]model.User, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "user", email)
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return &user, nil
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	return duplicateOr(err, "user", "email", user.Email)
}

func (r *userRepo) Save(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Save(user).Error
	return duplicateOr(err, "user", "email", user.Email)
}

func (r *userRepo) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("last_login_at", at).Error
}
