package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/academy/internal/models"
)

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// Conflict returns the first unique column of u already used by
	// another user, or "" when none is.
	Conflict(ctx context.Context, u *models.User) (string, error)
	Activate(ctx context.Context, phone string) (int64, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateProfile(ctx context.Context, u *models.User) error
	ClearActiveCart(ctx context.Context, id uuid.UUID) error
	ClaimActiveCart(ctx context.Context, id, cartID uuid.UUID) (bool, error)
	Debit(ctx context.Context, id uuid.UUID, amount int64) (bool, error)
	Credit(ctx context.Context, id uuid.UUID, amount int64) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *userRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ? OR phone_number = ?", identifier, identifier, identifier).
		First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *userRepo) Conflict(ctx context.Context, u *models.User) (string, error) {
	checks := []struct {
		column string
		value  string
	}{
		{"username", u.Username},
		{"email", u.Email},
		{"phone_number", u.PhoneNumber},
	}

	for _, c := range checks {
		if c.value == "" {
			continue
		}
		var existing models.User
		err := r.db.WithContext(ctx).
			Select("id").
			Where(c.column+" = ? AND id <> ?", c.value, u.ID).
			First(&existing).Error
		if err == nil {
			return c.column, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
	}
	return "", nil
}

func (r *userRepo) Activate(ctx context.Context, phone string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("phone_number = ?", phone).
		Update("is_active", true)
	return res.RowsAffected, res.Error
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (r *userRepo) UpdateProfile(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).
		Model(u).
		Select("username", "email", "first_name", "last_name", "about").
		Updates(u).Error
}

func (r *userRepo) ClearActiveCart(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("active_cart_id", gorm.Expr("NULL")).Error
}

// ClaimActiveCart points the user at cartID only if no cart is active yet.
func (r *userRepo) ClaimActiveCart(ctx context.Context, id, cartID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND active_cart_id IS NULL", id).
		Update("active_cart_id", cartID)
	return res.RowsAffected > 0, res.Error
}

// Debit subtracts amount in a single conditional statement. It reports false
// without touching the row when the balance is short.
func (r *userRepo) Debit(ctx context.Context, id uuid.UUID, amount int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	return res.RowsAffected > 0, res.Error
}

func (r *userRepo) Credit(ctx context.Context, id uuid.UUID, amount int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) Count(ctx context.Context, activeOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
