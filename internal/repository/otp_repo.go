package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/academy/internal/models"
)

type OTPRepo interface {
	Create(ctx context.Context, c *models.OTPCode) error
	Get(ctx context.Context, phone string, purpose models.OTPPurpose) (*models.OTPCode, error)
	GetValid(ctx context.Context, phone string, purpose models.OTPPurpose, code string, now time.Time) (*models.OTPCode, error)
	Consume(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteFor(ctx context.Context, phone string, purpose models.OTPPurpose) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type otpRepo struct {
	db *gorm.DB
}

func NewOTPRepo(db *gorm.DB) OTPRepo {
	return &otpRepo{db: db}
}

func (r *otpRepo) Create(ctx context.Context, c *models.OTPCode) error {
	return duplicate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *otpRepo) Get(ctx context.Context, phone string, purpose models.OTPPurpose) (*models.OTPCode, error) {
	var c models.OTPCode
	err := r.db.WithContext(ctx).
		Where("phone_number = ? AND purpose = ?", phone, purpose).
		First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *otpRepo) GetValid(ctx context.Context, phone string, purpose models.OTPPurpose, code string, now time.Time) (*models.OTPCode, error) {
	var c models.OTPCode
	err := r.db.WithContext(ctx).
		Where("phone_number = ? AND purpose = ? AND code = ? AND expire_time > ?", phone, purpose, code, now).
		First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Consume deletes the code. Only the caller that observes true may apply
// the code's side effect.
func (r *otpRepo) Consume(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.OTPCode{})
	return res.RowsAffected > 0, res.Error
}

func (r *otpRepo) DeleteFor(ctx context.Context, phone string, purpose models.OTPPurpose) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("phone_number = ? AND purpose = ?", phone, purpose).
		Delete(&models.OTPCode{})
	return res.RowsAffected, res.Error
}

func (r *otpRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expire_time <= ?", now).
		Delete(&models.OTPCode{})
	return res.RowsAffected, res.Error
}
