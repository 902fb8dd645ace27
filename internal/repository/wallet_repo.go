package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/academy/internal/models"
)

type WalletRepo interface {
	Create(ctx context.Context, t *models.WalletTransaction) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error)
}

type walletRepo struct {
	db *gorm.DB
}

func NewWalletRepo(db *gorm.DB) WalletRepo {
	return &walletRepo{db: db}
}

func (r *walletRepo) Create(ctx context.Context, t *models.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *walletRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error) {
	entries := []models.WalletTransaction{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
