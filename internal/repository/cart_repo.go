package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/academy/internal/models"
)

type CartRepo interface {
	Create(ctx context.Context, c *models.Cart) error
	GetWithItems(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindItem(ctx context.Context, cartID uuid.UUID, ref models.ContentRef) (*models.CartItem, error)
	AddItem(ctx context.Context, it *models.CartItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) (bool, error)
	// Transition moves the cart from one status to another and reports
	// whether this call performed the move.
	Transition(ctx context.Context, id uuid.UUID, from, to models.CartStatus) (bool, error)
}

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepo(db *gorm.DB) CartRepo {
	return &cartRepo{db: db}
}

func (r *cartRepo) Create(ctx context.Context, c *models.Cart) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cartRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var c models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *cartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Cart{}).Error
}

func (r *cartRepo) FindItem(ctx context.Context, cartID uuid.UUID, ref models.ContentRef) (*models.CartItem, error) {
	var it models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND content_type = ? AND media_id = ?", cartID, ref.Kind, ref.ID).
		First(&it).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &it, nil
}

func (r *cartRepo) AddItem(ctx context.Context, it *models.CartItem) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *cartRepo) DeleteItem(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CartItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *cartRepo) Transition(ctx context.Context, id uuid.UUID, from, to models.CartStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}
