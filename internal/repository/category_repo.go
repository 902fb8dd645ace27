package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/academy/internal/models"
)

type CategoryRepo interface {
	Create(ctx context.Context, c *models.Category) error
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListBySlugs(ctx context.Context, slugs []string) ([]models.Category, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *categoryRepo) ListBySlugs(ctx context.Context, slugs []string) ([]models.Category, error) {
	categories := []models.Category{}
	if len(slugs) == 0 {
		return categories, nil
	}
	err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&categories).Error
	return categories, err
}
