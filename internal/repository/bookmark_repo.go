package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/academy/internal/models"
)

type BookmarkRepo interface {
	Get(ctx context.Context, userID uuid.UUID, ref models.ContentRef) (*models.Bookmark, error)
	Create(ctx context.Context, b *models.Bookmark) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, kind models.ContentKind) ([]models.Bookmark, error)
}

type bookmarkRepo struct {
	db *gorm.DB
}

func NewBookmarkRepo(db *gorm.DB) BookmarkRepo {
	return &bookmarkRepo{db: db}
}

func (r *bookmarkRepo) Get(ctx context.Context, userID uuid.UUID, ref models.ContentRef) (*models.Bookmark, error) {
	var b models.Bookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND media_type = ? AND media_id = ?", userID, ref.Kind, ref.ID).
		First(&b).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *bookmarkRepo) Create(ctx context.Context, b *models.Bookmark) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bookmarkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Bookmark{}).Error
}

func (r *bookmarkRepo) ListByUser(ctx context.Context, userID uuid.UUID, kind models.ContentKind) ([]models.Bookmark, error) {
	bookmarks := []models.Bookmark{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND media_type = ?", userID, kind).
		Order("created_at DESC").
		Find(&bookmarks).Error
	return bookmarks, err
}
