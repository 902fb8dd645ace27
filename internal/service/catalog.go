package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/academy/internal/models"
	"github.com/example/academy/internal/repository"
	"github.com/example/academy/internal/utils"
)

type CatalogService struct {
	repo     *repository.Repository
	validate *validator.Validate
	log      *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, validate: utils.NewValidator(), log: log}
}

// ListCourses returns published courses whose name contains search.
func (s *CatalogService) ListCourses(ctx context.Context, search string, limit, offset int) ([]CourseView, int64, error) {
	active := true
	courses, total, err := s.repo.Courses.List(ctx, repository.CourseFilter{
		Search: search,
		Active: &active,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, 0, err
	}
	return courseViews(courses), total, nil
}

func (s *CatalogService) CoursesByCategory(ctx context.Context, slug string, limit, offset int) (*models.Category, []CourseView, int64, error) {
	category, err := s.repo.Categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, 0, err
	}

	active := true
	courses, total, err := s.repo.Courses.List(ctx, repository.CourseFilter{
		CategoryID: &category.ID,
		Active:     &active,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, nil, 0, err
	}
	return category, courseViews(courses), total, nil
}

type CourseDetail struct {
	CourseView
	Comments []models.Comment `json:"comments"`
}

func (s *CatalogService) CourseDetail(ctx context.Context, id uuid.UUID) (*CourseDetail, error) {
	course, err := s.repo.Courses.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, ErrNotFound
	}

	comments, err := s.repo.Comments.ListActive(ctx, models.ContentCourse, course.ID)
	if err != nil {
		return nil, err
	}
	return &CourseDetail{CourseView: newCourseView(*course), Comments: comments}, nil
}

type CommentInput struct {
	ContentType string     `json:"content_type" validate:"required"`
	MediaID     uuid.UUID  `json:"media_id" validate:"required"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Body        string     `json:"body" validate:"required,max=2000"`
}

// AddComment attaches a comment to a catalog entity. A reply must target a
// comment on the same entity.
func (s *CatalogService) AddComment(ctx context.Context, userID uuid.UUID, in CommentInput) (*models.Comment, error) {
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}
	kind, err := models.ParseContentKind(in.ContentType)
	if err != nil {
		return nil, &ValidationError{Field: "content_type", Message: "is not supported"}
	}
	ref := models.ContentRef{Kind: kind, ID: in.MediaID}

	comment := &models.Comment{
		UserID:    userID,
		MediaType: ref.Kind,
		MediaID:   ref.ID,
		ParentID:  in.ParentID,
		Body:      in.Body,
		Active:    true,
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := resolveCourse(ctx, tx, ref, true); err != nil {
			return err
		}
		if in.ParentID != nil {
			parent, err := tx.Comments.GetByID(ctx, *in.ParentID)
			if errors.Is(err, repository.ErrNotFound) {
				return &ValidationError{Field: "parent_id", Message: "does not exist"}
			}
			if err != nil {
				return err
			}
			if parent.MediaType != ref.Kind || parent.MediaID != ref.ID {
				return &ValidationError{Field: "parent_id", Message: "belongs to another item"}
			}
		}
		return tx.Comments.Create(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ToggleBookmark adds the bookmark if absent and removes it otherwise. It
// reports whether the item is bookmarked afterwards.
func (s *CatalogService) ToggleBookmark(ctx context.Context, userID uuid.UUID, ref models.ContentRef) (bool, error) {
	var bookmarked bool
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := resolveCourse(ctx, tx, ref, false); err != nil {
			return err
		}

		existing, err := tx.Bookmarks.Get(ctx, userID, ref)
		switch {
		case err == nil:
			bookmarked = false
			return tx.Bookmarks.Delete(ctx, existing.ID)
		case errors.Is(err, repository.ErrNotFound):
			bookmarked = true
			return tx.Bookmarks.Create(ctx, &models.Bookmark{UserID: userID, MediaType: ref.Kind, MediaID: ref.ID})
		default:
			return err
		}
	})
	return bookmarked, err
}
