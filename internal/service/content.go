package service

import (
	"context"

	"github.com/example/academy/internal/models"
	"github.com/example/academy/internal/repository"
)

// CourseView is a course together with its computed price.
type CourseView struct {
	models.Course
	FinalPrice int64 `json:"final_price"`
}

func newCourseView(c models.Course) CourseView {
	return CourseView{Course: c, FinalPrice: c.FinalPrice()}
}

func courseViews(courses []models.Course) []CourseView {
	out := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		out = append(out, newCourseView(c))
	}
	return out
}

// resolveCourse loads the course a reference points at. activeOnly hides
// unpublished courses.
func resolveCourse(ctx context.Context, repo *repository.Repository, ref models.ContentRef, activeOnly bool) (*models.Course, error) {
	switch ref.Kind {
	case models.ContentCourse:
		course, err := repo.Courses.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if activeOnly && !course.IsActive {
			return nil, ErrNotFound
		}
		return course, nil
	default:
		return nil, &ValidationError{Field: "content_type", Message: "is not supported"}
	}
}

// priceOf returns the purchase price of a referenced catalog entity.
func priceOf(ctx context.Context, repo *repository.Repository, ref models.ContentRef) (int64, error) {
	switch ref.Kind {
	case models.ContentCourse:
		course, err := resolveCourse(ctx, repo, ref, true)
		if err != nil {
			return 0, err
		}
		return course.FinalPrice(), nil
	default:
		return 0, &ValidationError{Field: "content_type", Message: "is not supported"}
	}
}
