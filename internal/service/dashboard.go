package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/academy/internal/models"
	"github.com/example/academy/internal/repository"
	"github.com/example/academy/internal/utils"
)

var maxTaxPercent = decimal.NewFromInt(100)

type DashboardService struct {
	repo     *repository.Repository
	validate *validator.Validate
	log      *zap.Logger
}

func NewDashboardService(repo *repository.Repository, log *zap.Logger) *DashboardService {
	return &DashboardService{repo: repo, validate: utils.NewValidator(), log: log}
}

type CourseInput struct {
	Name              string            `json:"name" validate:"required,max=200"`
	Description       string            `json:"description"`
	Thumbnail         string            `json:"thumbnail" validate:"max=500"`
	Time              string            `json:"time" validate:"required,duration"`
	DifficultyLevel   models.Difficulty `json:"difficulty_level" validate:"required,oneof=beginner intermediate advanced"`
	Price             int64             `json:"price" validate:"gte=0"`
	PriceWithDiscount *int64            `json:"price_with_discount" validate:"omitempty,gte=0"`
	TaxPercent        decimal.Decimal   `json:"tax_percent"`
	IsActive          bool              `json:"is_active"`
	Categories        []string          `json:"categories"`
}

func (s *DashboardService) checkCourseInput(in CourseInput) error {
	if err := validateInput(s.validate, in); err != nil {
		return err
	}
	if in.PriceWithDiscount != nil && *in.PriceWithDiscount > in.Price {
		return &ValidationError{Field: "price_with_discount", Message: "must not exceed price"}
	}
	if in.TaxPercent.IsNegative() || in.TaxPercent.GreaterThanOrEqual(maxTaxPercent) {
		return &ValidationError{Field: "tax_percent", Message: "must be between 0 and 99.99"}
	}
	return nil
}

// CreateCourse adds a course owned by the calling teacher.
func (s *DashboardService) CreateCourse(ctx context.Context, userID uuid.UUID, in CourseInput) (*models.Course, error) {
	if err := s.checkCourseInput(in); err != nil {
		return nil, err
	}

	var course *models.Course
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := requireTeacher(ctx, tx, userID); err != nil {
			return err
		}
		categories, err := resolveCategories(ctx, tx, in.Categories)
		if err != nil {
			return err
		}

		course = &models.Course{TeacherID: userID, Categories: categories}
		applyCourseInput(course, in)
		return tx.Courses.Create(ctx, course)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("course created", zap.Stringer("course_id", course.ID), zap.Stringer("teacher_id", userID))
	return course, nil
}

// UpdateCourse rewrites one of the teacher's courses. A nil category list
// keeps the current categories.
func (s *DashboardService) UpdateCourse(ctx context.Context, userID, courseID uuid.UUID, in CourseInput) (*models.Course, error) {
	if err := s.checkCourseInput(in); err != nil {
		return nil, err
	}

	var course *models.Course
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		course, err = ownedCourse(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}

		var categories []models.Category
		if in.Categories != nil {
			if categories, err = resolveCategories(ctx, tx, in.Categories); err != nil {
				return err
			}
		}

		applyCourseInput(course, in)
		return tx.Courses.Update(ctx, course, categories)
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *DashboardService) DeleteCourse(ctx context.Context, userID, courseID uuid.UUID) error {
	return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		course, err := ownedCourse(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		return tx.Courses.Delete(ctx, course)
	})
}

type SectionInput struct {
	Title    string `json:"title" validate:"required,max=200"`
	Position int    `json:"position" validate:"gte=0"`
}

func (s *DashboardService) AddSection(ctx context.Context, userID, courseID uuid.UUID, in SectionInput) (*models.Section, error) {
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}

	section := &models.Section{CourseID: courseID, Title: in.Title, Position: in.Position}
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := ownedCourse(ctx, tx, userID, courseID); err != nil {
			return err
		}
		return tx.Courses.CreateSection(ctx, section)
	})
	if err != nil {
		return nil, err
	}
	return section, nil
}

type LessonInput struct {
	Title    string `json:"title" validate:"required,max=200"`
	File     string `json:"file" validate:"max=500"`
	Time     string `json:"time" validate:"required,duration"`
	IsFree   bool   `json:"is_free"`
	Position int    `json:"position" validate:"gte=0"`
}

func (s *DashboardService) AddLesson(ctx context.Context, userID, sectionID uuid.UUID, in LessonInput) (*models.Lesson, error) {
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		SectionID: sectionID,
		Title:     in.Title,
		File:      in.File,
		Time:      in.Time,
		IsFree:    in.IsFree,
		Position:  in.Position,
	}
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		section, err := tx.Courses.GetSection(ctx, sectionID)
		if err != nil {
			return err
		}
		if _, err := ownedCourse(ctx, tx, userID, section.CourseID); err != nil {
			return err
		}
		return tx.Courses.CreateLesson(ctx, lesson)
	})
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

// MyCourses lists the teacher's own courses filtered by published state.
func (s *DashboardService) MyCourses(ctx context.Context, userID uuid.UUID, published bool, limit, offset int) ([]CourseView, int64, error) {
	courses, total, err := s.repo.Courses.List(ctx, repository.CourseFilter{
		TeacherID: &userID,
		Active:    &published,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, 0, err
	}
	return courseViews(courses), total, nil
}

func (s *DashboardService) MyBookmarks(ctx context.Context, userID uuid.UUID, limit, offset int) ([]CourseView, int64, error) {
	bookmarks, err := s.repo.Bookmarks.ListByUser(ctx, userID, models.ContentCourse)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uuid.UUID, 0, len(bookmarks))
	for _, b := range bookmarks {
		ids = append(ids, b.MediaID)
	}

	courses, total, err := s.repo.Courses.List(ctx, repository.CourseFilter{
		IDs:    ids,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, 0, err
	}
	return courseViews(courses), total, nil
}

func (s *DashboardService) MyOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	return s.repo.Orders.ListByUser(ctx, userID, limit, offset)
}

func (s *DashboardService) MyWallet(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error) {
	return s.repo.Wallet.ListByUser(ctx, userID)
}

func requireTeacher(ctx context.Context, repo *repository.Repository, userID uuid.UUID) (*models.User, error) {
	user, err := repo.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsTeacher {
		return nil, ErrForbidden
	}
	return user, nil
}

// ownedCourse hides other teachers' courses behind ErrNotFound.
func ownedCourse(ctx context.Context, repo *repository.Repository, userID, courseID uuid.UUID) (*models.Course, error) {
	if _, err := requireTeacher(ctx, repo, userID); err != nil {
		return nil, err
	}
	course, err := repo.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != userID {
		return nil, ErrNotFound
	}
	return course, nil
}

func resolveCategories(ctx context.Context, repo *repository.Repository, slugs []string) ([]models.Category, error) {
	unique := make(map[string]struct{}, len(slugs))
	list := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if _, seen := unique[slug]; seen {
			continue
		}
		unique[slug] = struct{}{}
		list = append(list, slug)
	}

	categories, err := repo.Categories.ListBySlugs(ctx, list)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(list) {
		return nil, &ValidationError{Field: "categories", Message: "contains an unknown slug"}
	}
	return categories, nil
}

func applyCourseInput(c *models.Course, in CourseInput) {
	c.Name = in.Name
	c.Description = in.Description
	c.Thumbnail = in.Thumbnail
	c.Time = in.Time
	c.DifficultyLevel = in.DifficultyLevel
	c.Price = in.Price
	c.PriceWithDiscount = in.PriceWithDiscount
	c.TaxPercent = in.TaxPercent
	c.IsActive = in.IsActive
}
