package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/academy/internal/models"
)

// CourseFilter narrows course listings. Nil fields do not filter.
type CourseFilter struct {
	Search     string
	CategoryID *uuid.UUID
	TeacherID  *uuid.UUID
	Active     *bool
	IDs        []uuid.UUID
	Limit      int
	Offset     int
}

type CourseRepo interface {
	Create(ctx context.Context, c *models.Course) error
	Update(ctx context.Context, c *models.Course, categories []models.Category) error
	Delete(ctx context.Context, c *models.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.Course, error)
	List(ctx context.Context, f CourseFilter) ([]models.Course, int64, error)
	CreateSection(ctx context.Context, s *models.Section) error
	GetSection(ctx context.Context, id uuid.UUID) (*models.Section, error)
	CreateLesson(ctx context.Context, l *models.Lesson) error
}

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepo(db *gorm.DB) CourseRepo {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, c *models.Course) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *courseRepo) Update(ctx context.Context, c *models.Course, categories []models.Category) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Categories", "Sections", "Teacher").Save(c).Error; err != nil {
		return err
	}
	if categories == nil {
		return nil
	}
	if err := db.Model(c).Association("Categories").Replace(categories); err != nil {
		return err
	}
	c.Categories = categories
	return nil
}

// Delete removes the course with its sections, lessons, category links and
// the comments and bookmarks that point at it. Call it inside WithTx.
func (r *courseRepo) Delete(ctx context.Context, c *models.Course) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(c).Association("Categories").Clear(); err != nil {
		return err
	}
	const onCourse = "media_type = ? AND media_id = ?"
	if err := db.Where(onCourse, models.ContentCourse, c.ID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := db.Where(onCourse, models.ContentCourse, c.ID).Delete(&models.Bookmark{}).Error; err != nil {
		return err
	}
	sections := db.Model(&models.Section{}).Select("id").Where("course_id = ?", c.ID)
	if err := db.Where("section_id IN (?)", sections).Delete(&models.Lesson{}).Error; err != nil {
		return err
	}
	if err := db.Where("course_id = ?", c.ID).Delete(&models.Section{}).Error; err != nil {
		return err
	}
	return db.Delete(c).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var c models.Course
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *courseRepo) GetDetail(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var c models.Course
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Categories").
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("Sections.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *courseRepo) List(ctx context.Context, f CourseFilter) ([]models.Course, int64, error) {
	if f.IDs != nil && len(f.IDs) == 0 {
		return []models.Course{}, 0, nil
	}

	q := r.db.WithContext(ctx).Model(&models.Course{})
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if f.CategoryID != nil {
		q = q.Where("id IN (?)", r.db.Table("course_categories").Select("course_id").Where("category_id = ?", *f.CategoryID))
	}
	if f.TeacherID != nil {
		q = q.Where("teacher_id = ?", *f.TeacherID)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	if f.IDs != nil {
		q = q.Where("id IN ?", f.IDs)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []models.Course
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepo) CreateSection(ctx context.Context, s *models.Section) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *courseRepo) GetSection(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	var s models.Section
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *courseRepo) CreateLesson(ctx context.Context, l *models.Lesson) error {
	return r.db.WithContext(ctx).Create(l).Error
}
