package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContentKind names a purchasable or commentable catalog table.
type ContentKind string

const (
	ContentCourse ContentKind = "course"
)

// ParseContentKind accepts only kinds the catalog can resolve.
func ParseContentKind(s string) (ContentKind, error) {
	switch ContentKind(s) {
	case ContentCourse:
		return ContentCourse, nil
	default:
		return "", fmt.Errorf("unknown content kind %q", s)
	}
}

// ContentRef points at one catalog entity.
type ContentRef struct {
	Kind ContentKind
	ID   uuid.UUID
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Category groups courses under a unique slug.
type Category struct {
	BaseModel
	Title   string   `gorm:"size:120;not null" json:"title"`
	Slug    string   `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Courses []Course `gorm:"many2many:course_categories;" json:"-"`
}

// Course is a sellable catalog entry owned by a teacher.
type Course struct {
	BaseModel
	Name              string          `gorm:"size:200;not null;index" json:"name"`
	Description       string          `json:"description"`
	Thumbnail         string          `json:"thumbnail"`
	Time              string          `gorm:"size:8" json:"time"`
	DifficultyLevel   Difficulty      `gorm:"size:16" json:"difficulty_level"`
	Price             int64           `gorm:"not null" json:"price"`
	PriceWithDiscount *int64          `json:"price_with_discount,omitempty"`
	TaxPercent        decimal.Decimal `gorm:"type:numeric(4,2);not null" json:"tax_percent"`
	IsActive          bool            `gorm:"not null;index" json:"is_active"`
	TeacherID         uuid.UUID       `gorm:"type:uuid;index;not null" json:"teacher_id"`
	Teacher           *User           `gorm:"constraint:OnDelete:CASCADE;" json:"teacher,omitempty"`
	Categories        []Category      `gorm:"many2many:course_categories;constraint:OnDelete:CASCADE;" json:"categories,omitempty"`
	Sections          []Section       `gorm:"constraint:OnDelete:CASCADE;" json:"sections,omitempty"`
}

// FinalPrice is the discounted (or list) price plus tax, truncated to an
// integer. Tax is taken from the list price in whole hundreds even when a
// discount applies.
func (c *Course) FinalPrice() int64 {
	base := c.Price
	if c.PriceWithDiscount != nil {
		base = *c.PriceWithDiscount
	}
	tax := decimal.NewFromInt(c.Price / 100).Mul(c.TaxPercent)
	return decimal.NewFromInt(base).Add(tax).IntPart()
}

// Section is an ordered chapter of a course.
type Section struct {
	BaseModel
	CourseID uuid.UUID `gorm:"type:uuid;index;not null" json:"course_id"`
	Title    string    `gorm:"size:200;not null" json:"title"`
	Position int       `json:"position"`
	Lessons  []Lesson  `gorm:"constraint:OnDelete:CASCADE;" json:"lessons,omitempty"`
}

type Lesson struct {
	BaseModel
	SectionID uuid.UUID `gorm:"type:uuid;index;not null" json:"section_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	File      string    `json:"file"`
	Time      string    `gorm:"size:8" json:"time"`
	IsFree    bool      `gorm:"not null" json:"is_free"`
	Position  int       `json:"position"`
}

// Comment is attached to a catalog entity and may reply to another comment.
type Comment struct {
	BaseModel
	UserID    uuid.UUID   `gorm:"type:uuid;index;not null" json:"user_id"`
	User      *User       `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	MediaType ContentKind `gorm:"size:32;not null;index:idx_comment_media" json:"media_type"`
	MediaID   uuid.UUID   `gorm:"type:uuid;not null;index:idx_comment_media" json:"media_id"`
	ParentID  *uuid.UUID  `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Body      string      `gorm:"not null" json:"body"`
	Active    bool        `gorm:"not null" json:"active"`
}

// Bookmark marks a catalog entity for later. Unique per user and target.
type Bookmark struct {
	BaseModel
	UserID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_target" json:"user_id"`
	MediaType ContentKind `gorm:"size:32;not null;uniqueIndex:idx_bookmark_target" json:"media_type"`
	MediaID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_target" json:"media_id"`
}
