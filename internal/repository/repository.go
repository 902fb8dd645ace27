package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type Repository struct {
	DB         *gorm.DB
	Users      UserRepo
	OTP        OTPRepo
	Courses    CourseRepo
	Categories CategoryRepo
	Comments   CommentRepo
	Bookmarks  BookmarkRepo
	Carts      CartRepo
	Orders     OrderRepo
	Wallet     WalletRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Users:      NewUserRepo(db),
		OTP:        NewOTPRepo(db),
		Courses:    NewCourseRepo(db),
		Categories: NewCategoryRepo(db),
		Comments:   NewCommentRepo(db),
		Bookmarks:  NewBookmarkRepo(db),
		Carts:      NewCartRepo(db),
		Orders:     NewOrderRepo(db),
		Wallet:     NewWalletRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn against a Repository bound to a single transaction.
// Returning an error from fn rolls everything back.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// duplicate needs the connection opened with TranslateError.
func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
