package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/academy/internal/models"
	"github.com/example/academy/internal/repository"
	"github.com/example/academy/internal/testutil"
	"github.com/example/academy/internal/utils"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type mockSender struct {
	SendFunc func(ctx context.Context, phone, text string) error

	mu   sync.Mutex
	sent []string
}

func (m *mockSender) Send(ctx context.Context, phone, text string) error {
	m.mu.Lock()
	m.sent = append(m.sent, phone+": "+text)
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(ctx, phone, text)
	}
	return nil
}

func (m *mockSender) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

type mockNotifier struct {
	OrderPaidFunc func(ctx context.Context, order *models.Order, user *models.User) error
}

func (m *mockNotifier) OrderPaid(ctx context.Context, order *models.Order, user *models.User) error {
	if m.OrderPaidFunc != nil {
		return m.OrderPaidFunc(ctx, order, user)
	}
	return nil
}

func newRepo(t *testing.T) *repository.Repository {
	t.Helper()
	return repository.New(testutil.NewDB(t))
}

// codeSequence hands out the given codes in order, repeating the last one.
func codeSequence(codes ...string) func() (string, error) {
	var mu sync.Mutex
	i := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		code := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return code, nil
	}
}

func newOTP(repo *repository.Repository, sender CodeSender, codes ...string) *OTPService {
	svc := NewOTPService(repo, sender, OTPConfig{
		RegisterTTL: 4 * time.Minute,
		ResetTTL:    5 * time.Minute,
	}, zap.NewNop())
	svc.now = func() time.Time { return baseTime }
	if len(codes) > 0 {
		svc.code = codeSequence(codes...)
	}
	return svc
}

func newAuth(repo *repository.Repository, otp *OTPService, cfg AuthConfig) *AuthService {
	return NewAuthService(repo, otp, utils.NewTokenIssuer("test-secret", time.Hour), cfg, zap.NewNop())
}

var userSeq int

// createUser stores an active user with password "password123".
func createUser(t *testing.T, repo *repository.Repository, balance int64, teacher bool) *models.User {
	t.Helper()
	userSeq++
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	u := &models.User{
		Username:     fmt.Sprintf("member%d", userSeq),
		Email:        fmt.Sprintf("member%d@example.com", userSeq),
		PhoneNumber:  fmt.Sprintf("0912%07d", userSeq),
		PasswordHash: hash,
		IsActive:     true,
		IsTeacher:    teacher,
		Balance:      balance,
	}
	require.NoError(t, repo.Users.Create(context.Background(), u))
	return u
}

func createCourse(t *testing.T, repo *repository.Repository, teacherID uuid.UUID, price int64, active bool) *models.Course {
	t.Helper()
	c := &models.Course{
		Name:            fmt.Sprintf("Course %d", price),
		Time:            "01:30:00",
		DifficultyLevel: models.DifficultyBeginner,
		Price:           price,
		TaxPercent:      decimal.Zero,
		IsActive:        active,
		TeacherID:       teacherID,
	}
	require.NoError(t, repo.Courses.Create(context.Background(), c))
	return c
}

func courseRef(c *models.Course) models.ContentRef {
	return models.ContentRef{Kind: models.ContentCourse, ID: c.ID}
}
