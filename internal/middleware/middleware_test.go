package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/academy/internal/cache"
	"github.com/example/academy/internal/models"
	"github.com/example/academy/internal/repository"
	"github.com/example/academy/internal/service"
	"github.com/example/academy/internal/testutil"
	"github.com/example/academy/internal/utils"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour)
	userID := uuid.New()

	app := fiber.New()
	app.Get("/me", AuthMiddleware(tokens), func(c *fiber.Ctx) error {
		id, ok := GetCurrentUserID(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(id.String())
	})

	valid, err := tokens.Issue(userID)
	require.NoError(t, err)
	foreign, err := utils.NewTokenIssuer("other", time.Hour).Issue(userID)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid", "bearer " + valid, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	repo := repository.New(testutil.NewDB(t))
	ctx := context.Background()

	users := map[string]*models.User{}
	for i, name := range []string{"bossman", "learner1"} {
		u := &models.User{
			Username:     name,
			Email:        name + "@example.com",
			PhoneNumber:  fmt.Sprintf("0912000000%d", i),
			PasswordHash: "x",
			IsActive:     true,
		}
		require.NoError(t, repo.Users.Create(ctx, u))
		users[name] = u
	}

	tokens := utils.NewTokenIssuer("secret", time.Hour)
	admin := service.NewAdminService(repo, func(username string) bool { return username == "bossman" })

	app := fiber.New()
	app.Get("/admin", AuthMiddleware(tokens), RequireAdmin(admin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	get := func(id uuid.UUID) int {
		token, err := tokens.Issue(id)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, get(users["bossman"].ID))
	assert.Equal(t, http.StatusForbidden, get(users["learner1"].ID))
	assert.Equal(t, http.StatusUnauthorized, get(uuid.New()), "account no longer exists")
}

type mockLimiter struct {
	AllowFunc   func(ctx context.Context, key string, window time.Duration) (bool, error)
	ReleaseFunc func(ctx context.Context, key string) error
}

func (m *mockLimiter) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	return m.AllowFunc(ctx, key, window)
}

func (m *mockLimiter) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	return nil
}

func postJSON(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestOTPRateLimit(t *testing.T) {
	app := fiber.New()
	app.Post("/send", OTPRateLimit(cache.NewMemoryLimiter(), time.Minute, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, postJSON(t, app, `{"phone_number":"09123456789"}`))
	assert.Equal(t, http.StatusTooManyRequests, postJSON(t, app, `{"phone_number":"09123456789"}`))
	assert.Equal(t, http.StatusOK, postJSON(t, app, `{"phone_number":"09120000000"}`))
	assert.Equal(t, http.StatusOK, postJSON(t, app, `{"identifier":"learner1"}`))
	assert.Equal(t, http.StatusTooManyRequests, postJSON(t, app, `{"identifier":"learner1"}`))
}

func TestOTPRateLimitKeysAndFailsOpen(t *testing.T) {
	var keys []string
	limiter := &mockLimiter{AllowFunc: func(_ context.Context, key string, _ time.Duration) (bool, error) {
		keys = append(keys, key)
		return false, errors.New("redis down")
	}}

	app := fiber.New()
	app.Post("/send", OTPRateLimit(limiter, time.Minute, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, postJSON(t, app, `{"phone_number":"09123456789"}`))
	assert.Equal(t, []string{"otp:send:09123456789"}, keys)
}

func TestOTPRateLimitReleasesFailedRequests(t *testing.T) {
	app := fiber.New()
	app.Post("/send", OTPRateLimit(cache.NewMemoryLimiter(), time.Minute, zap.NewNop()), func(c *fiber.Ctx) error {
		var body struct {
			Password string `json:"password"`
		}
		if err := c.BodyParser(&body); err != nil {
			return err
		}
		switch body.Password {
		case "":
			return fiber.NewError(fiber.StatusBadRequest, "password is required")
		case "taken":
			return c.SendStatus(http.StatusConflict)
		}
		return c.SendStatus(http.StatusCreated)
	})

	const phone = `"phone_number":"09123456789"`
	assert.Equal(t, http.StatusBadRequest, postJSON(t, app, `{`+phone+`}`))
	assert.Equal(t, http.StatusConflict, postJSON(t, app, `{`+phone+`,"password":"taken"}`))
	assert.Equal(t, http.StatusCreated, postJSON(t, app, `{`+phone+`,"password":"password123"}`))
	assert.Equal(t, http.StatusTooManyRequests, postJSON(t, app, `{`+phone+`,"password":"password123"}`))
}

func TestOTPRateLimitKeepsWindowOnSuccess(t *testing.T) {
	var released []string
	limiter := &mockLimiter{
		AllowFunc: func(context.Context, string, time.Duration) (bool, error) { return true, nil },
		ReleaseFunc: func(_ context.Context, key string) error {
			released = append(released, key)
			return nil
		},
	}

	app := fiber.New()
	app.Post("/send", OTPRateLimit(limiter, time.Minute, zap.NewNop()), func(c *fiber.Ctx) error {
		if c.Query("fail") != "" {
			return fiber.ErrUnprocessableEntity
		}
		return c.SendStatus(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, postJSON(t, app, `{"identifier":"learner1"}`))
	assert.Empty(t, released)

	req := httptest.NewRequest(http.MethodPost, "/send?fail=1", strings.NewReader(`{"identifier":"learner1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, []string{"otp:send:learner1"}, released)
}
