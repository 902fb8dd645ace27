package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/academy/internal/service"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{&service.ValidationError{Field: "email", Message: "is required"}, fiber.StatusBadRequest},
		{&service.ConflictError{Field: "username"}, fiber.StatusConflict},
		{fmt.Errorf("load: %w", service.ErrNotFound), fiber.StatusNotFound},
		{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{service.ErrInvalidOrExpiredCode, fiber.StatusUnauthorized},
		{service.ErrMalformedCode, fiber.StatusBadRequest},
		{service.ErrResendCooldown, fiber.StatusTooManyRequests},
		{service.ErrTooManyRequests, fiber.StatusTooManyRequests},
		{service.ErrForbidden, fiber.StatusForbidden},
		{service.ErrEmptyCart, fiber.StatusBadRequest},
		{service.ErrCheckoutInProgress, fiber.StatusConflict},
		{service.ErrOrderNotPending, fiber.StatusConflict},
	}
	for _, tc := range cases {
		var ferr *fiber.Error
		require.ErrorAs(t, mapError(tc.err), &ferr, tc.err.Error())
		assert.Equal(t, tc.status, ferr.Code, tc.err.Error())
	}

	unknown := errors.New("disk on fire")
	assert.Equal(t, unknown, mapError(unknown))
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: connection refused") })
	app.Get("/gone", func(c *fiber.Ctx) error { return mapError(service.ErrNotFound) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/gone", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":false,"error":"not found"}`, string(body))
}
