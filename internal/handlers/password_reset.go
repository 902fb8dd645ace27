package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/academy/internal/middleware"
	"github.com/example/academy/internal/service"
)

// PasswordHandler serves the forgot, reset and change password flows.
type PasswordHandler struct {
	auth *service.AuthService
}

func NewPasswordHandler(auth *service.AuthService) *PasswordHandler {
	return &PasswordHandler{auth: auth}
}

// ForgotPassword sends a reset code to the account's phone.
func (h *PasswordHandler) ForgotPassword(c *fiber.Ctx) error {
	var req service.ForgotPasswordInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	masked, err := h.auth.ForgotPassword(c.UserContext(), req)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"phone_number": masked,
		},
	})
}

// ResetPassword sets a new password using the reset code.
func (h *PasswordHandler) ResetPassword(c *fiber.Ctx) error {
	var req service.ResetPasswordInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.auth.ResetPassword(c.UserContext(), req); err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ChangePassword replaces the password of the signed-in user.
func (h *PasswordHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req service.ChangePasswordInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.auth.ChangePassword(c.UserContext(), userID, req); err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}
