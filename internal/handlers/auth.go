package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/academy/internal/models"
	"github.com/example/academy/internal/service"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates an inactive account and sends an activation code.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    userResponse(user),
	})
}

// Activate confirms the phone number with the code sent on registration.
func (h *AuthHandler) Activate(c *fiber.Ctx) error {
	var req service.ActivateInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := h.auth.Activate(c.UserContext(), req)
	if err != nil {
		return mapError(err)
	}

	data := fiber.Map{"user": userResponse(res.User)}
	if res.Token != "" {
		data["token"] = res.Token
		data["redirect"] = res.Redirect
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// Login authenticates by username, email or phone number.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, token, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user":  userResponse(user),
			"token": token,
		},
	})
}

func userResponse(u *models.User) fiber.Map {
	return fiber.Map{
		"id":           u.ID,
		"username":     u.Username,
		"email":        u.Email,
		"phone_number": u.PhoneNumber,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"about":        u.About,
		"is_active":    u.IsActive,
		"is_teacher":   u.IsTeacher,
		"balance":      u.Balance,
	}
}
