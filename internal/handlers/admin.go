package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/academy/internal/service"
)

// AdminHandler handles admin dashboard operations.
type AdminHandler struct {
	admin    *service.AdminService
	checkout *service.CheckoutService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(admin *service.AdminService, checkout *service.CheckoutService) *AdminHandler {
	return &AdminHandler{admin: admin, checkout: checkout}
}

// DashboardStats returns user, order and revenue totals.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext())
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": stats})
}

type topUpRequest struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

// TopUp credits a user's balance.
func (h *AdminHandler) TopUp(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req topUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Note == "" {
		req.Note = "admin top-up"
	}

	user, err := h.checkout.TopUp(c.UserContext(), userID, req.Amount, req.Note)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": userResponse(user)})
}
