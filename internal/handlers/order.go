package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/academy/internal/middleware"
	"github.com/example/academy/internal/service"
)

// OrderHandler handles the cart, checkout and order payment.
type OrderHandler struct {
	cart     *service.CartService
	checkout *service.CheckoutService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(cart *service.CartService, checkout *service.CheckoutService) *OrderHandler {
	return &OrderHandler{cart: cart, checkout: checkout}
}

// GetCart returns the current cart with its total.
func (h *OrderHandler) GetCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	snapshot, err := h.cart.Snapshot(c.UserContext(), userID)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": snapshot})
}

// AddToCart adds content to the cart. Adding it twice is not an error.
func (h *OrderHandler) AddToCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	ref, err := parseRef(c)
	if err != nil {
		return err
	}

	item, added, err := h.cart.Add(c.UserContext(), userID, ref)
	if err != nil {
		return mapError(err)
	}

	status := fiber.StatusOK
	if added {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"item":  item,
			"added": added,
		},
	})
}

func (h *OrderHandler) RemoveFromCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	ref, err := parseRef(c)
	if err != nil {
		return err
	}

	if err := h.cart.Remove(c.UserContext(), userID, ref); err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// Checkout places an order for the cart and pays it from the balance when
// possible.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	result, err := h.checkout.Checkout(c.UserContext(), userID)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": result})
}

// PayOrder retries the balance payment of a pending order.
func (h *OrderHandler) PayOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.checkout.PayOrder(c.UserContext(), userID, orderID)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": result})
}
