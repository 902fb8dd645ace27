package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/academy/internal/middleware"
	"github.com/example/academy/internal/service"
	"github.com/example/academy/internal/utils"
)

const dashboardPageSize = 9

// DashboardHandler serves the signed-in user's own area: profile, authored
// courses, bookmarks, orders and wallet.
type DashboardHandler struct {
	auth      *service.AuthService
	dashboard *service.DashboardService
}

func NewDashboardHandler(auth *service.AuthService, dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{auth: auth, dashboard: dashboard}
}

// GetProfile returns the authenticated user's profile.
func (h *DashboardHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.auth.Profile(c.UserContext(), userID)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": userResponse(user)})
}

// UpdateProfile updates the authenticated user's profile.
func (h *DashboardHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req service.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.auth.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": userResponse(user)})
}

// MyCourses lists the courses the user teaches. ?published=false selects
// drafts.
func (h *DashboardHandler) MyCourses(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c, dashboardPageSize)
	published := c.QueryBool("published", true)

	courses, total, err := h.dashboard.MyCourses(c.UserContext(), userID, published, pg.Limit, pg.Offset)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       courses,
		"pagination": pg.Meta(total),
	})
}

func (h *DashboardHandler) CreateCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req service.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.dashboard.CreateCourse(c.UserContext(), userID, req)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": course})
}

func (h *DashboardHandler) UpdateCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	courseID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.dashboard.UpdateCourse(c.UserContext(), userID, courseID, req)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": course})
}

func (h *DashboardHandler) DeleteCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	courseID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.dashboard.DeleteCourse(c.UserContext(), userID, courseID); err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// AddSection appends a section to one of the user's courses.
func (h *DashboardHandler) AddSection(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	courseID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.SectionInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	section, err := h.dashboard.AddSection(c.UserContext(), userID, courseID, req)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": section})
}

func (h *DashboardHandler) AddLesson(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	sectionID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.LessonInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	lesson, err := h.dashboard.AddLesson(c.UserContext(), userID, sectionID, req)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": lesson})
}

func (h *DashboardHandler) MyBookmarks(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c, dashboardPageSize)
	courses, total, err := h.dashboard.MyBookmarks(c.UserContext(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       courses,
		"pagination": pg.Meta(total),
	})
}

// MyOrders lists the user's orders, newest first.
func (h *DashboardHandler) MyOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c, 20)
	orders, total, err := h.dashboard.MyOrders(c.UserContext(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       orders,
		"pagination": pg.Meta(total),
	})
}

// MyWallet returns the balance ledger.
func (h *DashboardHandler) MyWallet(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.auth.Profile(c.UserContext(), userID)
	if err != nil {
		return mapError(err)
	}
	entries, err := h.dashboard.MyWallet(c.UserContext(), userID)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"balance":      user.Balance,
			"transactions": entries,
		},
	})
}
