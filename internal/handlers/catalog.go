package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/academy/internal/middleware"
	"github.com/example/academy/internal/service"
	"github.com/example/academy/internal/utils"
)

const catalogPageSize = 9

// CatalogHandler serves the public course catalog plus comments and bookmarks.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCourses returns active courses, optionally filtered by ?q= on the name.
func (h *CatalogHandler) ListCourses(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c, catalogPageSize)
	search := strings.TrimSpace(c.Query("q"))

	courses, total, err := h.catalog.ListCourses(c.UserContext(), search, pg.Limit, pg.Offset)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       courses,
		"pagination": pg.Meta(total),
	})
}

// GetCourse returns a course with its curriculum and comments.
func (h *CatalogHandler) GetCourse(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.catalog.CourseDetail(c.UserContext(), id)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": detail})
}

// CategoryCourses lists the active courses of a category.
func (h *CatalogHandler) CategoryCourses(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c, catalogPageSize)

	category, courses, total, err := h.catalog.CoursesByCategory(c.UserContext(), c.Params("slug"), pg.Limit, pg.Offset)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"category": category,
			"courses":  courses,
		},
		"pagination": pg.Meta(total),
	})
}

func (h *CatalogHandler) AddComment(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req service.CommentInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.catalog.AddComment(c.UserContext(), userID, req)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": comment})
}

// ToggleBookmark adds the bookmark, or removes it when it already exists.
func (h *CatalogHandler) ToggleBookmark(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	ref, err := parseRef(c)
	if err != nil {
		return err
	}

	bookmarked, err := h.catalog.ToggleBookmark(c.UserContext(), userID, ref)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"bookmarked": bookmarked},
	})
}
