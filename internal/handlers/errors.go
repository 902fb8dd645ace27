package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/academy/internal/models"
	"github.com/example/academy/internal/service"
)

// mapError turns service errors into HTTP errors. Unknown errors pass
// through and end up as a generic 500 in ErrorHandler.
func mapError(err error) error {
	var (
		verr *service.ValidationError
		cerr *service.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Error())
	case errors.As(err, &cerr):
		return fiber.NewError(fiber.StatusConflict, cerr.Error())
	case errors.Is(err, service.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrInvalidOrExpiredCode):
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired code")
	case errors.Is(err, service.ErrMalformedCode):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrResendCooldown),
		errors.Is(err, service.ErrTooManyRequests):
		return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrEmptyCart):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCheckoutInProgress),
		errors.Is(err, service.ErrOrderNotPending):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}

// ErrorHandler renders every error in the standard envelope and hides the
// details of unexpected ones.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			code = ferr.Code
			message = ferr.Message
		} else {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+param)
	}
	return id, nil
}

// parseRef reads the :kind and :id route params.
func parseRef(c *fiber.Ctx) (models.ContentRef, error) {
	kind, err := models.ParseContentKind(c.Params("kind"))
	if err != nil {
		return models.ContentRef{}, fiber.NewError(fiber.StatusNotFound, "unknown content type")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return models.ContentRef{}, err
	}
	return models.ContentRef{Kind: kind, ID: id}, nil
}
