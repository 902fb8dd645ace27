package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/academy/internal/cache"
)

type otpTarget struct {
	PhoneNumber string `json:"phone_number"`
	Identifier  string `json:"identifier"`
}

// OTPRateLimit lets one code-sending request per target through each
// window. The target is the phone number or identifier in the body, or the
// client IP when neither is present. Requests that end without a 2xx
// response give the window back. Limiter failures let the request pass.
func OTPRateLimit(limiter cache.Limiter, window time.Duration, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body otpTarget
		_ = c.BodyParser(&body)

		target := body.PhoneNumber
		if target == "" {
			target = body.Identifier
		}
		if target == "" {
			target = c.IP()
		}
		key := "otp:send:" + target

		allowed, err := limiter.Allow(c.UserContext(), key, window)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			return c.Next()
		}
		if !allowed {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many requests, try again later")
		}

		err = c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusMultipleChoices {
			if rerr := limiter.Release(c.UserContext(), key); rerr != nil {
				log.Warn("rate limiter release failed", zap.String("key", key), zap.Error(rerr))
			}
		}
		return err
	}
}
