package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// RateLimit creates a per-user rate limiter keyed by identifier. Anonymous callers are keyed by IP.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, ok := c.Locals("user_id").(uint); ok && userID > 0 {
				return fmt.Sprintf("%s:%d", identifier, userID)
			}
			return fmt.Sprintf("%s:%s", identifier, c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.NewAPIError(fiber.StatusTooManyRequests, "too many requests")
		},
	})
}
