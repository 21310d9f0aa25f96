package health

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// GET /health-check, basit liveness
func Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
