package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"itops-backend/internal/logs"
)

// Logger her isteği request id, durum kodu ve süresiyle loglar.
func Logger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}

		reqid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		logs.Logger.Infof("reqid=%s method=%s uri=%s status=%d dur=%s ip=%s",
			reqid, c.Method(), c.OriginalURL(), status, time.Since(start), c.IP())
		return err
	}
}
