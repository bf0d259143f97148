package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

// SecurityHeaders ตั้ง security headers มาตรฐาน
func SecurityHeaders() fiber.Handler {
	return helmet.New()
}

// Recover จับ panic แล้วตอบ 500
func Recover() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.ErrorContext(c.UserContext(), "Panic recovered", "path", c.Path(), "panic", e)
		},
	})
}

// LoginRateLimiter จำกัดจำนวน login ต่อ IP ในช่วงเวลา window
func LoginRateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			logger.WarnContext(c.UserContext(), "Login rate limit reached", "ip", c.IP())
			return utils.TooManyRequestsResponse(c, "Too many login attempts, please try again later")
		},
	})
}
