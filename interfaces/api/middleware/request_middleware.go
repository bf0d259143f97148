package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"todo-api/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware ใช้ X-Request-ID ของ client ถ้ามี ไม่มีก็สร้างใหม่
// แล้วใส่ไว้ใน user context ให้ logger.*Context ใช้
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDHeader, requestID)
		c.SetUserContext(logger.ContextWithRequestID(c.UserContext(), requestID))

		return c.Next()
	}
}

// LoggerMiddleware log หนึ่งบรรทัดต่อ request หลังตอบเสร็จ
// skipPaths ไม่ต้อง log (เช่น /health)
func LoggerMiddleware(skipPaths ...string) fiber.Handler {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := skip[c.Path()]; ok {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		if err != nil {
			// ให้ ErrorHandler เขียน response ก่อน จะได้ status ที่ถูก
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		logFunc := logger.InfoContext
		switch {
		case status >= 500:
			logFunc = logger.ErrorContext
		case status >= 400:
			logFunc = logger.WarnContext
		}

		// user context ถูกแทนโดย Protected ถ้าผ่าน auth จึงมี user_id ด้วย
		logFunc(c.UserContext(), "Request completed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
			"ip", c.IP(),
		)

		return nil
	}
}
