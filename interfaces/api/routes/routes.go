package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"todo-api/domain/ports"
	"todo-api/interfaces/api/handlers"
	"todo-api/interfaces/api/middleware"
)

// Config ค่าที่ route ต้องใช้ตอนประกอบ middleware
type Config struct {
	AppName     string
	JWTSecret   string
	Revocation  ports.TokenRevocationPort // nil = ไม่เช็ค token ที่ logout แล้ว
	LoginMax    int
	LoginWindow time.Duration
}

func SetupRoutes(app *fiber.App, h *handlers.Handlers, cfg Config) {
	SetupHealthRoutes(app, cfg.AppName)

	protected := middleware.Protected(cfg.JWTSecret, cfg.Revocation)

	api := app.Group("/api")
	SetupAuthRoutes(api, h, protected, middleware.LoginRateLimiter(cfg.LoginMax, cfg.LoginWindow))
	SetupTaskRoutes(api, h, protected)

	// WebSocket ไม่อยู่ใต้ /api
	SetupWebSocketRoutes(app, h, middleware.WebSocketAuth(cfg.JWTSecret, cfg.Revocation))
}
