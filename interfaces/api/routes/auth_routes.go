package routes

import (
	"github.com/gofiber/fiber/v2"

	"todo-api/interfaces/api/handlers"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers, protected, loginLimiter fiber.Handler) {
	auth := api.Group("/auth")

	auth.Post("/register", h.AuthHandler.Register)
	auth.Post("/login", loginLimiter, h.AuthHandler.Login)
	auth.Post("/logout", h.AuthHandler.Logout)

	auth.Get("/me", protected, h.AuthHandler.Me)
}
