package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"todo-api/interfaces/api/handlers"
)

func SetupWebSocketRoutes(app *fiber.App, h *handlers.Handlers, wsAuth fiber.Handler) {
	app.Use("/ws", wsAuth, h.WebSocketHandler.WebSocketUpgrade)
	app.Get("/ws", websocket.New(h.WebSocketHandler.HandleWebSocket))
}
