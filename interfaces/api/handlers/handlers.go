package handlers

import (
	"time"

	"todo-api/domain/services"
	wsinfra "todo-api/infrastructure/websocket"
	wshandler "todo-api/interfaces/api/websocket"
)

// Services contains all the services needed for handlers
type Services struct {
	UserService  services.UserService
	TaskService  services.TaskService
	WSManager    *wsinfra.WebSocketManager
	JWTExpiry    time.Duration // อายุ cookie ให้เท่ากับ token
	SecureCookie bool          // production = true
}

// Handlers contains all HTTP handlers
type Handlers struct {
	AuthHandler      *AuthHandler
	TaskHandler      *TaskHandler
	WebSocketHandler *wshandler.WebSocketHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		AuthHandler:      NewAuthHandler(services.UserService, services.JWTExpiry, services.SecureCookie),
		TaskHandler:      NewTaskHandler(services.TaskService),
		WebSocketHandler: wshandler.NewWebSocketHandler(services.WSManager),
	}
}
