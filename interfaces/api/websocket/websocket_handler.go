package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	wsinfra "todo-api/infrastructure/websocket"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

type WebSocketHandler struct {
	manager *wsinfra.WebSocketManager
}

func NewWebSocketHandler(manager *wsinfra.WebSocketManager) *WebSocketHandler {
	return &WebSocketHandler{manager: manager}
}

// WebSocketUpgrade ต้องอยู่หลัง auth middleware
func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	// locals ของ fiber ถูกส่งต่อให้ websocket.Conn
	c.Locals(utils.LocalsUserKey, user)
	return c.Next()
}

// HandleWebSocket connection เป็นแบบส่งออกอย่างเดียว ข้อความจาก client ถูกทิ้ง
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	user, ok := c.Locals(utils.LocalsUserKey).(*utils.UserContext)
	if !ok || user == nil {
		_ = c.Close()
		return
	}

	h.manager.RegisterClient(c, user.ID)
	defer h.manager.UnregisterClient(c)

	logger.Info("WebSocket connected", "user_id", user.ID)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			logger.Debug("WebSocket read ended", "user_id", user.ID, "error", err)
			return
		}
	}
}
