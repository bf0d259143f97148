package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"todo-api/pkg/logger"
)

const (
	// ข้อความค้างต่อ connection ได้เท่านี้ เกินแล้วตัด connection ทิ้ง
	clientSendBuffer = 16
	broadcastBuffer  = 64
	writeWait        = 10 * time.Second
)

// Conn ส่วนของ *websocket.Conn ที่ manager ใช้
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// writeDeadliner *websocket.Conn มี method นี้ fake ใน test อาจไม่มี
type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	conn   Conn
	userID uuid.UUID
	send   chan Message
}

type userMessage struct {
	userID  uuid.UUID
	message Message
}

// WebSocketManager hub ของ connection ทั้งหมด จัดกลุ่มตาม user
// user หนึ่งเปิดได้หลาย connection (หลาย tab)
// แต่ละ connection มี goroutine เขียนของตัวเอง hub ไม่เคยรอ client ที่ช้า
type WebSocketManager struct {
	clients    map[Conn]*client
	users      map[uuid.UUID]map[Conn]*client
	register   chan *client
	unregister chan Conn
	broadcast  chan userMessage
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[Conn]*client),
		users:      make(map[uuid.UUID]map[Conn]*client),
		register:   make(chan *client),
		unregister: make(chan Conn),
		broadcast:  make(chan userMessage, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Run loop หลักของ hub จนกว่า ctx จะถูก cancel
func (m *WebSocketManager) Run(ctx context.Context) {
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return

		case c := <-m.register:
			m.mutex.Lock()
			m.clients[c.conn] = c
			if m.users[c.userID] == nil {
				m.users[c.userID] = make(map[Conn]*client)
			}
			m.users[c.userID][c.conn] = c
			m.mutex.Unlock()

			go m.writePump(c)
			logger.Debug("WebSocket client connected", "user_id", c.userID)

		case conn := <-m.unregister:
			m.remove(conn)

		case msg := <-m.broadcast:
			m.mutex.RLock()
			targets := make([]*client, 0, len(m.users[msg.userID]))
			for _, c := range m.users[msg.userID] {
				targets = append(targets, c)
			}
			m.mutex.RUnlock()

			for _, c := range targets {
				select {
				case c.send <- msg.message:
				default:
					logger.Warn("WebSocket client too slow, disconnecting", "user_id", msg.userID)
					m.remove(c.conn)
				}
			}
		}
	}
}

// writePump เขียนข้อความของ client เดียวจนกว่า send จะถูกปิด
func (m *WebSocketManager) writePump(c *client) {
	for msg := range c.send {
		if d, ok := c.conn.(writeDeadliner); ok {
			_ = d.SetWriteDeadline(time.Now().Add(writeWait))
		}
		if err := c.conn.WriteJSON(msg); err != nil {
			logger.Warn("WebSocket write failed", "user_id", c.userID, "error", err)
			m.UnregisterClient(c.conn)
			// ทิ้งที่เหลือจนกว่า hub จะปิด channel
			for range c.send {
			}
			return
		}
	}
}

func (m *WebSocketManager) remove(conn Conn) {
	m.mutex.Lock()
	c, ok := m.clients[conn]
	if ok {
		delete(m.clients, conn)
		delete(m.users[c.userID], conn)
		if len(m.users[c.userID]) == 0 {
			delete(m.users, c.userID)
		}
		close(c.send)
	}
	m.mutex.Unlock()

	if ok {
		_ = conn.Close()
		logger.Debug("WebSocket client disconnected", "user_id", c.userID)
	}
}

func (m *WebSocketManager) closeAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for conn, c := range m.clients {
		close(c.send)
		_ = conn.Close()
	}
	m.clients = make(map[Conn]*client)
	m.users = make(map[uuid.UUID]map[Conn]*client)
}

func (m *WebSocketManager) RegisterClient(conn Conn, userID uuid.UUID) {
	c := &client{conn: conn, userID: userID, send: make(chan Message, clientSendBuffer)}
	select {
	case m.register <- c:
	case <-m.done:
		_ = conn.Close()
	}
}

func (m *WebSocketManager) UnregisterClient(conn Conn) {
	select {
	case m.unregister <- conn:
	case <-m.done:
	}
}

// BroadcastToUser ไม่ block ถ้าคิวของ hub เต็มข้อความจะถูกทิ้ง
func (m *WebSocketManager) BroadcastToUser(userID uuid.UUID, messageType string, data interface{}) {
	select {
	case m.broadcast <- userMessage{userID: userID, message: Message{Type: messageType, Data: data}}:
	case <-m.done:
	default:
		logger.Warn("WebSocket broadcast queue full, message dropped", "user_id", userID, "type", messageType)
	}
}

func (m *WebSocketManager) GetUserConnections(userID uuid.UUID) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.users[userID])
}

func (m *WebSocketManager) GetTotalConnections() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}
