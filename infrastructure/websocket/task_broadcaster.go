package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"todo-api/domain/ports"
	"todo-api/pkg/logger"
)

// TaskBroadcaster รับ task event จาก messaging แล้วส่งต่อให้ connection ของเจ้าของ task
type TaskBroadcaster struct {
	events    ports.TaskEventSubscriberPort
	manager   *WebSocketManager
	running   bool
	runningMu sync.Mutex
}

func NewTaskBroadcaster(events ports.TaskEventSubscriberPort, manager *WebSocketManager) *TaskBroadcaster {
	return &TaskBroadcaster{
		events:  events,
		manager: manager,
	}
}

// Start เริ่ม broadcaster
func (b *TaskBroadcaster) Start(ctx context.Context) error {
	b.runningMu.Lock()
	defer b.runningMu.Unlock()
	if b.running {
		return nil
	}

	if err := b.events.Subscribe(ctx, b.handleTaskEvent); err != nil {
		return err
	}
	b.running = true

	logger.Info("Task broadcaster started")
	return nil
}

func (b *TaskBroadcaster) handleTaskEvent(event *ports.TaskEvent) {
	if event == nil {
		return
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		logger.Warn("Task event with invalid user_id", "user_id", event.UserID)
		return
	}
	// ไม่มีใครเปิด connection อยู่ ไม่ต้องส่ง
	if b.manager.GetUserConnections(userID) == 0 {
		return
	}

	b.manager.BroadcastToUser(userID, string(event.Type), event)
}

// Stop หยุด broadcaster
func (b *TaskBroadcaster) Stop() error {
	b.runningMu.Lock()
	defer b.runningMu.Unlock()
	if !b.running {
		return nil
	}
	b.running = false

	logger.Info("Task broadcaster stopped")
	return b.events.Unsubscribe()
}
