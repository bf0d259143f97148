package ports

import (
	"context"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Task Event Port - แจ้งการเปลี่ยนแปลงของ task ไปยัง consumer อื่น (NATS, WebSocket)
// ═══════════════════════════════════════════════════════════════════════════════

type TaskEventType string

const (
	TaskCreated        TaskEventType = "task.created"
	TaskUpdated        TaskEventType = "task.updated"
	TaskDeleted        TaskEventType = "task.deleted"
	TaskSubtaskChanged TaskEventType = "task.subtask_changed"
	TaskCommentChanged TaskEventType = "task.comment_changed"
)

// TaskEvent - Plain struct (ไม่มี NATS dependency)
type TaskEvent struct {
	Type       TaskEventType `json:"type"`
	TaskID     string        `json:"taskId"`
	UserID     string        `json:"userId"`
	Status     string        `json:"status,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// TaskEventPublisherPort - Interface สำหรับส่ง task events
type TaskEventPublisherPort interface {
	PublishTaskEvent(ctx context.Context, event *TaskEvent) error
}

// TaskEventHandler - Callback function type
type TaskEventHandler func(event *TaskEvent)

// TaskEventSubscriberPort - Interface สำหรับรับ task events
type TaskEventSubscriberPort interface {
	Subscribe(ctx context.Context, handler TaskEventHandler) error
	Unsubscribe() error
}
