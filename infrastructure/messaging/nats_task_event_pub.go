package messaging

import (
	"context"
	"fmt"

	"todo-api/domain/ports"
	natspkg "todo-api/infrastructure/nats"
)

// NATSTaskEventPublisher implements TaskEventPublisherPort using NATS Pub/Sub
type NATSTaskEventPublisher struct {
	publisher *natspkg.Publisher
}

// NewNATSTaskEventPublisher สร้าง TaskEventPublisherPort adapter สำหรับ NATS
func NewNATSTaskEventPublisher(publisher *natspkg.Publisher) ports.TaskEventPublisherPort {
	return &NATSTaskEventPublisher{
		publisher: publisher,
	}
}

// PublishTaskEvent ส่ง task event ผ่าน NATS Pub/Sub
func (p *NATSTaskEventPublisher) PublishTaskEvent(ctx context.Context, event *ports.TaskEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.UserID == "" {
		return fmt.Errorf("user_id is required")
	}

	return p.publisher.PublishTaskEvent(toNATSMessage(event))
}

func toNATSMessage(event *ports.TaskEvent) *natspkg.TaskEventMessage {
	return &natspkg.TaskEventMessage{
		Type:       string(event.Type),
		TaskID:     event.TaskID,
		UserID:     event.UserID,
		Status:     event.Status,
		OccurredAt: event.OccurredAt.UnixMilli(),
	}
}
