package messaging

import (
	"context"
	"time"

	"todo-api/domain/ports"
	natspkg "todo-api/infrastructure/nats"
	"todo-api/pkg/logger"
)

// NATSTaskEventSubscriber implements TaskEventSubscriberPort using NATS Pub/Sub
type NATSTaskEventSubscriber struct {
	subscriber *natspkg.Subscriber
}

// NewNATSTaskEventSubscriber สร้าง TaskEventSubscriberPort adapter สำหรับ NATS
func NewNATSTaskEventSubscriber(subscriber *natspkg.Subscriber) ports.TaskEventSubscriberPort {
	return &NATSTaskEventSubscriber{
		subscriber: subscriber,
	}
}

// Subscribe เริ่ม listen task events
func (s *NATSTaskEventSubscriber) Subscribe(ctx context.Context, handler ports.TaskEventHandler) error {
	s.subscriber.OnTaskEvent(func(msg *natspkg.TaskEventMessage) {
		event := fromNATSMessage(msg)
		if event == nil {
			return
		}
		handler(event)
	})

	if !s.subscriber.IsRunning() {
		return s.subscriber.Start()
	}
	return nil
}

// Unsubscribe หยุด listen
func (s *NATSTaskEventSubscriber) Unsubscribe() error {
	return s.subscriber.Stop()
}

// fromNATSMessage คืน nil ถ้าข้อมูลไม่ครบ
func fromNATSMessage(msg *natspkg.TaskEventMessage) *ports.TaskEvent {
	if msg == nil {
		logger.Warn("Received nil task event from NATS")
		return nil
	}
	if msg.UserID == "" || msg.TaskID == "" {
		logger.Warn("Received task event with empty user_id or task_id", "type", msg.Type)
		return nil
	}

	return &ports.TaskEvent{
		Type:       ports.TaskEventType(msg.Type),
		TaskID:     msg.TaskID,
		UserID:     msg.UserID,
		Status:     msg.Status,
		OccurredAt: time.UnixMilli(msg.OccurredAt).UTC(),
	}
}
