package messaging

import (
	"context"
	"sync"

	"todo-api/domain/ports"
	"todo-api/pkg/logger"
)

// LocalTaskEventBus ส่ง task event ภายใน process เดียว ใช้เมื่อไม่ได้ตั้งค่า NATS
// implements ทั้ง TaskEventPublisherPort และ TaskEventSubscriberPort
type LocalTaskEventBus struct {
	mu       sync.RWMutex
	handlers []ports.TaskEventHandler
}

func NewLocalTaskEventBus() *LocalTaskEventBus {
	return &LocalTaskEventBus{}
}

func (b *LocalTaskEventBus) PublishTaskEvent(ctx context.Context, event *ports.TaskEvent) error {
	if event == nil {
		return nil
	}

	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	for _, handler := range handlers {
		func(h ports.TaskEventHandler) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Task event handler panicked", "error", r)
				}
			}()
			e := *event
			h(&e)
		}(handler)
	}
	return nil
}

func (b *LocalTaskEventBus) Subscribe(ctx context.Context, handler ports.TaskEventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
	return nil
}

func (b *LocalTaskEventBus) Unsubscribe() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = nil
	return nil
}
