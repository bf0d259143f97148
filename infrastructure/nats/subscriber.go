package nats

import (
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"

	"todo-api/pkg/logger"
)

// TaskEventHandler callback function เมื่อได้รับ task event
type TaskEventHandler func(msg *TaskEventMessage)

// Subscriber NATS Pub/Sub subscriber สำหรับ task events
type Subscriber struct {
	conn       *nats.Conn
	prefix     string
	sub        *nats.Subscription
	handlers   []TaskEventHandler
	handlersMu sync.RWMutex
	running    bool
	runningMu  sync.Mutex
}

// NewSubscriber สร้าง NATS Subscriber ใหม่
func NewSubscriber(conn *nats.Conn, prefix string) *Subscriber {
	if prefix == "" {
		prefix = DefaultTaskSubject
	}
	return &Subscriber{
		conn:     conn,
		prefix:   prefix,
		handlers: make([]TaskEventHandler, 0),
	}
}

// OnTaskEvent ลงทะเบียน handler
func (s *Subscriber) OnTaskEvent(handler TaskEventHandler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// Start เริ่ม subscribe {prefix}.*
func (s *Subscriber) Start() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return nil
	}

	subject := TaskWildcard(s.prefix)
	sub, err := s.conn.Subscribe(subject, s.handleMessage)
	if err != nil {
		return err
	}
	s.sub = sub
	s.running = true

	logger.Info("NATS subscriber started", "subject", subject)
	return nil
}

// handleMessage จัดการ message ที่ได้รับ
func (s *Subscriber) handleMessage(msg *nats.Msg) {
	var event TaskEventMessage
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to parse task event", "subject", msg.Subject, "error", err)
		return
	}

	s.handlersMu.RLock()
	handlers := s.handlers
	s.handlersMu.RUnlock()

	for _, handler := range handlers {
		// รันตามลำดับเพื่อรักษาลำดับของ event
		func(h TaskEventHandler, e TaskEventMessage) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Task event handler panicked", "error", r)
				}
			}()
			h(&e)
		}(handler, event)
	}

	logger.Debug("Task event received from NATS",
		"type", event.Type,
		"task_id", event.TaskID,
		"handlers_count", len(handlers),
	)
}

// Stop หยุด subscriber
func (s *Subscriber) Stop() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe", "error", err)
		}
		s.sub = nil
	}

	logger.Info("NATS subscriber stopped")
	return nil
}

// IsRunning ตรวจสอบว่า subscriber กำลังทำงานอยู่หรือไม่
func (s *Subscriber) IsRunning() bool {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	return s.running
}
