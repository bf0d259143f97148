package nats

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Publisher publishes task events via core NATS Pub/Sub
type Publisher struct {
	conn   *nats.Conn
	prefix string
}

// NewPublisher สร้าง Publisher ใหม่
func NewPublisher(conn *nats.Conn, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultTaskSubject
	}
	return &Publisher{
		conn:   conn,
		prefix: prefix,
	}
}

// PublishTaskEvent ส่ง event ไปที่ {prefix}.{user_id}
func (p *Publisher) PublishTaskEvent(msg *TaskEventMessage) error {
	if msg.UserID == "" {
		return fmt.Errorf("user_id is required")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal task event: %w", err)
	}

	return p.conn.Publish(TaskSubject(p.prefix, msg.UserID), data)
}
