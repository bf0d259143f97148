package nats

import "strings"

// DefaultTaskSubject prefix ของ subject สำหรับ task events
// subject จริงคือ {prefix}.{user_id}
const DefaultTaskSubject = "tasks.events"

// ═══════════════════════════════════════════════════════════════════════════════
// TaskEventMessage - API → API instances (via Pub/Sub)
// ⚠️ โครงสร้างนี้ต้องตรงกันทุก instance
// ═══════════════════════════════════════════════════════════════════════════════
type TaskEventMessage struct {
	Type       string `json:"type"`        // task.created, task.updated, ...
	TaskID     string `json:"task_id"`
	UserID     string `json:"user_id"`
	Status     string `json:"status"`      // pending, completed
	OccurredAt int64  `json:"occurred_at"` // unix millis
}

// TaskSubject subject ของ user คนหนึ่ง
func TaskSubject(prefix, userID string) string {
	return strings.TrimSuffix(prefix, ".") + "." + userID
}

// TaskWildcard subject ที่ match ทุก user
func TaskWildcard(prefix string) string {
	return strings.TrimSuffix(prefix, ".") + ".*"
}
