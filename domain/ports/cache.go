package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"todo-api/domain/models"
)

// TaskCachePort cache รายการ task ต่อ user (GET /tasks)
//
// Get คืน (nil, false, nil) เมื่อ cache miss
// ผู้อ่านต้องอ่าน TaskListGeneration ก่อนโหลดจาก DB แล้วส่งค่านั้นให้ SetTaskList
// ถ้ามีการ invalidate ระหว่างนั้น SetTaskList จะไม่เขียนรายการเก่าทับ
type TaskCachePort interface {
	GetTaskList(ctx context.Context, userID uuid.UUID) ([]*models.Task, bool, error)
	TaskListGeneration(ctx context.Context, userID uuid.UUID) (int64, error)
	SetTaskList(ctx context.Context, userID uuid.UUID, generation int64, tasks []*models.Task) error
	InvalidateTaskList(ctx context.Context, userID uuid.UUID) error
}

// TokenRevocationPort เก็บ token ที่ logout แล้วจนกว่าจะหมดอายุ
type TokenRevocationPort interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
