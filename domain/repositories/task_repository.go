package repositories

import (
	"context"

	"github.com/google/uuid"
	"todo-api/domain/models"
)

// TaskRepository เก็บ task เป็น aggregate (task + subtasks + comments)
//
// Method ที่แก้ subtask ต้องคำนวณ status ใหม่จาก subtask ที่บันทึกอยู่จริง
// ใน transaction เดียวกับการแก้ subtask แล้วเขียนค่าที่ได้กลับไปที่ task.Status
// (task ที่ส่งมาอาจเป็น snapshot เก่า)
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	// GetForUser คืน ErrNotFound ถ้าไม่มี task หรือ userID ไม่ใช่เจ้าของ
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Task, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	// Update คืน ErrPendingSubtasks ถ้า task.Status เป็น completed แต่ยังมี subtask pending
	Update(ctx context.Context, task *models.Task) error
	// DeleteForUser คืน ErrNotFound ถ้าไม่มีอะไรถูกลบ
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) error

	AddSubtask(ctx context.Context, task *models.Task, subtask *models.Subtask) error
	UpdateSubtask(ctx context.Context, task *models.Task, subtask *models.Subtask) error
	DeleteSubtask(ctx context.Context, task *models.Task, subtaskID uuid.UUID) error

	AddComment(ctx context.Context, task *models.Task, comment *models.Comment) error
	UpdateComment(ctx context.Context, task *models.Task, comment *models.Comment) error
	DeleteComment(ctx context.Context, task *models.Task, commentID uuid.UUID) error
}
