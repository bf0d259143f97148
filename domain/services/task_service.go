package services

import (
	"context"

	"github.com/google/uuid"
	"todo-api/domain/dto"
	"todo-api/domain/models"
)

// TaskService ทุก method ตรวจความเป็นเจ้าของด้วย userID
// task ของคนอื่นจะได้ ErrTaskNotFound เสมอ
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error)
	GetUserTasks(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	AddSubtask(ctx context.Context, userID, taskID uuid.UUID, req *dto.CreateSubtaskRequest) (*models.Task, error)
	UpdateSubtask(ctx context.Context, userID, taskID, subtaskID uuid.UUID, req *dto.UpdateSubtaskRequest) (*models.Task, error)
	DeleteSubtask(ctx context.Context, userID, taskID, subtaskID uuid.UUID) (*models.Task, error)

	AddComment(ctx context.Context, userID, taskID uuid.UUID, req *dto.CommentRequest) (*models.Task, error)
	UpdateComment(ctx context.Context, userID, taskID, commentID uuid.UUID, req *dto.CommentRequest) (*models.Task, error)
	DeleteComment(ctx context.Context, userID, taskID, commentID uuid.UUID) (*models.Task, error)
}
