package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title string `json:"title" validate:"required,notblank,max=200"`
}

// UpdateTaskRequest ค่าว่าง = ไม่เปลี่ยน
type UpdateTaskRequest struct {
	Title  string `json:"title" validate:"omitempty,notblank,max=200"`
	Status string `json:"status" validate:"omitempty,oneof=pending completed"`
}

type CreateSubtaskRequest struct {
	Title string `json:"title" validate:"required,notblank,max=200"`
}

type UpdateSubtaskRequest struct {
	Title  string `json:"title" validate:"omitempty,notblank,max=200"`
	Status string `json:"status" validate:"omitempty,oneof=pending completed"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,notblank,max=2000"`
}

type SubtaskResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CommentResponse struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

type TaskResponse struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Status    string            `json:"status"`
	UserID    uuid.UUID         `json:"userId"`
	Subtasks  []SubtaskResponse `json:"subtasks"`
	Comments  []CommentResponse `json:"comments"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
