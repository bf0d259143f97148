package services

import "errors"

var (
	ErrEmailExists        = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	ErrTaskNotFound    = errors.New("task not found")
	ErrSubtaskNotFound = errors.New("subtask not found")
	ErrCommentNotFound = errors.New("comment not found")

	// ErrPendingSubtasks ตั้ง task เป็น completed ไม่ได้ถ้ายังมี subtask pending
	ErrPendingSubtasks = errors.New("all subtasks must be completed before completing the task")
	// ErrCommentExists task มี comment ได้แค่ 1 อัน
	ErrCommentExists = errors.New("task already has a comment")
)
