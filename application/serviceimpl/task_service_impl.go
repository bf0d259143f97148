package serviceimpl

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-api/domain/dto"
	"todo-api/domain/models"
	"todo-api/domain/ports"
	"todo-api/domain/repositories"
	"todo-api/domain/services"
	"todo-api/pkg/logger"
)

type TaskServiceImpl struct {
	taskRepo repositories.TaskRepository
	cache    ports.TaskCachePort          // optional
	events   ports.TaskEventPublisherPort // optional
}

func NewTaskService(taskRepo repositories.TaskRepository, events ports.TaskEventPublisherPort) services.TaskService {
	return &TaskServiceImpl{
		taskRepo: taskRepo,
		events:   events,
	}
}

// NewTaskServiceWithCache cache รายการ task ต่อ user และ invalidate ทุกครั้งที่มีการแก้ไข
func NewTaskServiceWithCache(taskRepo repositories.TaskRepository, cache ports.TaskCachePort, events ports.TaskEventPublisherPort) services.TaskService {
	return &TaskServiceImpl{
		taskRepo: taskRepo,
		cache:    cache,
		events:   events,
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	now := time.Now()
	task := &models.Task{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(req.Title),
		Status:    models.StatusPending,
		UserID:    userID,
		Subtasks:  []models.Subtask{},
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to create task", "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Task created successfully", "task_id", task.ID)
	s.afterMutation(ctx, task, ports.TaskCreated)

	return task, nil
}

func (s *TaskServiceImpl) GetUserTasks(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	cacheable := false
	var generation int64
	if s.cache != nil {
		tasks, ok, err := s.cache.GetTaskList(ctx, userID)
		if err != nil {
			logger.WarnContext(ctx, "Task list cache read failed", "error", err)
		} else if ok {
			return tasks, nil
		}

		// อ่าน generation ก่อนโหลดจาก DB
		generation, err = s.cache.TaskListGeneration(ctx, userID)
		if err != nil {
			logger.WarnContext(ctx, "Task list cache generation read failed", "error", err)
		} else {
			cacheable = true
		}
	}

	tasks, err := s.taskRepo.ListByUserID(ctx, userID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to get user tasks", "error", err)
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetTaskList(ctx, userID, generation, tasks); err != nil {
			logger.WarnContext(ctx, "Task list cache write failed", "error", err)
		}
	}

	return tasks, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.loadTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		task.Title = title
	}
	if req.Status != "" {
		status := models.TaskStatus(req.Status)
		if status == models.StatusCompleted && !models.CanComplete(task.Subtasks) {
			logger.WarnContext(ctx, "Task completion rejected - pending subtasks", "task_id", taskID)
			return nil, services.ErrPendingSubtasks
		}
		task.Status = status
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		// subtask ถูกเพิ่มหลังจากที่โหลด task มา
		if errors.Is(err, repositories.ErrPendingSubtasks) {
			logger.WarnContext(ctx, "Task completion rejected - pending subtasks", "task_id", taskID)
			return nil, services.ErrPendingSubtasks
		}
		logger.ErrorContext(ctx, "Failed to update task", "task_id", taskID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Task updated successfully", "task_id", taskID, "status", task.Status)
	s.afterMutation(ctx, task, ports.TaskUpdated)

	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if err := s.taskRepo.DeleteForUser(ctx, taskID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.WarnContext(ctx, "Task not found for deletion", "task_id", taskID)
			return services.ErrTaskNotFound
		}
		logger.ErrorContext(ctx, "Failed to delete task", "task_id", taskID, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Task deleted successfully", "task_id", taskID)
	s.afterMutation(ctx, &models.Task{ID: taskID, UserID: userID}, ports.TaskDeleted)
	return nil
}

func (s *TaskServiceImpl) AddSubtask(ctx context.Context, userID, taskID uuid.UUID, req *dto.CreateSubtaskRequest) (*models.Task, error) {
	task, err := s.loadTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	subtask := models.Subtask{
		ID:        uuid.New(),
		TaskID:    task.ID,
		Title:     strings.TrimSpace(req.Title),
		Status:    models.StatusPending,
		Position:  task.NextPosition(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	task.Subtasks = append(task.Subtasks, subtask)
	// subtask ใหม่เป็น pending เสมอ
	task.Reconcile()
	task.UpdatedAt = now

	if err := s.taskRepo.AddSubtask(ctx, task, &subtask); err != nil {
		logger.ErrorContext(ctx, "Failed to add subtask", "task_id", taskID, "error", err)
		return nil, err
	}

	task = s.reload(ctx, task)
	logger.InfoContext(ctx, "Subtask added", "task_id", taskID, "subtask_id", subtask.ID)
	s.afterMutation(ctx, task, ports.TaskSubtaskChanged)

	return task, nil
}

func (s *TaskServiceImpl) UpdateSubtask(ctx context.Context, userID, taskID, subtaskID uuid.UUID, req *dto.UpdateSubtaskRequest) (*models.Task, error) {
	task, err := s.loadTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	subtask, _ := task.FindSubtask(subtaskID)
	if subtask == nil {
		logger.WarnContext(ctx, "Subtask not found", "task_id", taskID, "subtask_id", subtaskID)
		return nil, services.ErrSubtaskNotFound
	}

	now := time.Now()
	if title := strings.TrimSpace(req.Title); title != "" {
		subtask.Title = title
	}
	if req.Status != "" {
		subtask.Status = models.TaskStatus(req.Status)
	}
	subtask.UpdatedAt = now

	previous := task.Status
	task.Reconcile()
	task.UpdatedAt = now

	if err := s.taskRepo.UpdateSubtask(ctx, task, subtask); err != nil {
		logger.ErrorContext(ctx, "Failed to update subtask", "task_id", taskID, "subtask_id", subtaskID, "error", err)
		return nil, err
	}

	task = s.reload(ctx, task)
	logger.InfoContext(ctx, "Subtask updated",
		"task_id", taskID,
		"subtask_id", subtaskID,
		"task_status_from", previous,
		"task_status_to", task.Status,
	)
	s.afterMutation(ctx, task, ports.TaskSubtaskChanged)

	return task, nil
}

func (s *TaskServiceImpl) DeleteSubtask(ctx context.Context, userID, taskID, subtaskID uuid.UUID) (*models.Task, error) {
	task, err := s.loadTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	_, idx := task.FindSubtask(subtaskID)
	if idx < 0 {
		logger.WarnContext(ctx, "Subtask not found for deletion", "task_id", taskID, "subtask_id", subtaskID)
		return nil, services.ErrSubtaskNotFound
	}

	task.Subtasks = append(task.Subtasks[:idx], task.Subtasks[idx+1:]...)
	task.Reconcile()
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.DeleteSubtask(ctx, task, subtaskID); err != nil {
		logger.ErrorContext(ctx, "Failed to delete subtask", "task_id", taskID, "subtask_id", subtaskID, "error", err)
		return nil, err
	}

	task = s.reload(ctx, task)
	logger.InfoContext(ctx, "Subtask deleted", "task_id", taskID, "subtask_id", subtaskID, "task_status", task.Status)
	s.afterMutation(ctx, task, ports.TaskSubtaskChanged)

	return task, nil
}

func (s *TaskServiceImpl) AddComment(ctx context.Context, userID, taskID uuid.UUID, req *dto.CommentRequest) (*models.Task, error) {
	task, err := s.loadTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if len(task.Comments) > 0 {
		logger.WarnContext(ctx, "Comment rejected - task already has one", "task_id", taskID)
		return nil, services.ErrCommentExists
	}

	comment := models.Comment{
		ID:        uuid.New(),
		TaskID:    task.ID,
		Text:      strings.TrimSpace(req.Text),
		CreatedAt: time.Now(),
	}
	task.Comments = append(task.Comments, comment)

	if err := s.taskRepo.AddComment(ctx, task, &comment); err != nil {
		logger.ErrorContext(ctx, "Failed to add comment", "task_id", taskID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Comment added", "task_id", taskID, "comment_id", comment.ID)
	s.afterMutation(ctx, task, ports.TaskCommentChanged)

	return task, nil
}

func (s *TaskServiceImpl) UpdateComment(ctx context.Context, userID, taskID, commentID uuid.UUID, req *dto.CommentRequest) (*models.Task, error) {
	task, err := s.loadTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	comment, _ := task.FindComment(commentID)
	if comment == nil {
		logger.WarnContext(ctx, "Comment not found", "task_id", taskID, "comment_id", commentID)
		return nil, services.ErrCommentNotFound
	}
	comment.Text = strings.TrimSpace(req.Text)

	if err := s.taskRepo.UpdateComment(ctx, task, comment); err != nil {
		logger.ErrorContext(ctx, "Failed to update comment", "task_id", taskID, "comment_id", commentID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Comment updated", "task_id", taskID, "comment_id", commentID)
	s.afterMutation(ctx, task, ports.TaskCommentChanged)

	return task, nil
}

func (s *TaskServiceImpl) DeleteComment(ctx context.Context, userID, taskID, commentID uuid.UUID) (*models.Task, error) {
	task, err := s.loadTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	_, idx := task.FindComment(commentID)
	if idx < 0 {
		logger.WarnContext(ctx, "Comment not found for deletion", "task_id", taskID, "comment_id", commentID)
		return nil, services.ErrCommentNotFound
	}
	task.Comments = append(task.Comments[:idx], task.Comments[idx+1:]...)

	if err := s.taskRepo.DeleteComment(ctx, task, commentID); err != nil {
		logger.ErrorContext(ctx, "Failed to delete comment", "task_id", taskID, "comment_id", commentID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Comment deleted", "task_id", taskID, "comment_id", commentID)
	s.afterMutation(ctx, task, ports.TaskCommentChanged)

	return task, nil
}

// loadTask โหลด task ของ userID; task ของคนอื่นได้ ErrTaskNotFound
func (s *TaskServiceImpl) loadTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetForUser(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.WarnContext(ctx, "Task not found", "task_id", taskID)
			return nil, services.ErrTaskNotFound
		}
		logger.ErrorContext(ctx, "Failed to load task", "task_id", taskID, "error", err)
		return nil, err
	}
	return task, nil
}

// reload อ่าน task ที่บันทึกอยู่หลังแก้ subtask ให้ response ตรงกับ DB
// แม้จะมี request อื่นแก้ task เดียวกันพร้อมกัน
func (s *TaskServiceImpl) reload(ctx context.Context, task *models.Task) *models.Task {
	fresh, err := s.taskRepo.GetForUser(ctx, task.ID, task.UserID)
	if err != nil {
		logger.WarnContext(ctx, "Failed to reload task", "task_id", task.ID, "error", err)
		return task
	}
	return fresh
}

// afterMutation invalidate cache และส่ง event; error ตรงนี้ไม่ทำให้ request fail
func (s *TaskServiceImpl) afterMutation(ctx context.Context, task *models.Task, eventType ports.TaskEventType) {
	if s.cache != nil {
		if err := s.cache.InvalidateTaskList(ctx, task.UserID); err != nil {
			logger.WarnContext(ctx, "Task list cache invalidation failed", "error", err)
		}
	}

	if s.events == nil {
		return
	}

	event := &ports.TaskEvent{
		Type:       eventType,
		TaskID:     task.ID.String(),
		UserID:     task.UserID.String(),
		Status:     string(task.Status),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.PublishTaskEvent(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish task event", "type", eventType, "task_id", task.ID, "error", err)
	}
}
