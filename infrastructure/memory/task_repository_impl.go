package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"todo-api/domain/models"
	"todo-api/domain/repositories"
)

// TaskRepositoryImpl เก็บ task ไว้ใน memory สำหรับ dev และ test
// ทุก method คืนสำเนา ผู้เรียกแก้ค่าที่ได้ไปโดยไม่กระทบ store
type TaskRepositoryImpl struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*models.Task
}

func NewTaskRepository() repositories.TaskRepository {
	return &TaskRepositoryImpl{
		tasks: make(map[uuid.UUID]*models.Task),
	}
}

func cloneTask(t *models.Task) *models.Task {
	cp := *t
	cp.Subtasks = append([]models.Subtask{}, t.Subtasks...)
	cp.Comments = append([]models.Comment{}, t.Comments...)
	sortSubtasks(cp.Subtasks)
	sort.SliceStable(cp.Comments, func(i, j int) bool {
		return cp.Comments[i].CreatedAt.Before(cp.Comments[j].CreatedAt)
	})
	return &cp
}

// sortSubtasks เรียงตาม position แล้วตามเวลาที่สร้าง
func sortSubtasks(subtasks []models.Subtask) {
	sort.SliceStable(subtasks, func(i, j int) bool {
		if subtasks[i].Position != subtasks[j].Position {
			return subtasks[i].Position < subtasks[j].Position
		}
		return subtasks[i].CreatedAt.Before(subtasks[j].CreatedAt)
	})
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if _, exists := r.tasks[task.ID]; exists {
		return repositories.ErrDuplicate
	}
	r.tasks[task.ID] = cloneTask(task)
	return nil
}

func (r *TaskRepositoryImpl) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return cloneTask(task), nil
}

func (r *TaskRepositoryImpl) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*models.Task, 0)
	for _, task := range r.tasks {
		if task.UserID == userID {
			tasks = append(tasks, cloneTask(task))
		}
	}
	// ใหม่สุดก่อน เหมือน postgres
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.owned(task)
	if err != nil {
		return err
	}
	if task.Status == models.StatusCompleted && !models.CanComplete(stored.Subtasks) {
		return repositories.ErrPendingSubtasks
	}
	stored.Title = task.Title
	stored.Status = task.Status
	stored.UpdatedAt = task.UpdatedAt
	return nil
}

func (r *TaskRepositoryImpl) DeleteForUser(ctx context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepositoryImpl) AddSubtask(ctx context.Context, task *models.Task, subtask *models.Subtask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.owned(task)
	if err != nil {
		return err
	}
	stored.Subtasks = append(stored.Subtasks, *subtask)
	r.syncStatus(stored, task)
	return nil
}

func (r *TaskRepositoryImpl) UpdateSubtask(ctx context.Context, task *models.Task, subtask *models.Subtask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.owned(task)
	if err != nil {
		return err
	}
	existing, _ := stored.FindSubtask(subtask.ID)
	if existing == nil {
		return repositories.ErrNotFound
	}
	*existing = *subtask
	r.syncStatus(stored, task)
	return nil
}

func (r *TaskRepositoryImpl) DeleteSubtask(ctx context.Context, task *models.Task, subtaskID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.owned(task)
	if err != nil {
		return err
	}
	_, idx := stored.FindSubtask(subtaskID)
	if idx < 0 {
		return repositories.ErrNotFound
	}
	stored.Subtasks = append(stored.Subtasks[:idx], stored.Subtasks[idx+1:]...)
	r.syncStatus(stored, task)
	return nil
}

func (r *TaskRepositoryImpl) AddComment(ctx context.Context, task *models.Task, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.owned(task)
	if err != nil {
		return err
	}
	stored.Comments = append(stored.Comments, *comment)
	return nil
}

func (r *TaskRepositoryImpl) UpdateComment(ctx context.Context, task *models.Task, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.owned(task)
	if err != nil {
		return err
	}
	existing, _ := stored.FindComment(comment.ID)
	if existing == nil {
		return repositories.ErrNotFound
	}
	existing.Text = comment.Text
	return nil
}

func (r *TaskRepositoryImpl) DeleteComment(ctx context.Context, task *models.Task, commentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.owned(task)
	if err != nil {
		return err
	}
	_, idx := stored.FindComment(commentID)
	if idx < 0 {
		return repositories.ErrNotFound
	}
	stored.Comments = append(stored.Comments[:idx], stored.Comments[idx+1:]...)
	return nil
}

// owned ต้องถือ lock อยู่แล้ว
func (r *TaskRepositoryImpl) owned(task *models.Task) (*models.Task, error) {
	stored, ok := r.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return nil, repositories.ErrNotFound
	}
	return stored, nil
}

// syncStatus reconcile จาก subtask ใน store ไม่ใช่จาก snapshot ของผู้เรียก
func (r *TaskRepositoryImpl) syncStatus(stored, task *models.Task) {
	stored.Status = models.ReconcileStatus(stored.Subtasks)
	stored.UpdatedAt = task.UpdatedAt
	task.Status = stored.Status
}
