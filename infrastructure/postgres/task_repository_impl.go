package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todo-api/domain/models"
	"todo-api/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

// withChildren preload subtasks ตามลำดับที่เพิ่ม และ comments
func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return translateError(r.db.WithContext(ctx).Omit("Subtasks", "Comments").Create(task).Error)
}

func (r *TaskRepositoryImpl) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := withChildren(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	tasks := make([]*models.Task, 0)
	err := withChildren(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, translateError(err)
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTask(tx, task); err != nil {
			return err
		}
		if task.Status == models.StatusCompleted {
			subtasks, err := storedSubtasks(tx, task.ID)
			if err != nil {
				return err
			}
			if !models.CanComplete(subtasks) {
				return repositories.ErrPendingSubtasks
			}
		}

		return translateError(tx.Model(&models.Task{}).
			Where("id = ? AND user_id = ?", task.ID, task.UserID).
			Updates(map[string]interface{}{
				"title":      task.Title,
				"status":     task.Status,
				"updated_at": task.UpdatedAt,
			}).Error)
	})
}

func (r *TaskRepositoryImpl) DeleteForUser(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Task{})
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return repositories.ErrNotFound
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}
		return tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error
	})
}

func (r *TaskRepositoryImpl) AddSubtask(ctx context.Context, task *models.Task, subtask *models.Subtask) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTask(tx, task); err != nil {
			return err
		}
		if err := tx.Create(subtask).Error; err != nil {
			return translateError(err)
		}
		return saveTaskStatus(tx, task)
	})
}

func (r *TaskRepositoryImpl) UpdateSubtask(ctx context.Context, task *models.Task, subtask *models.Subtask) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTask(tx, task); err != nil {
			return err
		}
		result := tx.Model(&models.Subtask{}).
			Where("id = ? AND task_id = ?", subtask.ID, task.ID).
			Updates(map[string]interface{}{
				"title":      subtask.Title,
				"status":     subtask.Status,
				"updated_at": subtask.UpdatedAt,
			})
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return saveTaskStatus(tx, task)
	})
}

func (r *TaskRepositoryImpl) DeleteSubtask(ctx context.Context, task *models.Task, subtaskID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTask(tx, task); err != nil {
			return err
		}
		result := tx.Where("id = ? AND task_id = ?", subtaskID, task.ID).Delete(&models.Subtask{})
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return saveTaskStatus(tx, task)
	})
}

func (r *TaskRepositoryImpl) AddComment(ctx context.Context, task *models.Task, comment *models.Comment) error {
	return translateError(r.db.WithContext(ctx).Create(comment).Error)
}

func (r *TaskRepositoryImpl) UpdateComment(ctx context.Context, task *models.Task, comment *models.Comment) error {
	result := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND task_id = ?", comment.ID, task.ID).
		Update("text", comment.Text)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) DeleteComment(ctx context.Context, task *models.Task, commentID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND task_id = ?", commentID, task.ID).Delete(&models.Comment{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// lockTask ล็อกแถว task (SELECT ... FOR UPDATE) จนจบ transaction
// การแก้ task เดียวกันจาก request ที่มาพร้อมกันจึงทำทีละอัน
func lockTask(tx *gorm.DB, task *models.Task) error {
	var locked models.Task
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		First(&locked).Error
	return translateError(err)
}

func storedSubtasks(tx *gorm.DB, taskID uuid.UUID) ([]models.Subtask, error) {
	var subtasks []models.Subtask
	err := tx.Select("id", "status").Where("task_id = ?", taskID).Find(&subtasks).Error
	return subtasks, translateError(err)
}

// saveTaskStatus reconcile จาก subtask ที่อยู่ใน DB ตอนนี้ แล้วบันทึกใน transaction เดียวกัน
func saveTaskStatus(tx *gorm.DB, task *models.Task) error {
	subtasks, err := storedSubtasks(tx, task.ID)
	if err != nil {
		return err
	}
	task.Status = models.ReconcileStatus(subtasks)

	result := tx.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Updates(map[string]interface{}{
			"status":     task.Status,
			"updated_at": task.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
