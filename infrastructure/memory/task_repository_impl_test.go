package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/domain/models"
	"todo-api/domain/repositories"
)

func newTask(userID uuid.UUID, title string, createdAt time.Time) *models.Task {
	return &models.Task{
		ID:        uuid.New(),
		Title:     title,
		Status:    models.StatusPending,
		UserID:    userID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestTaskRepositoryOwnership(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	owner, other := uuid.New(), uuid.New()

	task := newTask(owner, "Buy milk", time.Now())
	require.NoError(t, repo.Create(ctx, task))

	_, err := repo.GetForUser(ctx, task.ID, other)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteForUser(ctx, task.ID, other), repositories.ErrNotFound)

	got, err := repo.GetForUser(ctx, task.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)

	require.NoError(t, repo.DeleteForUser(ctx, task.ID, owner))
	_, err = repo.GetForUser(ctx, task.ID, owner)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTaskRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	userID := uuid.New()
	base := time.Now()

	require.NoError(t, repo.Create(ctx, newTask(userID, "old", base.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, newTask(userID, "new", base)))
	require.NoError(t, repo.Create(ctx, newTask(uuid.New(), "someone else", base)))

	tasks, err := repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "new", tasks[0].Title)
	assert.Equal(t, "old", tasks[1].Title)

	empty, err := repo.ListByUserID(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTaskRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	userID := uuid.New()

	task := newTask(userID, "Original", time.Now())
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetForUser(ctx, task.ID, userID)
	require.NoError(t, err)
	got.Title = "Mutated"
	got.Subtasks = append(got.Subtasks, models.Subtask{ID: uuid.New()})

	again, err := repo.GetForUser(ctx, task.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
	assert.Empty(t, again.Subtasks)
}

func TestTaskRepositorySubtaskOrderAndStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	userID := uuid.New()
	now := time.Now()

	task := newTask(userID, "Trip", now)
	require.NoError(t, repo.Create(ctx, task))

	second := models.Subtask{ID: uuid.New(), TaskID: task.ID, Title: "second", Status: models.StatusPending, Position: 1, CreatedAt: now}
	first := models.Subtask{ID: uuid.New(), TaskID: task.ID, Title: "first", Status: models.StatusPending, Position: 0, CreatedAt: now}
	require.NoError(t, repo.AddSubtask(ctx, task, &second))
	require.NoError(t, repo.AddSubtask(ctx, task, &first))

	got, err := repo.GetForUser(ctx, task.ID, userID)
	require.NoError(t, err)
	require.Len(t, got.Subtasks, 2)
	assert.Equal(t, "first", got.Subtasks[0].Title)
	assert.Equal(t, "second", got.Subtasks[1].Title)

	// status ของ task บันทึกพร้อม subtask
	first.Status = models.StatusCompleted
	task.Status = models.StatusPending
	require.NoError(t, repo.UpdateSubtask(ctx, task, &first))

	require.NoError(t, repo.DeleteSubtask(ctx, &models.Task{ID: task.ID, UserID: userID, Status: models.StatusCompleted}, second.ID))
	got, err = repo.GetForUser(ctx, task.ID, userID)
	require.NoError(t, err)
	require.Len(t, got.Subtasks, 1)
	assert.Equal(t, models.StatusCompleted, got.Subtasks[0].Status)
	assert.Equal(t, models.StatusCompleted, got.Status)

	assert.ErrorIs(t, repo.DeleteSubtask(ctx, task, uuid.New()), repositories.ErrNotFound)
}

func TestTaskRepositoryComments(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	userID := uuid.New()

	task := newTask(userID, "Read", time.Now())
	require.NoError(t, repo.Create(ctx, task))

	comment := models.Comment{ID: uuid.New(), TaskID: task.ID, Text: "chapter 3", CreatedAt: time.Now()}
	require.NoError(t, repo.AddComment(ctx, task, &comment))

	comment.Text = "chapter 4"
	require.NoError(t, repo.UpdateComment(ctx, task, &comment))

	got, err := repo.GetForUser(ctx, task.ID, userID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "chapter 4", got.Comments[0].Text)

	require.NoError(t, repo.DeleteComment(ctx, task, comment.ID))
	assert.ErrorIs(t, repo.DeleteComment(ctx, task, comment.ID), repositories.ErrNotFound)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	user := &models.User{ID: uuid.New(), Name: "A", Email: "a@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))

	err := repo.Create(ctx, &models.User{ID: uuid.New(), Name: "B", Email: "a@example.com", Password: "hash"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	got, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTaskRepositoryReconcilesFromStoredSubtasks(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	userID := uuid.New()
	now := time.Now()

	task := newTask(userID, "Pack", now)
	require.NoError(t, repo.Create(ctx, task))
	a := models.Subtask{ID: uuid.New(), TaskID: task.ID, Title: "a", Status: models.StatusPending, Position: 0, CreatedAt: now}
	b := models.Subtask{ID: uuid.New(), TaskID: task.ID, Title: "b", Status: models.StatusPending, Position: 1, CreatedAt: now}
	require.NoError(t, repo.AddSubtask(ctx, task, &a))
	require.NoError(t, repo.AddSubtask(ctx, task, &b))

	// สอง request อ่าน task ก่อนที่อีกฝั่งจะเขียน
	first, err := repo.GetForUser(ctx, task.ID, userID)
	require.NoError(t, err)
	second, err := repo.GetForUser(ctx, task.ID, userID)
	require.NoError(t, err)

	first.Subtasks[0].Status = models.StatusCompleted
	first.Reconcile()
	require.NoError(t, repo.UpdateSubtask(ctx, first, &first.Subtasks[0]))

	second.Subtasks[1].Status = models.StatusCompleted
	second.Reconcile()
	assert.Equal(t, models.StatusPending, second.Status)
	require.NoError(t, repo.UpdateSubtask(ctx, second, &second.Subtasks[1]))
	assert.Equal(t, models.StatusCompleted, second.Status)

	got, err := repo.GetForUser(ctx, task.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Subtasks[0].Status)
	assert.Equal(t, models.StatusCompleted, got.Subtasks[1].Status)
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestTaskRepositoryUpdateRejectsCompletionWithStoredPendingSubtask(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()
	userID := uuid.New()

	task := newTask(userID, "Shop", time.Now())
	require.NoError(t, repo.Create(ctx, task))

	stale, err := repo.GetForUser(ctx, task.ID, userID)
	require.NoError(t, err)

	sub := models.Subtask{ID: uuid.New(), TaskID: task.ID, Title: "milk", Status: models.StatusPending, CreatedAt: time.Now()}
	require.NoError(t, repo.AddSubtask(ctx, task, &sub))

	stale.Status = models.StatusCompleted
	assert.ErrorIs(t, repo.Update(ctx, stale), repositories.ErrPendingSubtasks)

	got, err := repo.GetForUser(ctx, task.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}
