package redis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"todo-api/domain/models"
	"todo-api/domain/ports"
)

// TaskCache implements ports.TaskCachePort
type TaskCache struct {
	client *Client
	ttl    time.Duration
}

func NewTaskCache(client *Client, ttl time.Duration) ports.TaskCachePort {
	return &TaskCache{client: client, ttl: ttl}
}

// generation ต้องอยู่นานกว่า request ที่โหลดจาก DB มาก
const taskListGenerationTTL = 24 * time.Hour

// tasks:user:<id>
func taskListKey(userID uuid.UUID) string {
	return key("tasks", "user", userID.String())
}

// tasks:user:<id>:gen เพิ่มทุกครั้งที่ invalidate
func taskListGenerationKey(userID uuid.UUID) string {
	return key("tasks", "user", userID.String(), "gen")
}

func (c *TaskCache) GetTaskList(ctx context.Context, userID uuid.UUID) ([]*models.Task, bool, error) {
	var tasks []*models.Task
	found, err := c.client.getJSON(ctx, taskListKey(userID), &tasks)
	if err != nil || !found {
		return nil, false, err
	}
	// list ว่างที่ cache ไว้ก็นับเป็น hit
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasks, true, nil
}

func (c *TaskCache) TaskListGeneration(ctx context.Context, userID uuid.UUID) (int64, error) {
	return c.client.getInt(ctx, taskListGenerationKey(userID))
}

// SetTaskList ไม่เขียนถ้ามีการ invalidate หลังจากที่อ่าน generation มา
func (c *TaskCache) SetTaskList(ctx context.Context, userID uuid.UUID, generation int64, tasks []*models.Task) error {
	_, err := c.client.setJSONIfCounter(ctx, taskListKey(userID), taskListGenerationKey(userID), generation, tasks, c.ttl)
	return err
}

func (c *TaskCache) InvalidateTaskList(ctx context.Context, userID uuid.UUID) error {
	return c.client.delAndIncr(ctx, taskListKey(userID), taskListGenerationKey(userID), taskListGenerationTTL)
}
