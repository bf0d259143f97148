package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"todo-api/domain/dto"
	"todo-api/domain/models"
	"todo-api/domain/services"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) GetUserTasks(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	tasks, err := h.taskService.GetUserTasks(c.UserContext(), user.ID)
	if err != nil {
		return taskErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.TasksToTaskResponses(tasks))
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateTaskRequest
	if ok, err := bindRequest(c, &req); !ok {
		return err
	}

	task, err := h.taskService.CreateTask(c.UserContext(), user.ID, &req)
	if err != nil {
		return taskErrorResponse(c, err)
	}

	return utils.CreatedResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.UpdateTaskRequest
	if ok, err := bindRequest(c, &req); !ok {
		return err
	}

	task, err := h.taskService.UpdateTask(c.UserContext(), user.ID, taskID, &req)
	return taskResult(c, fiber.StatusOK, task, err)
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	if err := h.taskService.DeleteTask(c.UserContext(), user.ID, taskID); err != nil {
		return taskErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, &dto.MessageResponse{Message: "Task deleted successfully"})
}

// ========== Subtasks ==========

func (h *TaskHandler) AddSubtask(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.CreateSubtaskRequest
	if ok, err := bindRequest(c, &req); !ok {
		return err
	}

	task, err := h.taskService.AddSubtask(c.UserContext(), user.ID, taskID, &req)
	return taskResult(c, fiber.StatusCreated, task, err)
}

func (h *TaskHandler) UpdateSubtask(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}
	subtaskID, ok := paramID(c, "subId")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid subtask ID")
	}

	var req dto.UpdateSubtaskRequest
	if ok, err := bindRequest(c, &req); !ok {
		return err
	}

	task, err := h.taskService.UpdateSubtask(c.UserContext(), user.ID, taskID, subtaskID, &req)
	return taskResult(c, fiber.StatusOK, task, err)
}

func (h *TaskHandler) DeleteSubtask(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}
	subtaskID, ok := paramID(c, "subId")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid subtask ID")
	}

	task, err := h.taskService.DeleteSubtask(c.UserContext(), user.ID, taskID, subtaskID)
	return taskResult(c, fiber.StatusOK, task, err)
}

// ========== Comments ==========

func (h *TaskHandler) AddComment(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.CommentRequest
	if ok, err := bindRequest(c, &req); !ok {
		return err
	}

	task, err := h.taskService.AddComment(c.UserContext(), user.ID, taskID, &req)
	return taskResult(c, fiber.StatusCreated, task, err)
}

func (h *TaskHandler) UpdateComment(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}
	commentID, ok := paramID(c, "cId")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid comment ID")
	}

	var req dto.CommentRequest
	if ok, err := bindRequest(c, &req); !ok {
		return err
	}

	task, err := h.taskService.UpdateComment(c.UserContext(), user.ID, taskID, commentID, &req)
	return taskResult(c, fiber.StatusOK, task, err)
}

func (h *TaskHandler) DeleteComment(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}
	commentID, ok := paramID(c, "cId")
	if !ok {
		return utils.BadRequestResponse(c, "Invalid comment ID")
	}

	task, err := h.taskService.DeleteComment(c.UserContext(), user.ID, taskID, commentID)
	return taskResult(c, fiber.StatusOK, task, err)
}

// ========== Helpers ==========

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		logger.WarnContext(c.UserContext(), "Invalid path ID", "param", name, "value", c.Params(name))
		return uuid.Nil, false
	}
	return id, true
}

// bindRequest parse + validate body; ถ้าไม่ผ่านจะเขียน response 400 แล้วคืน false
func bindRequest(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		logger.WarnContext(c.UserContext(), "Invalid request body", "error", err)
		return false, utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		errs := utils.GetValidationErrors(err)
		logger.WarnContext(c.UserContext(), "Validation failed", "errors", errs)
		return false, utils.ValidationErrorResponse(c, errs)
	}
	return true, nil
}

func taskResult(c *fiber.Ctx, status int, task *models.Task, err error) error {
	if err != nil {
		return taskErrorResponse(c, err)
	}
	if status == fiber.StatusCreated {
		return utils.CreatedResponse(c, dto.TaskToTaskResponse(task))
	}
	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

// taskErrorResponse map error ของ TaskService เป็น HTTP response
func taskErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return utils.NotFoundResponse(c, "Task not found")
	case errors.Is(err, services.ErrSubtaskNotFound):
		return utils.NotFoundResponse(c, "Subtask not found")
	case errors.Is(err, services.ErrCommentNotFound):
		return utils.NotFoundResponse(c, "Comment not found")
	case errors.Is(err, services.ErrPendingSubtasks):
		return utils.ValidationMessageResponse(c, err.Error())
	case errors.Is(err, services.ErrCommentExists):
		return utils.BadRequestResponse(c, err.Error())
	default:
		return utils.InternalServerErrorResponse(c, err.Error())
	}
}
