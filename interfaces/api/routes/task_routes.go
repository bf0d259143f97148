package routes

import (
	"github.com/gofiber/fiber/v2"

	"todo-api/interfaces/api/handlers"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers, protected fiber.Handler) {
	tasks := api.Group("/tasks", protected)
	tasks.Get("/", h.TaskHandler.GetUserTasks)
	tasks.Post("/", h.TaskHandler.CreateTask)
	tasks.Put("/:id", h.TaskHandler.UpdateTask)
	tasks.Delete("/:id", h.TaskHandler.DeleteTask)

	tasks.Post("/:id/subtasks", h.TaskHandler.AddSubtask)
	tasks.Put("/:id/subtasks/:subId", h.TaskHandler.UpdateSubtask)
	tasks.Delete("/:id/subtasks/:subId", h.TaskHandler.DeleteSubtask)

	tasks.Post("/:id/comments", h.TaskHandler.AddComment)
	tasks.Put("/:id/comments/:cId", h.TaskHandler.UpdateComment)
	tasks.Delete("/:id/comments/:cId", h.TaskHandler.DeleteComment)
}
