package dto

import (
	"todo-api/domain/models"
)

func UserToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func TaskToTaskResponse(task *models.Task) *TaskResponse {
	if task == nil {
		return nil
	}
	resp := &TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Status:    string(task.Status),
		UserID:    task.UserID,
		Subtasks:  make([]SubtaskResponse, 0, len(task.Subtasks)),
		Comments:  make([]CommentResponse, 0, len(task.Comments)),
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
	for _, st := range task.Subtasks {
		resp.Subtasks = append(resp.Subtasks, SubtaskResponse{
			ID:        st.ID,
			Title:     st.Title,
			Status:    string(st.Status),
			CreatedAt: st.CreatedAt,
			UpdatedAt: st.UpdatedAt,
		})
	}
	for _, c := range task.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:   c.ID,
			Text: c.Text,
			Date: c.CreatedAt,
		})
	}
	return resp
}

func TasksToTaskResponses(tasks []*models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, *TaskToTaskResponse(t))
	}
	return out
}
