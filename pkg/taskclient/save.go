package taskclient

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"todo-api/domain/dto"
	"todo-api/domain/models"
)

// ErrPendingSubtasks SaveTask ไม่ส่ง request ใดๆ ถ้าจะ complete task ที่ยังมี subtask pending
var ErrPendingSubtasks = errors.New("all subtasks must be completed before completing the task")

// SubtaskEdit ID เป็น uuid.Nil = subtask ใหม่
type SubtaskEdit struct {
	ID     uuid.UUID
	Title  string
	Status string
	Delete bool
}

// TaskEdit การแก้ไข task หนึ่งครั้งจากฟอร์ม
// Comment: nil = ไม่แตะ, "" = ลบ, อื่นๆ = เพิ่มหรือแก้
type TaskEdit struct {
	Title    string
	Status   string
	Subtasks []SubtaskEdit
	Comment  *string
}

// SaveTask ใช้ edit กับ current ตามลำดับ:
// ลบ/แก้/เพิ่ม subtask, อัปเดต task, แล้วจัดการ comment
// subtask ทำก่อน task เพื่อให้ server เห็น subtask ที่ complete แล้วตอนเช็ค status
func (c *Client) SaveTask(ctx context.Context, s *Session, current *dto.TaskResponse, edit TaskEdit) (*dto.TaskResponse, error) {
	if edit.Status == string(models.StatusCompleted) && !canCompleteAfter(current, edit) {
		return nil, ErrPendingSubtasks
	}

	result := current
	existing := make(map[uuid.UUID]dto.SubtaskResponse, len(current.Subtasks))
	for _, st := range current.Subtasks {
		existing[st.ID] = st
	}

	for _, se := range edit.Subtasks {
		var err error
		switch {
		case se.ID == uuid.Nil:
			if se.Delete || se.Title == "" {
				continue
			}
			result, err = c.AddSubtask(ctx, s, current.ID, se.Title)
			if err == nil && se.Status == string(models.StatusCompleted) {
				added := result.Subtasks[len(result.Subtasks)-1]
				result, err = c.UpdateSubtask(ctx, s, current.ID, added.ID, dto.UpdateSubtaskRequest{Status: se.Status})
			}
		case se.Delete:
			result, err = c.DeleteSubtask(ctx, s, current.ID, se.ID)
		default:
			prev, ok := existing[se.ID]
			if ok && prev.Title == se.Title && (se.Status == "" || prev.Status == se.Status) {
				continue
			}
			req := dto.UpdateSubtaskRequest{Status: se.Status}
			if !ok || prev.Title != se.Title {
				req.Title = se.Title
			}
			result, err = c.UpdateSubtask(ctx, s, current.ID, se.ID, req)
		}
		if err != nil {
			return nil, err
		}
	}

	taskReq := dto.UpdateTaskRequest{}
	if edit.Title != "" && edit.Title != current.Title {
		taskReq.Title = edit.Title
	}
	if edit.Status != "" && edit.Status != result.Status {
		taskReq.Status = edit.Status
	}
	if taskReq.Title != "" || taskReq.Status != "" {
		var err error
		if result, err = c.UpdateTask(ctx, s, current.ID, taskReq); err != nil {
			return nil, err
		}
	}

	if edit.Comment != nil {
		var err error
		switch {
		case *edit.Comment == "" && len(current.Comments) > 0:
			result, err = c.DeleteComment(ctx, s, current.ID, current.Comments[0].ID)
		case *edit.Comment == "":
		case len(current.Comments) > 0:
			if current.Comments[0].Text != *edit.Comment {
				result, err = c.UpdateComment(ctx, s, current.ID, current.Comments[0].ID, *edit.Comment)
			}
		default:
			result, err = c.AddComment(ctx, s, current.ID, *edit.Comment)
		}
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// canCompleteAfter เช็คเงื่อนไข complete กับ subtask หลังใช้ edit แล้ว
func canCompleteAfter(current *dto.TaskResponse, edit TaskEdit) bool {
	edits := make(map[uuid.UUID]SubtaskEdit, len(edit.Subtasks))
	var adding []models.Subtask
	for _, se := range edit.Subtasks {
		if se.ID == uuid.Nil {
			if !se.Delete && se.Title != "" {
				adding = append(adding, models.Subtask{Status: statusOr(se.Status, models.StatusPending)})
			}
			continue
		}
		edits[se.ID] = se
	}

	remaining := make([]models.Subtask, 0, len(current.Subtasks))
	for _, st := range current.Subtasks {
		status := models.TaskStatus(st.Status)
		if se, ok := edits[st.ID]; ok {
			if se.Delete {
				continue
			}
			status = statusOr(se.Status, status)
		}
		remaining = append(remaining, models.Subtask{ID: st.ID, Status: status})
	}

	return models.CanComplete(remaining, adding...)
}

func statusOr(s string, fallback models.TaskStatus) models.TaskStatus {
	if s == "" {
		return fallback
	}
	return models.TaskStatus(s)
}
