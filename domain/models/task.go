package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus ใช้ร่วมกันทั้ง task และ subtask
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

func (s TaskStatus) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

type Task struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title     string     `gorm:"not null"`
	Status    TaskStatus `gorm:"type:varchar(16);not null;default:'pending'"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Subtasks  []Subtask  `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Comments  []Comment  `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Task) TableName() string {
	return "tasks"
}

type Subtask struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TaskID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title     string     `gorm:"not null"`
	Status    TaskStatus `gorm:"type:varchar(16);not null;default:'pending'"`
	Position  int        `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Subtask) TableName() string {
	return "subtasks"
}

type Comment struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (Comment) TableName() string {
	return "comments"
}

// ReconcileStatus คืนสถานะของ task ที่คำนวณจาก subtasks:
// completed ถ้าไม่มี subtask ไหน pending (รวมกรณีไม่มี subtask เลย)
func ReconcileStatus(subtasks []Subtask) TaskStatus {
	for _, st := range subtasks {
		if st.Status == StatusPending {
			return StatusPending
		}
	}
	return StatusCompleted
}

// CanComplete ตรวจว่า task เปลี่ยนเป็น completed ได้หรือไม่
// adding คือ subtask ที่กำลังจะถูกเพิ่ม (ยังไม่ได้บันทึก)
func CanComplete(existing []Subtask, adding ...Subtask) bool {
	for _, st := range existing {
		if st.Status != StatusCompleted {
			return false
		}
	}
	for _, st := range adding {
		if st.Status != StatusCompleted {
			return false
		}
	}
	return true
}

// Reconcile อัปเดต t.Status จาก subtasks ปัจจุบัน
func (t *Task) Reconcile() {
	t.Status = ReconcileStatus(t.Subtasks)
}

func (t *Task) FindSubtask(id uuid.UUID) (*Subtask, int) {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i], i
		}
	}
	return nil, -1
}

func (t *Task) FindComment(id uuid.UUID) (*Comment, int) {
	for i := range t.Comments {
		if t.Comments[i].ID == id {
			return &t.Comments[i], i
		}
	}
	return nil, -1
}

// NextPosition ตำแหน่งถัดไปสำหรับ subtask ใหม่ (ต่อท้าย)
func (t *Task) NextPosition() int {
	next := 0
	for _, st := range t.Subtasks {
		if st.Position >= next {
			next = st.Position + 1
		}
	}
	return next
}
