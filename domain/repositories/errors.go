package repositories

import "errors"

var (
	// ErrNotFound คืนจากทุก implementation เมื่อไม่พบ record (หรือไม่ใช่เจ้าของ)
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate unique constraint ชน (เช่น email ซ้ำจาก request ที่มาพร้อมกัน)
	ErrDuplicate = errors.New("duplicate record")
	// ErrPendingSubtasks Update ตั้ง status เป็น completed ขณะที่ subtask ที่บันทึกอยู่ยัง pending
	ErrPendingSubtasks = errors.New("task has pending subtasks")
)
