package model

import "time"

// ClassTeacherAssignment 班主任分配 — 对应 class_teacher_assignments
// 由主数据服务维护，本服务只读
type ClassTeacherAssignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	TeacherID    string    `gorm:"type:varchar(64);not null"                      json:"teacher_id"`
	ClassID      string    `gorm:"type:varchar(64);not null"                      json:"class_id"`
	SectionID    string    `gorm:"type:varchar(64);not null"                      json:"section_id"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ClassTeacherAssignment) TableName() string { return "class_teacher_assignments" }
