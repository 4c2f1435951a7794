package repository

import (
	"context"

	"gorm.io/gorm"

	"school-ierp/backend/internal/model"
)

// ClassTeacherAssignmentRepository 班主任分配只读访问接口
type ClassTeacherAssignmentRepository interface {
	Exists(ctx context.Context, teacherID, classID, sectionID string) (bool, error)
}

type classTeacherAssignmentRepo struct {
	db *gorm.DB
}

// NewClassTeacherAssignmentRepo 创建 ClassTeacherAssignmentRepository 实例
func NewClassTeacherAssignmentRepo(db *gorm.DB) ClassTeacherAssignmentRepository {
	return &classTeacherAssignmentRepo{db: db}
}

func (r *classTeacherAssignmentRepo) Exists(ctx context.Context, teacherID, classID, sectionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ClassTeacherAssignment{}).
		Where("teacher_id = ? AND class_id = ? AND section_id = ?", teacherID, classID, sectionID).
		Count(&count).Error
	return count > 0, err
}
