package repository

import (
	"context"

	"gorm.io/gorm"

	"school-ierp/backend/internal/model"
)

// PeriodRepository 课节数据访问接口
type PeriodRepository interface {
	// Create 写入课节；违反唯一约束时返回 ErrUniquePeriodSlot / ErrUniquePeriodTeacher
	Create(ctx context.Context, period *model.Period) error
	GetByID(ctx context.Context, id string) (*model.Period, error)
	// ListOccupants 同一 (day, slot) 上属于该课表或该教师的已提交课节
	ListOccupants(ctx context.Context, dayOfWeek int, timeSlotID, timetableID, teacherID string) ([]model.Period, error)
	// ListByTimetable 按 day_of_week、时间段开始时间排序，预加载 TimeSlot
	ListByTimetable(ctx context.Context, timetableID string) ([]model.Period, error)
	// ListByTeacher 预加载 TimeSlot 与 Timetable
	ListByTeacher(ctx context.Context, teacherID string) ([]model.Period, error)
	CountByTimeSlot(ctx context.Context, timeSlotID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type periodRepo struct {
	db *gorm.DB
}

// NewPeriodRepo 创建 PeriodRepository 实例
func NewPeriodRepo(db *gorm.DB) PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) Create(ctx context.Context, period *model.Period) error {
	return translateError(r.db.WithContext(ctx).Omit("TimeSlot", "Timetable").Create(period).Error)
}

func (r *periodRepo) GetByID(ctx context.Context, id string) (*model.Period, error) {
	var period model.Period
	err := r.db.WithContext(ctx).
		Joins("TimeSlot").
		Where("periods.period_id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) ListOccupants(ctx context.Context, dayOfWeek int, timeSlotID, timetableID, teacherID string) ([]model.Period, error) {
	var periods []model.Period
	err := r.db.WithContext(ctx).
		Where("day_of_week = ? AND time_slot_id = ?", dayOfWeek, timeSlotID).
		Where("(timetable_id = ? OR teacher_id = ?)", timetableID, teacherID).
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) ListByTimetable(ctx context.Context, timetableID string) ([]model.Period, error) {
	var periods []model.Period
	err := r.db.WithContext(ctx).
		Joins("TimeSlot").
		Where("periods.timetable_id = ?", timetableID).
		Order(`periods.day_of_week ASC, "TimeSlot".start_time ASC, "TimeSlot".end_time ASC, periods.period_id ASC`).
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.Period, error) {
	var periods []model.Period
	err := r.db.WithContext(ctx).
		Joins("TimeSlot").
		Joins("Timetable").
		Where("periods.teacher_id = ?", teacherID).
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) CountByTimeSlot(ctx context.Context, timeSlotID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Period{}).
		Where("time_slot_id = ?", timeSlotID).
		Count(&count).Error
	return count, err
}

// Delete 物理删除；无匹配行时返回 gorm.ErrRecordNotFound
func (r *periodRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("period_id = ?", id).
		Delete(&model.Period{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
