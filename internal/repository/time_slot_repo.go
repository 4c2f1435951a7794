package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"school-ierp/backend/internal/model"
)

// TimeSlotRepository 时间段数据访问接口
type TimeSlotRepository interface {
	Create(ctx context.Context, slot *model.TimeSlot) error
	GetByID(ctx context.Context, id string) (*model.TimeSlot, error)
	// GetByIDForShare 以 FOR SHARE 锁定时间段行，须在事务内调用
	GetByIDForShare(ctx context.Context, id string) (*model.TimeSlot, error)
	// GetByIDForUpdate 以 FOR UPDATE 锁定时间段行，须在事务内调用
	GetByIDForUpdate(ctx context.Context, id string) (*model.TimeSlot, error)
	List(ctx context.Context) ([]model.TimeSlot, error)
	Delete(ctx context.Context, id string) error
}

type timeSlotRepo struct {
	db *gorm.DB
}

// NewTimeSlotRepo 创建 TimeSlotRepository 实例
func NewTimeSlotRepo(db *gorm.DB) TimeSlotRepository {
	return &timeSlotRepo{db: db}
}

func (r *timeSlotRepo) Create(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *timeSlotRepo) GetByID(ctx context.Context, id string) (*model.TimeSlot, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *timeSlotRepo) GetByIDForShare(ctx context.Context, id string) (*model.TimeSlot, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "SHARE"}), id)
}

func (r *timeSlotRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.TimeSlot, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *timeSlotRepo) first(db *gorm.DB, id string) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	if err := db.Where("time_slot_id = ?", id).First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepo) List(ctx context.Context) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	err := r.db.WithContext(ctx).
		Order("start_time ASC, end_time ASC, time_slot_id ASC").
		Find(&slots).Error
	return slots, err
}

// Delete 物理删除；仍被课节引用时返回 ErrForeignKeyViolation
func (r *timeSlotRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("time_slot_id = ?", id).
		Delete(&model.TimeSlot{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
