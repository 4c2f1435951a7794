package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	TimeSlot               TimeSlotRepository
	Timetable              TimetableRepository
	Period                 PeriodRepository
	ClassTeacherAssignment ClassTeacherAssignmentRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                     db,
		TimeSlot:               NewTimeSlotRepo(db),
		Timetable:              NewTimetableRepo(db),
		Period:                 NewPeriodRepo(db),
		ClassTeacherAssignment: NewClassTeacherAssignmentRepo(db),
	}
}

// WithTx 返回绑定到事务 tx 的 Repository 聚合
func WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个数据库事务中执行 fn，fn 返回错误时回滚
// 未持有连接（单元测试中直接组装的聚合）时直接以自身执行
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(tx))
	})
}
