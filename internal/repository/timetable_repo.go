package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"school-ierp/backend/internal/model"
)

// TimetableFilter 课表列表筛选条件，空字段不参与筛选
type TimetableFilter struct {
	ClassID      string
	SectionID    string
	AcademicYear string
	Term         string
}

// TimetableRepository 课表数据访问接口
type TimetableRepository interface {
	// GetOrCreate 按业务键插入（冲突则忽略）后查询，返回该键唯一的课表
	GetOrCreate(ctx context.Context, timetable *model.Timetable) (*model.Timetable, error)
	GetByKey(ctx context.Context, key model.TimetableKey) (*model.Timetable, error)
	GetByID(ctx context.Context, id string) (*model.Timetable, error)
	List(ctx context.Context, filter TimetableFilter, offset, limit int) ([]model.Timetable, int64, error)
}

type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo 创建 TimetableRepository 实例
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) GetOrCreate(ctx context.Context, timetable *model.Timetable) (*model.Timetable, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "class_id"}, {Name: "section_id"}, {Name: "academic_year"}, {Name: "term"},
			},
			DoNothing: true,
		}).
		Create(timetable).Error
	if err != nil {
		return nil, err
	}
	// 并发插入时本次可能未写入，统一回查
	return r.GetByKey(ctx, timetable.Key())
}

func (r *timetableRepo) GetByKey(ctx context.Context, key model.TimetableKey) (*model.Timetable, error) {
	var timetable model.Timetable
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND section_id = ? AND academic_year = ? AND term = ?",
			key.ClassID, key.SectionID, key.AcademicYear, key.Term).
		First(&timetable).Error
	if err != nil {
		return nil, err
	}
	return &timetable, nil
}

func (r *timetableRepo) GetByID(ctx context.Context, id string) (*model.Timetable, error) {
	var timetable model.Timetable
	err := r.db.WithContext(ctx).
		Where("timetable_id = ?", id).
		First(&timetable).Error
	if err != nil {
		return nil, err
	}
	return &timetable, nil
}

func (r *timetableRepo) List(ctx context.Context, filter TimetableFilter, offset, limit int) ([]model.Timetable, int64, error) {
	var (
		timetables []model.Timetable
		total      int64
	)

	db := r.db.WithContext(ctx).Model(&model.Timetable{})
	if filter.ClassID != "" {
		db = db.Where("class_id = ?", filter.ClassID)
	}
	if filter.SectionID != "" {
		db = db.Where("section_id = ?", filter.SectionID)
	}
	if filter.AcademicYear != "" {
		db = db.Where("academic_year = ?", filter.AcademicYear)
	}
	if filter.Term != "" {
		db = db.Where("term = ?", filter.Term)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("academic_year DESC, class_id ASC, section_id ASC, term ASC").
		Offset(offset).
		Limit(limit).
		Find(&timetables).Error
	return timetables, total, err
}
