package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-ierp/backend/internal/dto"
	"school-ierp/backend/internal/model"
	"school-ierp/backend/internal/repository"
	apperrors "school-ierp/backend/pkg/errors"
	"school-ierp/backend/pkg/metrics"
)

// TimetableService 课表业务接口
//
// 课表按 (班级, 分班, 学年, 学期) 唯一；课节只能添加或删除，
// 调整课节 = 删除后重新添加（重新经过冲突检查）。
type TimetableService interface {
	GetOrCreate(ctx context.Context, req *dto.TimetableKeyRequest, caller dto.Caller) (*dto.TimetableResponse, error)
	// GetByKey 课表不存在时返回 (nil, nil)
	GetByKey(ctx context.Context, req *dto.TimetableKeyRequest) (*dto.TimetableResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TimetableResponse, error)
	List(ctx context.Context, req *dto.TimetableListRequest) ([]dto.TimetableBrief, int64, error)

	AddPeriod(ctx context.Context, timetableID string, req *dto.AddPeriodRequest, caller dto.Caller) (*dto.PeriodResponse, error)
	GetPeriod(ctx context.Context, id string) (*dto.PeriodResponse, error)
	DeletePeriod(ctx context.Context, id string, caller dto.Caller) error

	// GetGrid 课表存在但无可展示内容时返回 (nil, nil)
	GetGrid(ctx context.Context, timetableID string) (*dto.TimetableGrid, error)
	// GetGridByKey 课表不存在时返回 (nil, nil)
	GetGridByKey(ctx context.Context, req *dto.TimetableKeyRequest) (*dto.TimetableGrid, error)
	GetTeacherSchedule(ctx context.Context, teacherID string) (*dto.TeacherSchedule, error)
}

type timetableService struct {
	repo   *repository.Repository
	access AccessService
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, access AccessService, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, access: access, logger: logger}
}

// ────────────────────── GetOrCreate ──────────────────────

func (s *timetableService) GetOrCreate(ctx context.Context, req *dto.TimetableKeyRequest, caller dto.Caller) (*dto.TimetableResponse, error) {
	if err := s.access.CanManage(ctx, caller, req.ClassID, req.SectionID); err != nil {
		return nil, err
	}

	candidate := &model.Timetable{
		ClassID:      req.ClassID,
		SectionID:    req.SectionID,
		AcademicYear: req.AcademicYear,
		Term:         req.Term,
	}
	candidate.SetAudit(caller.UserID)

	timetable, err := s.repo.Timetable.GetOrCreate(ctx, candidate)
	if err != nil {
		s.logger.Error("获取或创建课表失败",
			zap.String("classID", req.ClassID),
			zap.String("sectionID", req.SectionID),
			zap.Error(err))
		return nil, err
	}

	return s.loadTimetable(ctx, timetable)
}

// ────────────────────── GetByKey ──────────────────────

func (s *timetableService) GetByKey(ctx context.Context, req *dto.TimetableKeyRequest) (*dto.TimetableResponse, error) {
	timetable, err := s.findByKey(ctx, req)
	if err != nil || timetable == nil {
		return nil, err
	}
	return s.loadTimetable(ctx, timetable)
}

func (s *timetableService) findByKey(ctx context.Context, req *dto.TimetableKeyRequest) (*model.Timetable, error) {
	timetable, err := s.repo.Timetable.GetByKey(ctx, model.TimetableKey{
		ClassID:      req.ClassID,
		SectionID:    req.SectionID,
		AcademicYear: req.AcademicYear,
		Term:         req.Term,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("按业务键查询课表失败", zap.Error(err))
		return nil, err
	}
	return timetable, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timetableService) GetByID(ctx context.Context, id string) (*dto.TimetableResponse, error) {
	timetable, err := s.getTimetable(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return s.loadTimetable(ctx, timetable)
}

// ────────────────────── List ──────────────────────

func (s *timetableService) List(ctx context.Context, req *dto.TimetableListRequest) ([]dto.TimetableBrief, int64, error) {
	filter := repository.TimetableFilter{
		ClassID:      req.ClassID,
		SectionID:    req.SectionID,
		AcademicYear: req.AcademicYear,
		Term:         req.Term,
	}

	timetables, total, err := s.repo.Timetable.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出课表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TimetableBrief, 0, len(timetables))
	for i := range timetables {
		result = append(result, toTimetableBrief(&timetables[i]))
	}
	return result, total, nil
}

// ────────────────────── AddPeriod ──────────────────────

// AddPeriod 添加课节
//
// 冲突检查与写入在同一事务内完成：
//  1. 锁定时间段行（FOR SHARE），阻止并发删除该时间段
//  2. 查询同 (day, slot) 上属于本课表或该教师的课节并判定冲突
//  3. 写入；并发越过检查的写入由唯一约束拦截，按约束名映射为对应冲突
func (s *timetableService) AddPeriod(ctx context.Context, timetableID string, req *dto.AddPeriodRequest, caller dto.Caller) (*dto.PeriodResponse, error) {
	if req.DayOfWeek == nil || !model.ValidDay(*req.DayOfWeek) {
		return nil, ErrPeriodInvalidDay
	}

	var created *model.Period
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		timetable, err := s.getTimetable(ctx, tx, timetableID)
		if err != nil {
			return err
		}
		if err := s.access.CanManage(ctx, caller, timetable.ClassID, timetable.SectionID); err != nil {
			return err
		}

		slot, err := tx.TimeSlot.GetByIDForShare(ctx, req.TimeSlotID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTimeSlotNotFound
			}
			return err
		}

		candidate := &model.Period{
			TimetableID: timetable.TimetableID,
			DayOfWeek:   *req.DayOfWeek,
			TimeSlotID:  slot.TimeSlotID,
			SubjectID:   req.SubjectID,
			TeacherID:   req.TeacherID,
			ClassID:     timetable.ClassID,
			SectionID:   timetable.SectionID,
		}
		candidate.SetAudit(caller.UserID)

		occupants, err := tx.Period.ListOccupants(ctx, candidate.DayOfWeek, candidate.TimeSlotID, candidate.TimetableID, candidate.TeacherID)
		if err != nil {
			return err
		}
		if reason, existing := CheckConflict(candidate, occupants); reason != ConflictNone {
			return &ConflictError{Reason: reason, Existing: existing}
		}

		if err := tx.Period.Create(ctx, candidate); err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUniquePeriodSlot):
				return &ConflictError{Reason: ConflictSlotOccupied}
			case errors.Is(err, apperrors.ErrUniquePeriodTeacher):
				return &ConflictError{Reason: ConflictTeacherDoubleBooked}
			case errors.Is(err, apperrors.ErrForeignKeyViolation):
				return ErrTimeSlotNotFound
			}
			return err
		}

		candidate.TimeSlot = slot
		created = candidate
		return nil
	})

	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			metrics.PeriodConflicts.WithLabelValues(string(conflict.Reason)).Inc()
			s.logger.Info("排课冲突",
				zap.String("timetableID", timetableID),
				zap.Int("dayOfWeek", *req.DayOfWeek),
				zap.String("timeSlotID", req.TimeSlotID),
				zap.String("teacherID", req.TeacherID),
				zap.String("reason", string(conflict.Reason)))
		} else if !isBusinessError(err) {
			s.logger.Error("添加课节失败", zap.String("timetableID", timetableID), zap.Error(err))
		}
		return nil, err
	}

	metrics.PeriodsCreated.Inc()
	resp := toPeriodResponse(created)
	return &resp, nil
}

// ────────────────────── GetPeriod ──────────────────────

func (s *timetableService) GetPeriod(ctx context.Context, id string) (*dto.PeriodResponse, error) {
	period, err := s.getPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPeriodResponse(period)
	return &resp, nil
}

// ────────────────────── DeletePeriod ──────────────────────

func (s *timetableService) DeletePeriod(ctx context.Context, id string, caller dto.Caller) error {
	period, err := s.getPeriod(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.CanManage(ctx, caller, period.ClassID, period.SectionID); err != nil {
		return err
	}

	if err := s.repo.Period.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPeriodNotFound
		}
		s.logger.Error("删除课节失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Grid ──────────────────────

func (s *timetableService) GetGrid(ctx context.Context, timetableID string) (*dto.TimetableGrid, error) {
	timetable, err := s.getTimetable(ctx, s.repo, timetableID)
	if err != nil {
		return nil, err
	}
	return s.projectGrid(ctx, timetable)
}

func (s *timetableService) GetGridByKey(ctx context.Context, req *dto.TimetableKeyRequest) (*dto.TimetableGrid, error) {
	timetable, err := s.findByKey(ctx, req)
	if err != nil || timetable == nil {
		return nil, err
	}
	return s.projectGrid(ctx, timetable)
}

func (s *timetableService) projectGrid(ctx context.Context, timetable *model.Timetable) (*dto.TimetableGrid, error) {
	periods, err := s.repo.Period.ListByTimetable(ctx, timetable.TimetableID)
	if err != nil {
		s.logger.Error("查询课节失败", zap.String("timetableID", timetable.TimetableID), zap.Error(err))
		return nil, err
	}
	slots, err := s.repo.TimeSlot.List(ctx)
	if err != nil {
		s.logger.Error("列出时间段失败", zap.Error(err))
		return nil, err
	}
	return ProjectGrid(timetable, periods, slots), nil
}

// ────────────────────── TeacherSchedule ──────────────────────

func (s *timetableService) GetTeacherSchedule(ctx context.Context, teacherID string) (*dto.TeacherSchedule, error) {
	periods, err := s.repo.Period.ListByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询教师课节失败", zap.String("teacherID", teacherID), zap.Error(err))
		return nil, err
	}
	return BuildTeacherSchedule(teacherID, periods), nil
}

// ── 内部辅助方法 ──

func (s *timetableService) getTimetable(ctx context.Context, repo *repository.Repository, id string) (*model.Timetable, error) {
	timetable, err := repo.Timetable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return timetable, nil
}

func (s *timetableService) getPeriod(ctx context.Context, id string) (*model.Period, error) {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询课节失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return period, nil
}

// loadTimetable 组装课表详情（课节按星期、开始时间排序）
func (s *timetableService) loadTimetable(ctx context.Context, timetable *model.Timetable) (*dto.TimetableResponse, error) {
	periods, err := s.repo.Period.ListByTimetable(ctx, timetable.TimetableID)
	if err != nil {
		s.logger.Error("查询课节失败", zap.String("timetableID", timetable.TimetableID), zap.Error(err))
		return nil, err
	}
	return toTimetableResponse(timetable, periods), nil
}

func toTimetableBrief(t *model.Timetable) dto.TimetableBrief {
	return dto.TimetableBrief{
		ID:           t.TimetableID,
		ClassID:      t.ClassID,
		SectionID:    t.SectionID,
		AcademicYear: t.AcademicYear,
		Term:         t.Term,
	}
}

func toTimetableResponse(t *model.Timetable, periods []model.Period) *dto.TimetableResponse {
	resp := &dto.TimetableResponse{
		TimetableBrief: toTimetableBrief(t),
		Periods:        make([]dto.PeriodResponse, 0, len(periods)),
		CreatedAt:      t.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:      t.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for i := range periods {
		resp.Periods = append(resp.Periods, toPeriodResponse(&periods[i]))
	}
	return resp
}

func toPeriodResponse(p *model.Period) dto.PeriodResponse {
	resp := dto.PeriodResponse{
		ID:          p.PeriodID,
		TimetableID: p.TimetableID,
		DayOfWeek:   p.DayOfWeek,
		Day:         model.DayName(p.DayOfWeek),
		TimeSlotID:  p.TimeSlotID,
		SubjectID:   p.SubjectID,
		TeacherID:   p.TeacherID,
		ClassID:     p.ClassID,
		SectionID:   p.SectionID,
	}
	if p.TimeSlot != nil {
		resp.TimeSlot = toTimeSlotResponse(p.TimeSlot)
	}
	return resp
}
