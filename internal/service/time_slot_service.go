package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-ierp/backend/internal/dto"
	"school-ierp/backend/internal/model"
	"school-ierp/backend/internal/repository"
	apperrors "school-ierp/backend/pkg/errors"
)

// TimeSlotService 时间段目录业务接口
type TimeSlotService interface {
	Create(ctx context.Context, req *dto.CreateTimeSlotRequest, callerID string) (*dto.TimeSlotResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TimeSlotResponse, error)
	List(ctx context.Context) ([]dto.TimeSlotResponse, error)
	Delete(ctx context.Context, id string) error
}

type timeSlotService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimeSlotService 创建 TimeSlotService 实例
func NewTimeSlotService(repo *repository.Repository, logger *zap.Logger) TimeSlotService {
	return &timeSlotService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *timeSlotService) Create(ctx context.Context, req *dto.CreateTimeSlotRequest, callerID string) (*dto.TimeSlotResponse, error) {
	breakType, err := validateTimeSlot(req)
	if err != nil {
		return nil, err
	}

	slot := &model.TimeSlot{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsBreak:   req.IsBreak,
		BreakType: breakType,
	}
	slot.SetAudit(callerID)

	if err := s.repo.TimeSlot.Create(ctx, slot); err != nil {
		s.logger.Error("创建时间段失败", zap.Error(err))
		return nil, err
	}

	return toTimeSlotResponse(slot), nil
}

// validateTimeSlot 校验时间段并返回规范化后的 break_type
// 不检查与已有时间段是否重叠
func validateTimeSlot(req *dto.CreateTimeSlotRequest) (*string, error) {
	if !dto.IsClock(req.StartTime) || !dto.IsClock(req.EndTime) {
		return nil, ErrTimeSlotInvalidTime
	}
	if req.StartTime >= req.EndTime {
		return nil, ErrTimeSlotInvertedRange
	}

	var breakType string
	if req.BreakType != nil {
		breakType = strings.TrimSpace(*req.BreakType)
	}

	if req.IsBreak {
		if breakType == "" {
			return nil, ErrTimeSlotBreakTypeRequired
		}
		return &breakType, nil
	}
	if breakType != "" {
		return nil, ErrTimeSlotBreakTypeNotAllowed
	}
	return nil, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timeSlotService) GetByID(ctx context.Context, id string) (*dto.TimeSlotResponse, error) {
	slot, err := s.repo.TimeSlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		s.logger.Error("查询时间段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTimeSlotResponse(slot), nil
}

// ────────────────────── List ──────────────────────

func (s *timeSlotService) List(ctx context.Context) ([]dto.TimeSlotResponse, error) {
	slots, err := s.repo.TimeSlot.List(ctx)
	if err != nil {
		s.logger.Error("列出时间段失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimeSlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *toTimeSlotResponse(&slots[i]))
	}

	return result, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除时间段
// 事务内先 FOR UPDATE 锁定时间段行，与 AddPeriod 的 FOR SHARE 互斥；外键 RESTRICT 兜底
func (s *timeSlotService) Delete(ctx context.Context, id string) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.TimeSlot.GetByIDForUpdate(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTimeSlotNotFound
			}
			return err
		}

		count, err := tx.Period.CountByTimeSlot(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrTimeSlotInUse
		}

		if err := tx.TimeSlot.Delete(ctx, id); err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return ErrTimeSlotNotFound
			case errors.Is(err, apperrors.ErrForeignKeyViolation):
				return ErrTimeSlotInUse
			}
			return err
		}
		return nil
	})

	if err != nil && !isBusinessError(err) {
		s.logger.Error("删除时间段失败", zap.String("id", id), zap.Error(err))
	}
	return err
}

// ── 内部辅助方法 ──

func toTimeSlotResponse(slot *model.TimeSlot) *dto.TimeSlotResponse {
	return &dto.TimeSlotResponse{
		ID:        slot.TimeSlotID,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		IsBreak:   slot.IsBreak,
		BreakType: slot.BreakType,
		CreatedAt: slot.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: slot.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
