package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"school-ierp/backend/internal/repository"
	apperrors "school-ierp/backend/pkg/errors"
)

// Service 所有 Service 的聚合入口
type Service struct {
	TimeSlot  TimeSlotService
	Timetable TimetableService
	Access    AccessService
	Export    ExportService
}

// NewService 创建 Service 聚合，loc 为学校时区
func NewService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) *Service {
	access := NewAccessService(repo, logger)
	return &Service{
		TimeSlot:  NewTimeSlotService(repo, logger),
		Timetable: NewTimetableService(repo, access, logger),
		Access:    access,
		Export:    NewExportService(repo, loc, logger),
	}
}

// isBusinessError 判断是否为可预期的业务错误（无需记录 error 日志）
func isBusinessError(err error) bool {
	var appErr *apperrors.Error
	var conflict *ConflictError
	return errors.As(err, &appErr) || errors.As(err, &conflict)
}
