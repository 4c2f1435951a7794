package service

import (
	"errors"

	"school-ierp/backend/internal/dto"
	"school-ierp/backend/internal/model"
	apperrors "school-ierp/backend/pkg/errors"
)

// ── 时间段模块业务错误 ──

var (
	ErrTimeSlotInvalidTime         = apperrors.New(apperrors.ErrValidation, "时间格式须为 24 小时制 HH:MM")
	ErrTimeSlotInvertedRange       = apperrors.New(apperrors.ErrValidation, "开始时间必须早于结束时间")
	ErrTimeSlotBreakTypeRequired   = apperrors.New(apperrors.ErrValidation, "休息时段必须指定休息类型")
	ErrTimeSlotBreakTypeNotAllowed = apperrors.New(apperrors.ErrValidation, "非休息时段不能指定休息类型")
	ErrTimeSlotNotFound            = apperrors.New(apperrors.ErrNotFound, "时间段不存在")
	ErrTimeSlotInUse               = apperrors.New(apperrors.ErrInUse, "时间段仍被课节引用，无法删除")
)

// ── 课表模块业务错误 ──

var (
	ErrTimetableNotFound         = apperrors.New(apperrors.ErrNotFound, "课表不存在")
	ErrPeriodNotFound            = apperrors.New(apperrors.ErrNotFound, "课节不存在")
	ErrPeriodInvalidDay          = apperrors.New(apperrors.ErrValidation, "day_of_week 须在 0-6 之间")
	ErrPeriodSlotOccupied        = apperrors.New(apperrors.ErrConflict, "该课表此时间段已有课节")
	ErrPeriodTeacherDoubleBooked = apperrors.New(apperrors.ErrConflict, "该教师此时间段已在其他班级上课")
)

// ── 权限 ──

var (
	ErrAccessDenied = apperrors.New(apperrors.ErrForbidden, "仅管理员或该班级班主任可操作")
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmptyTimetable = apperrors.New(apperrors.ErrValidation, "课表与时间段目录均为空，无可导出内容")
	ErrExportGenerateFail   = errors.New("生成 Excel 文件失败")
)

// ── 排课冲突 ──

// ConflictReason 冲突判定结果
type ConflictReason string

const (
	ConflictNone                ConflictReason = ""
	ConflictSlotOccupied        ConflictReason = "slot_occupied"
	ConflictTeacherDoubleBooked ConflictReason = "teacher_double_booked"
)

// ConflictError 排课冲突错误；Existing 为已占用的课节（约束兜底时可能未知）
type ConflictError struct {
	Reason   ConflictReason
	Existing *model.Period
}

func (e *ConflictError) Error() string {
	return e.Unwrap().Error()
}

// Unwrap 映射到对应的冲突哨兵，进而归入 ErrConflict
func (e *ConflictError) Unwrap() error {
	if e.Reason == ConflictTeacherDoubleBooked {
		return ErrPeriodTeacherDoubleBooked
	}
	return ErrPeriodSlotOccupied
}

// Detail 返回面向调用方的冲突详情
func (e *ConflictError) Detail() *dto.ConflictResponse {
	detail := &dto.ConflictResponse{Reason: string(e.Reason)}
	if e.Existing != nil {
		existing := toPeriodResponse(e.Existing)
		detail.Existing = &existing
	}
	return detail
}
