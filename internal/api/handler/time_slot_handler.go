package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"school-ierp/backend/internal/dto"
	"school-ierp/backend/internal/service"
	"school-ierp/backend/pkg/response"
)

// TimeSlotHandler 时间段目录 HTTP 处理器
type TimeSlotHandler struct {
	timeSlotSvc service.TimeSlotService
}

// NewTimeSlotHandler 创建 TimeSlotHandler
func NewTimeSlotHandler(timeSlotSvc service.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{timeSlotSvc: timeSlotSvc}
}

// ListTimeSlots 获取时间段列表（按开始时间升序）
// GET /api/v1/time-slots
func (h *TimeSlotHandler) ListTimeSlots(c *gin.Context) {
	slots, err := h.timeSlotSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// GetTimeSlot 获取时间段详情
// GET /api/v1/time-slots/:id
func (h *TimeSlotHandler) GetTimeSlot(c *gin.Context) {
	id, ok := mustUUIDParam(c, "id", "时间段ID")
	if !ok {
		return
	}

	slot, err := h.timeSlotSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, slot)
}

// CreateTimeSlot 创建时间段
// POST /api/v1/time-slots
func (h *TimeSlotHandler) CreateTimeSlot(c *gin.Context) {
	var req dto.CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slot, err := h.timeSlotSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.Created(c, slot)
}

// DeleteTimeSlot 删除时间段（仍被课节引用时拒绝）
// DELETE /api/v1/time-slots/:id
func (h *TimeSlotHandler) DeleteTimeSlot(c *gin.Context) {
	id, ok := mustUUIDParam(c, "id", "时间段ID")
	if !ok {
		return
	}

	if err := h.timeSlotSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTimeSlotError 统一处理时间段模块业务错误
func (h *TimeSlotHandler) handleTimeSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimeSlotInvalidTime):
		response.BadRequest(c, 20001, "时间格式须为 24 小时制 HH:MM")
	case errors.Is(err, service.ErrTimeSlotInvertedRange):
		response.BadRequest(c, 20002, "开始时间必须早于结束时间")
	case errors.Is(err, service.ErrTimeSlotBreakTypeRequired):
		response.BadRequest(c, 20003, "休息时段必须指定休息类型")
	case errors.Is(err, service.ErrTimeSlotBreakTypeNotAllowed):
		response.BadRequest(c, 20004, "非休息时段不能指定休息类型")
	case errors.Is(err, service.ErrTimeSlotNotFound):
		response.NotFound(c, 20005, "时间段不存在")
	case errors.Is(err, service.ErrTimeSlotInUse):
		response.Conflict(c, 20006, "时间段仍被课节引用，无法删除")
	default:
		respondByKind(c, err)
	}
}
