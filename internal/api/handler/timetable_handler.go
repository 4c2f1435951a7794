package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"school-ierp/backend/internal/dto"
	"school-ierp/backend/internal/service"
	"school-ierp/backend/pkg/response"
)

// TimetableHandler 课表、课节、网格与教师课表 HTTP 处理器
type TimetableHandler struct {
	svc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler 实例
func NewTimetableHandler(svc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// ── 课表 ──

// GetOrCreateTimetable 按 (班级, 分班, 学年, 学期) 获取课表，不存在则创建空课表
// POST /api/v1/timetables
func (h *TimetableHandler) GetOrCreateTimetable(c *gin.Context) {
	var req dto.TimetableKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	tt, err := h.svc.GetOrCreate(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, tt)
}

// LookupTimetable 按业务键查询课表；不存在时 data 为 null
// GET /api/v1/timetables/lookup?class_id=&section_id=&academic_year=&term=
func (h *TimetableHandler) LookupTimetable(c *gin.Context) {
	var req dto.TimetableKeyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tt, err := h.svc.GetByKey(c.Request.Context(), &req)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}
	if tt == nil {
		response.OK(c, nil)
		return
	}

	response.OK(c, tt)
}

// ListTimetables 分页列出课表
// GET /api/v1/timetables
func (h *TimetableHandler) ListTimetables(c *gin.Context) {
	var req dto.TimetableListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetTimetable 获取课表详情（含课节）
// GET /api/v1/timetables/:id
func (h *TimetableHandler) GetTimetable(c *gin.Context) {
	id, ok := mustUUIDParam(c, "id", "课表ID")
	if !ok {
		return
	}

	tt, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, tt)
}

// ── 课节 ──

// AddPeriod 添加课节
// POST /api/v1/timetables/:id/periods
func (h *TimetableHandler) AddPeriod(c *gin.Context) {
	id, ok := mustUUIDParam(c, "id", "课表ID")
	if !ok {
		return
	}

	var req dto.AddPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	period, err := h.svc.AddPeriod(c.Request.Context(), id, &req, caller)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.Created(c, period)
}

// GetPeriod 获取课节详情
// GET /api/v1/periods/:id
func (h *TimetableHandler) GetPeriod(c *gin.Context) {
	id, ok := mustUUIDParam(c, "id", "课节ID")
	if !ok {
		return
	}

	period, err := h.svc.GetPeriod(c.Request.Context(), id)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, period)
}

// DeletePeriod 删除课节
// DELETE /api/v1/periods/:id
func (h *TimetableHandler) DeletePeriod(c *gin.Context) {
	id, ok := mustUUIDParam(c, "id", "课节ID")
	if !ok {
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.svc.DeletePeriod(c.Request.Context(), id, caller); err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 网格 ──

// GetGrid 课表网格；无可展示内容时 data 为 null
// GET /api/v1/timetables/:id/grid
func (h *TimetableHandler) GetGrid(c *gin.Context) {
	id, ok := mustUUIDParam(c, "id", "课表ID")
	if !ok {
		return
	}

	grid, err := h.svc.GetGrid(c.Request.Context(), id)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}
	if grid == nil {
		response.OK(c, nil)
		return
	}

	response.OK(c, grid)
}

// GetGridByKey 按业务键获取课表网格；课表不存在时 data 为 null
// GET /api/v1/timetables/grid?class_id=&section_id=&academic_year=&term=
func (h *TimetableHandler) GetGridByKey(c *gin.Context) {
	var req dto.TimetableKeyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	grid, err := h.svc.GetGridByKey(c.Request.Context(), &req)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}
	if grid == nil {
		response.OK(c, nil)
		return
	}

	response.OK(c, grid)
}

// ── 教师课表 ──

// GetTeacherSchedule 教师周课表
// GET /api/v1/teachers/:teacherId/schedule
func (h *TimetableHandler) GetTeacherSchedule(c *gin.Context) {
	teacherID := c.Param("teacherId")
	if teacherID == "" || len(teacherID) > 64 {
		response.BadRequest(c, 10001, "教师ID无效")
		return
	}

	h.respondTeacherSchedule(c, teacherID)
}

// GetMySchedule 当前教师的周课表
// GET /api/v1/teachers/me/schedule
func (h *TimetableHandler) GetMySchedule(c *gin.Context) {
	teacherID, ok := MustGetTeacherID(c)
	if !ok {
		return
	}

	h.respondTeacherSchedule(c, teacherID)
}

func (h *TimetableHandler) respondTeacherSchedule(c *gin.Context, teacherID string) {
	schedule, err := h.svc.GetTeacherSchedule(c.Request.Context(), teacherID)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, schedule)
}

// handleTimetableError 统一处理课表模块业务错误
func (h *TimetableHandler) handleTimetableError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		code, msg := 21004, "该课表此时间段已有课节"
		if conflict.Reason == service.ConflictTeacherDoubleBooked {
			code, msg = 21005, "该教师此时间段已在其他班级上课"
		}
		response.ConflictWithData(c, code, msg, conflict.Detail())
		return
	}

	switch {
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 21001, "课表不存在")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 21002, "课节不存在")
	case errors.Is(err, service.ErrPeriodInvalidDay):
		response.BadRequest(c, 21003, "day_of_week 须在 0-6 之间")
	case errors.Is(err, service.ErrTimeSlotNotFound):
		response.NotFound(c, 21006, "时间段不存在")
	case errors.Is(err, service.ErrAccessDenied):
		response.Forbidden(c, 21007, "仅管理员或该班级班主任可操作")
	default:
		respondByKind(c, err)
	}
}
