package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"school-ierp/backend/internal/service"
	"school-ierp/backend/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimetable 导出班级课表网格
// GET /api/v1/export/timetables/:id
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	id, ok := mustUUIDParam(c, "id", "课表ID")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportTimetable(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeXLSX(c, buf, filename)
}

// ExportTeacherSchedule 导出教师周课表
// GET /api/v1/export/teachers/:teacherId/schedule
func (h *ExportHandler) ExportTeacherSchedule(c *gin.Context) {
	teacherID := c.Param("teacherId")
	if teacherID == "" || len(teacherID) > 64 {
		response.BadRequest(c, 10001, "教师ID无效")
		return
	}

	buf, filename, err := h.exportSvc.ExportTeacherSchedule(c.Request.Context(), teacherID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeXLSX(c, buf, filename)
}

// ExportTeacherCalendar 导出教师周课表为 iCalendar
// GET /api/v1/export/teachers/:teacherId/calendar?week_start=YYYY-MM-DD
// week_start 缺省为学校时区的本周，课节自该周起每周重复
func (h *ExportHandler) ExportTeacherCalendar(c *gin.Context) {
	teacherID := c.Param("teacherId")
	if teacherID == "" || len(teacherID) > 64 {
		response.BadRequest(c, 10001, "教师ID无效")
		return
	}

	var weekStart time.Time
	if raw := c.Query("week_start"); raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			response.BadRequest(c, 10001, "week_start 格式须为 YYYY-MM-DD")
			return
		}
		weekStart = t
	}

	buf, filename, err := h.exportSvc.ExportTeacherCalendar(c.Request.Context(), teacherID, weekStart)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeFile(c, buf, filename, icsContentType)
}

// writeXLSX 设置下载响应头并写入文件内容
func writeXLSX(c *gin.Context, buf *bytes.Buffer, filename string) {
	writeFile(c, buf, filename, xlsxContentType)
}

func writeFile(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 22001, "课表不存在")
	case errors.Is(err, service.ErrExportEmptyTimetable):
		response.BadRequest(c, 22002, "课表与时间段目录均为空，无可导出内容")
	default:
		response.InternalError(c)
	}
}
