package handler

import "school-ierp/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	TimeSlot  *TimeSlotHandler
	Timetable *TimetableHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		TimeSlot:  NewTimeSlotHandler(svc.TimeSlot),
		Timetable: NewTimetableHandler(svc.Timetable),
		Export:    NewExportHandler(svc.Export),
	}
}
