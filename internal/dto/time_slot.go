package dto

// ── 时间段模块 DTO ──

// CreateTimeSlotRequest 创建时间段请求
type CreateTimeSlotRequest struct {
	StartTime string  `json:"start_time" binding:"required,hhmm"` // "08:10"
	EndTime   string  `json:"end_time"   binding:"required,hhmm"` // "08:50"
	IsBreak   bool    `json:"is_break"`
	BreakType *string `json:"break_type" binding:"omitempty,max=50"` // 如 "Lunch"、"Short Break"
}

// TimeSlotResponse 时间段信息响应
type TimeSlotResponse struct {
	ID        string  `json:"id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	IsBreak   bool    `json:"is_break"`
	BreakType *string `json:"break_type,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}
