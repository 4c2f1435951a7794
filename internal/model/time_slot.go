package model

// TimeSlot 时间段目录 — 对应 time_slots
// 全局共享，不归属任何课表；允许相互重叠
type TimeSlot struct {
	TimeSlotID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_slot_id"`
	StartTime  string  `gorm:"type:varchar(5);not null"                       json:"start_time"` // HH:MM
	EndTime    string  `gorm:"type:varchar(5);not null"                       json:"end_time"`   // HH:MM
	IsBreak    bool    `gorm:"not null;default:false"                         json:"is_break"`
	BreakType  *string `gorm:"type:varchar(50)"                               json:"break_type,omitempty"` // 仅 is_break 时非空
	BaseModel
}

// TableName 指定表名
func (TimeSlot) TableName() string { return "time_slots" }

// Less 目录排序：start_time 升序，相同再比较 end_time、ID
// HH:MM 定长零填充，字典序即时间序
func (t *TimeSlot) Less(o *TimeSlot) bool {
	if t.StartTime != o.StartTime {
		return t.StartTime < o.StartTime
	}
	if t.EndTime != o.EndTime {
		return t.EndTime < o.EndTime
	}
	return t.TimeSlotID < o.TimeSlotID
}
