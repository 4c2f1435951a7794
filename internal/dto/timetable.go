package dto

// ── 课表 ──

// TimetableKeyRequest 课表业务键（班级、分班、学年、学期）
type TimetableKeyRequest struct {
	ClassID      string `json:"class_id"      form:"class_id"      binding:"required,max=64"`
	SectionID    string `json:"section_id"    form:"section_id"    binding:"required,max=64"`
	AcademicYear string `json:"academic_year" form:"academic_year" binding:"required,max=20"`
	Term         string `json:"term"          form:"term"          binding:"required,max=50"`
}

// TimetableListRequest 课表列表查询参数（筛选条件均可选）
type TimetableListRequest struct {
	PaginationRequest
	ClassID      string `form:"class_id"      binding:"omitempty,max=64"`
	SectionID    string `form:"section_id"    binding:"omitempty,max=64"`
	AcademicYear string `form:"academic_year" binding:"omitempty,max=20"`
	Term         string `form:"term"          binding:"omitempty,max=50"`
}

// TimetableBrief 课表简要信息
type TimetableBrief struct {
	ID           string `json:"id"`
	ClassID      string `json:"class_id"`
	SectionID    string `json:"section_id"`
	AcademicYear string `json:"academic_year"`
	Term         string `json:"term"`
}

// TimetableResponse 课表详情（含按星期、开始时间排序的课节）
type TimetableResponse struct {
	TimetableBrief
	Periods   []PeriodResponse `json:"periods"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

// ── 课节 ──

// AddPeriodRequest 添加课节请求
// day_of_week: 0 = Sunday … 6 = Saturday
type AddPeriodRequest struct {
	DayOfWeek  *int   `json:"day_of_week"  binding:"required,min=0,max=6"`
	TimeSlotID string `json:"time_slot_id" binding:"required,uuid"`
	SubjectID  string `json:"subject_id"   binding:"required,max=64"`
	TeacherID  string `json:"teacher_id"   binding:"required,max=64"`
}

// PeriodResponse 课节信息响应
type PeriodResponse struct {
	ID          string            `json:"id"`
	TimetableID string            `json:"timetable_id"`
	DayOfWeek   int               `json:"day_of_week"`
	Day         string            `json:"day"`
	TimeSlotID  string            `json:"time_slot_id"`
	TimeSlot    *TimeSlotResponse `json:"time_slot,omitempty"`
	SubjectID   string            `json:"subject_id"`
	TeacherID   string            `json:"teacher_id"`
	ClassID     string            `json:"class_id"`
	SectionID   string            `json:"section_id"`
}

// ConflictResponse 排课冲突详情（409 响应的 data）
type ConflictResponse struct {
	Reason   string          `json:"reason"` // slot_occupied | teacher_double_booked
	Existing *PeriodResponse `json:"existing,omitempty"`
}

// ── 课表网格 ──

// TimetableGrid 课表网格：行 = 时间段（按开始时间），列 = Sunday..Saturday
type TimetableGrid struct {
	Timetable TimetableBrief `json:"timetable"`
	Days      [7]string      `json:"days"`
	Rows      []GridRow      `json:"rows"`
}

// GridRow 网格行；Cells 固定 7 个，下标即 day_of_week，空格为 null
type GridRow struct {
	TimeSlot  TimeSlotResponse `json:"time_slot"`
	IsBreak   bool             `json:"is_break"`
	BreakType *string          `json:"break_type,omitempty"`
	Cells     []*GridCell      `json:"cells"`
}

// GridCell 网格单元格
type GridCell struct {
	PeriodID  string `json:"period_id"`
	SubjectID string `json:"subject_id"`
	TeacherID string `json:"teacher_id"`
}

// ── 教师课表 ──

// TeacherSchedule 教师周课表，Days 恒为 7 天（Sunday..Saturday）
type TeacherSchedule struct {
	TeacherID string               `json:"teacher_id"`
	Days      []TeacherScheduleDay `json:"days"`
}

// TeacherScheduleDay 教师某一天的课节，按开始时间排序；无课为空数组
type TeacherScheduleDay struct {
	Day       string                  `json:"day"`
	DayOfWeek int                     `json:"day_of_week"`
	Periods   []TeacherSchedulePeriod `json:"periods"`
}

// TeacherSchedulePeriod 教师课表中的课节（附带所属课表信息）
type TeacherSchedulePeriod struct {
	PeriodID     string `json:"period_id"`
	TimetableID  string `json:"timetable_id"`
	TimeSlotID   string `json:"time_slot_id"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	SubjectID    string `json:"subject_id"`
	ClassID      string `json:"class_id"`
	SectionID    string `json:"section_id"`
	AcademicYear string `json:"academic_year"`
	Term         string `json:"term"`
}
