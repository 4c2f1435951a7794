package model

// ── 星期 ──

// DaysPerWeek 一周天数，day_of_week 取值 0..6（0 = Sunday）
const DaysPerWeek = 7

// DayNames 规范星期名称，下标即 day_of_week
var DayNames = [DaysPerWeek]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// ValidDay 判断 day_of_week 是否在 0..6 内
func ValidDay(d int) bool { return d >= 0 && d < DaysPerWeek }

// DayName 返回 day_of_week 对应的星期名称，越界返回空串
func DayName(d int) string {
	if !ValidDay(d) {
		return ""
	}
	return DayNames[d]
}

// Timetable 课表 — 对应 timetables
// (class_id, section_id, academic_year, term) 唯一
type Timetable struct {
	TimetableID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timetable_id"`
	ClassID      string `gorm:"type:varchar(64);not null"                      json:"class_id"`
	SectionID    string `gorm:"type:varchar(64);not null"                      json:"section_id"`
	AcademicYear string `gorm:"type:varchar(20);not null"                      json:"academic_year"`
	Term         string `gorm:"type:varchar(50);not null"                      json:"term"`
	BaseModel

	// 关联
	Periods []Period `gorm:"foreignKey:TimetableID;references:TimetableID" json:"periods,omitempty"`
}

// TableName 指定表名
func (Timetable) TableName() string { return "timetables" }

// TimetableKey 课表业务键
type TimetableKey struct {
	ClassID      string
	SectionID    string
	AcademicYear string
	Term         string
}

// Key 返回课表的业务键
func (t *Timetable) Key() TimetableKey {
	return TimetableKey{
		ClassID:      t.ClassID,
		SectionID:    t.SectionID,
		AcademicYear: t.AcademicYear,
		Term:         t.Term,
	}
}

// Period 课节 — 对应 periods
// 一经创建不可修改；调整 = 删除 + 重新添加
type Period struct {
	PeriodID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	TimetableID string `gorm:"type:uuid;not null"                             json:"timetable_id"`
	DayOfWeek   int    `gorm:"type:smallint;not null"                         json:"day_of_week"`
	TimeSlotID  string `gorm:"type:uuid;not null"                             json:"time_slot_id"`
	SubjectID   string `gorm:"type:varchar(64);not null"                      json:"subject_id"`
	TeacherID   string `gorm:"type:varchar(64);not null"                      json:"teacher_id"`
	ClassID     string `gorm:"type:varchar(64);not null"                      json:"class_id"`   // 冗余自课表
	SectionID   string `gorm:"type:varchar(64);not null"                      json:"section_id"` // 冗余自课表
	BaseModel

	// 关联
	TimeSlot  *TimeSlot  `gorm:"foreignKey:TimeSlotID;references:TimeSlotID"   json:"time_slot,omitempty"`
	Timetable *Timetable `gorm:"foreignKey:TimetableID;references:TimetableID" json:"timetable,omitempty"`
}

// TableName 指定表名
func (Period) TableName() string { return "periods" }
