package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"school-ierp/backend/internal/dto"
)

// ── iCalendar 导出 ──────────────────────────────────────────
//
// 将教师周课表转换为 iCalendar (RFC 5545)：
//   - 每个课节一个 VEVENT，RRULE:FREQ=WEEKLY 每周重复
//   - 首次发生日期 = 参考周的周日 + day_of_week
//   - 时间段的 HH:MM 按学校时区解释
// ─────────────────────────────────────────────────────────────

const (
	icsProductID = "-//school-ierp//timetable//ZH"
	// icsLocalTime 带 TZID 的本地时间（RFC 5545 FORM #3），不带 Z 后缀
	icsLocalTime = "20060102T150405"
)

// WeekStart 返回 t 的日历日期所在周的周日 00:00（loc 时区）
// 只取 t 自身的年月日，不做时区换算；date-only 参数解析出的 UTC 零点不会漂移到前一天
func WeekStart(t time.Time, loc *time.Location) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// BuildTeacherCalendar 由教师周课表生成日历，weekOf 为首次发生所在周（任意一天均可）
// DTSTART/DTEND 以 loc 的本地时间 + TZID 输出，与 BYDAY 的星期保持一致
// 纯函数：stamp 作为 DTSTAMP，相同输入得到相同输出
func BuildTeacherCalendar(schedule *dto.TeacherSchedule, weekOf time.Time, loc *time.Location, stamp time.Time) (*ics.Calendar, error) {
	tzid := loc.String()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName("教师课表 " + schedule.TeacherID)
	cal.SetXWRTimezone(tzid)

	sunday := WeekStart(weekOf, loc)
	for _, day := range schedule.Days {
		date := sunday.AddDate(0, 0, day.DayOfWeek)
		for _, p := range day.Periods {
			start, err := atClock(date, p.StartTime)
			if err != nil {
				return nil, err
			}
			end, err := atClock(date, p.EndTime)
			if err != nil {
				return nil, err
			}

			event := cal.AddEvent(p.PeriodID + "@school-ierp")
			event.SetDtStampTime(stamp)
			event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLocalTime), withTZID(tzid))
			event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsLocalTime), withTZID(tzid))
			event.SetSummary(fmt.Sprintf("%s %s-%s", p.SubjectID, p.ClassID, p.SectionID))
			event.SetDescription(fmt.Sprintf("%s %s", p.AcademicYear, p.Term))
			event.AddRrule("FREQ=WEEKLY;BYDAY=" + icsWeekday(day.DayOfWeek))
		}
	}
	return cal, nil
}

func withTZID(tzid string) ics.PropertyParameter {
	return &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{tzid}}
}

// atClock 将 HH:MM 落到 date 当天
func atClock(date time.Time, clock string) (time.Time, error) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return time.Time{}, fmt.Errorf("时间格式无效: %q", clock)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return time.Time{}, fmt.Errorf("时间格式无效: %q", clock)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return time.Time{}, fmt.Errorf("时间格式无效: %q", clock)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location()), nil
}

// icsWeekday day_of_week（0 = Sunday）→ RRULE BYDAY
func icsWeekday(d int) string {
	return [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}[d]
}
