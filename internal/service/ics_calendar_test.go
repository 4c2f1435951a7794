package service

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"school-ierp/backend/internal/dto"
)

func TestWeekStart(t *testing.T) {
	loc := testLocation()
	wed := time.Date(2026, 10, 21, 15, 30, 0, 0, loc)
	got := WeekStart(wed, loc)
	want := time.Date(2026, 10, 18, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("期望 %v，实际 %v", want, got)
	}

	// 周日本身即周起点
	if s := WeekStart(want, loc); !s.Equal(want) {
		t.Errorf("周日应返回自身，实际 %v", s)
	}
}

func TestWeekStart_KeepsCalendarDate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("缺少 tzdata: %v", err)
	}
	// date-only 参数解析出 UTC 零点，换算到西半球会落到前一天（周六）
	sunday := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	got := WeekStart(sunday, ny)
	want := time.Date(2026, 10, 18, 0, 0, 0, 0, ny)
	if !got.Equal(want) {
		t.Errorf("期望 %v，实际 %v", want, got)
	}
}

// dtProp 读取事件的 DTSTART / DTEND 原始值与 TZID
func dtProp(t *testing.T, e *ics.VEvent, prop ics.ComponentProperty) (value, tzid string) {
	t.Helper()
	p := e.GetProperty(prop)
	if p == nil {
		t.Fatalf("缺少 %s", prop)
	}
	if tz := p.ICalParameters[string(ics.ParameterTzid)]; len(tz) == 1 {
		tzid = tz[0]
	}
	return p.Value, tzid
}

func parseEvents(t *testing.T, cal *ics.Calendar) map[string]*ics.VEvent {
	t.Helper()
	parsed, err := ics.ParseCalendar(strings.NewReader(cal.Serialize()))
	if err != nil {
		t.Fatalf("生成的日历无法解析: %v", err)
	}
	byID := map[string]*ics.VEvent{}
	for _, e := range parsed.Events() {
		byID[e.Id()] = e
	}
	return byID
}

func TestBuildTeacherCalendar(t *testing.T) {
	loc := testLocation()
	schedule := BuildTeacherSchedule("teacher-a", nil)
	schedule.Days[1].Periods = []dto.TeacherSchedulePeriod{{
		PeriodID: "p-1", StartTime: "09:00", EndTime: "09:45",
		SubjectID: "math", ClassID: "class-1", SectionID: "A", AcademicYear: "2026-2027", Term: "Term 1",
	}}
	schedule.Days[0].Periods = []dto.TeacherSchedulePeriod{{
		PeriodID: "p-0", StartTime: "08:00", EndTime: "08:45",
		SubjectID: "art", ClassID: "class-2", SectionID: "B", AcademicYear: "2026-2027", Term: "Term 1",
	}}

	stamp := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	cal, err := BuildTeacherCalendar(schedule, time.Date(2026, 10, 21, 0, 0, 0, 0, loc), loc, stamp)
	if err != nil {
		t.Fatalf("BuildTeacherCalendar 失败: %v", err)
	}

	byID := parseEvents(t, cal)
	if len(byID) != 2 {
		t.Fatalf("期望 2 个事件，实际 %d", len(byID))
	}

	monday := byID["p-1@school-ierp"]
	if monday == nil {
		t.Fatal("缺少 p-1 对应事件")
	}
	start, err := monday.GetStartAt()
	if err != nil {
		t.Fatalf("读取 DTSTART 失败: %v", err)
	}
	wantStart := time.Date(2026, 10, 19, 9, 0, 0, 0, loc)
	if !start.Equal(wantStart) {
		t.Errorf("DTSTART 期望 %v，实际 %v", wantStart, start)
	}
	if v, tz := dtProp(t, monday, ics.ComponentPropertyDtEnd); v != "20261019T094500" || tz != "Asia/Shanghai" {
		t.Errorf("DTEND 不正确: %s TZID=%s", v, tz)
	}
	if rrule := monday.GetProperty(ics.ComponentPropertyRrule); rrule == nil || rrule.Value != "FREQ=WEEKLY;BYDAY=MO" {
		t.Errorf("RRULE 不正确: %+v", rrule)
	}
	if summary := monday.GetProperty(ics.ComponentPropertySummary); summary == nil || summary.Value != "math class-1-A" {
		t.Errorf("SUMMARY 不正确: %+v", summary)
	}
	// 学期名称原样输出
	if desc := monday.GetProperty(ics.ComponentPropertyDescription); desc == nil || desc.Value != "2026-2027 Term 1" {
		t.Errorf("DESCRIPTION 不正确: %+v", desc)
	}

	sunday := byID["p-0@school-ierp"]
	if sunday == nil {
		t.Fatal("缺少 p-0 对应事件")
	}
	if s, _ := sunday.GetStartAt(); !s.Equal(time.Date(2026, 10, 18, 8, 0, 0, 0, loc)) {
		t.Errorf("周日课节应落在参考周的周日，实际 %v", s)
	}
}

func TestBuildTeacherCalendar_EarlyPeriodKeepsWeekday(t *testing.T) {
	loc := testLocation()
	schedule := BuildTeacherSchedule("teacher-a", nil)
	// 07:30 在 UTC 下仍属前一天（周日）
	schedule.Days[1].Periods = []dto.TeacherSchedulePeriod{{PeriodID: "p-early", StartTime: "07:30", EndTime: "08:15"}}

	cal, err := BuildTeacherCalendar(schedule, time.Date(2026, 10, 18, 0, 0, 0, 0, loc), loc, time.Now())
	if err != nil {
		t.Fatalf("BuildTeacherCalendar 失败: %v", err)
	}
	body := cal.Serialize()
	if strings.Contains(body, "20261018T233000Z") {
		t.Fatalf("DTSTART 不应换算为 UTC:\n%s", body)
	}

	e := parseEvents(t, cal)["p-early@school-ierp"]
	if e == nil {
		t.Fatal("缺少 p-early 对应事件")
	}
	if v, tz := dtProp(t, e, ics.ComponentPropertyDtStart); v != "20261019T073000" || tz != "Asia/Shanghai" {
		t.Errorf("DTSTART 期望 20261019T073000 TZID=Asia/Shanghai，实际 %s TZID=%s", v, tz)
	}
	if rrule := e.GetProperty(ics.ComponentPropertyRrule); rrule == nil || rrule.Value != "FREQ=WEEKLY;BYDAY=MO" {
		t.Errorf("RRULE 不正确: %+v", rrule)
	}
	start, err := e.GetStartAt()
	if err != nil {
		t.Fatalf("读取 DTSTART 失败: %v", err)
	}
	if start.In(loc).Weekday() != time.Monday {
		t.Errorf("首次发生应为周一，实际 %v", start.In(loc).Weekday())
	}
}

func TestBuildTeacherCalendar_OtherLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("缺少 tzdata: %v", err)
	}
	schedule := BuildTeacherSchedule("teacher-a", nil)
	schedule.Days[6].Periods = []dto.TeacherSchedulePeriod{{PeriodID: "p-sat", StartTime: "21:00", EndTime: "21:45"}}

	cal, err := BuildTeacherCalendar(schedule, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), ny, time.Now())
	if err != nil {
		t.Fatalf("BuildTeacherCalendar 失败: %v", err)
	}
	if !strings.Contains(cal.Serialize(), "X-WR-TIMEZONE:America/New_York") {
		t.Error("X-WR-TIMEZONE 应为配置的时区")
	}

	e := parseEvents(t, cal)["p-sat@school-ierp"]
	if e == nil {
		t.Fatal("缺少 p-sat 对应事件")
	}
	if v, tz := dtProp(t, e, ics.ComponentPropertyDtStart); v != "20261024T210000" || tz != "America/New_York" {
		t.Errorf("DTSTART 不正确: %s TZID=%s", v, tz)
	}
	if rrule := e.GetProperty(ics.ComponentPropertyRrule); rrule == nil || rrule.Value != "FREQ=WEEKLY;BYDAY=SA" {
		t.Errorf("RRULE 不正确: %+v", rrule)
	}
}

func TestBuildTeacherCalendar_Deterministic(t *testing.T) {
	loc := testLocation()
	schedule := BuildTeacherSchedule("teacher-a", nil)
	schedule.Days[3].Periods = []dto.TeacherSchedulePeriod{{PeriodID: "p-3", StartTime: "10:00", EndTime: "10:45"}}
	week := time.Date(2026, 10, 18, 0, 0, 0, 0, loc)
	stamp := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	a, _ := BuildTeacherCalendar(schedule, week, loc, stamp)
	b, _ := BuildTeacherCalendar(schedule, week, loc, stamp)
	if a.Serialize() != b.Serialize() {
		t.Error("相同输入应生成相同日历")
	}
}

func TestBuildTeacherCalendar_BadClock(t *testing.T) {
	schedule := BuildTeacherSchedule("teacher-a", nil)
	schedule.Days[2].Periods = []dto.TeacherSchedulePeriod{{PeriodID: "p-x", StartTime: "9h", EndTime: "10:00"}}

	if _, err := BuildTeacherCalendar(schedule, time.Now(), testLocation(), time.Now()); err == nil {
		t.Error("非法时间应返回错误")
	}
}
