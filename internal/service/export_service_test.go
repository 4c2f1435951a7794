package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"school-ierp/backend/internal/model"
)

func TestExportService_ExportTimetable_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Export.ExportTimetable(context.Background(), "nonexistent")
	if !errors.Is(err, ErrTimetableNotFound) {
		t.Errorf("期望 ErrTimetableNotFound，实际: %v", err)
	}
}

func TestExportService_ExportTimetable_Empty(t *testing.T) {
	svc, _ := newTestService()
	tt := mustTimetable(t, svc, "class-1", "A")

	_, _, err := svc.Export.ExportTimetable(context.Background(), tt.ID)
	if !errors.Is(err, ErrExportEmptyTimetable) {
		t.Errorf("期望 ErrExportEmptyTimetable，实际: %v", err)
	}
}

func TestExportService_ExportTimetable_Success(t *testing.T) {
	svc, repos := newTestService()
	seedSlots(repos)
	repos.store.slots["ts-1000"] = &model.TimeSlot{
		TimeSlotID: "ts-1000", StartTime: "10:00", EndTime: "10:15", IsBreak: true, BreakType: strPtr("SHORT BREAK"),
	}
	ctx := context.Background()
	tt := mustTimetable(t, svc, "class-1", "A")
	if _, err := svc.Timetable.AddPeriod(ctx, tt.ID, periodReq(1, "ts-0900", "math", "teacher-a"), adminCaller); err != nil {
		t.Fatalf("AddPeriod 失败: %v", err)
	}

	buf, filename, err := svc.Export.ExportTimetable(ctx, tt.ID)
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") || !strings.Contains(filename, "class-1") {
		t.Errorf("文件名不正确: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法解析导出的 Excel: %v", err)
	}
	defer f.Close()

	checks := map[string]string{
		"A2": "时间",
		"B2": "Sunday",
		"H2": "Saturday",
		"A3": "08:00-08:45",
		"A4": "09:00-09:45",
		"C4": "math (teacher-a)",
		"B4": "-",
		"B5": "SHORT BREAK",
	}
	for cellName, want := range checks {
		got, _ := f.GetCellValue(gridSheet, cellName)
		if got != want {
			t.Errorf("%s 期望 %q，实际 %q", cellName, want, got)
		}
	}
}

func TestExportService_ExportTeacherSchedule(t *testing.T) {
	svc, repos := newTestService()
	seedSlots(repos)
	ctx := context.Background()
	tt := mustTimetable(t, svc, "class-1", "A")
	if _, err := svc.Timetable.AddPeriod(ctx, tt.ID, periodReq(1, "ts-0900", "math", "teacher-a"), adminCaller); err != nil {
		t.Fatalf("AddPeriod 失败: %v", err)
	}

	buf, filename, err := svc.Export.ExportTeacherSchedule(ctx, "teacher-a")
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if filename != "教师课表_teacher-a.xlsx" {
		t.Errorf("文件名不正确: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法解析导出的 Excel: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(scheduleSheet)
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 表头 + 7 天（Monday 一节课）
	if len(rows) != 8 {
		t.Fatalf("期望 8 行，实际 %d", len(rows))
	}
	monday := rows[2]
	if monday[0] != "Monday" || monday[1] != "09:00-09:45" || monday[2] != "math" || monday[3] != "class-1" {
		t.Errorf("Monday 行不正确: %v", monday)
	}
	if rows[1][0] != "Sunday" || rows[1][1] != "-" {
		t.Errorf("无课的日期应输出占位行: %v", rows[1])
	}
}

func TestExportService_ExportTeacherCalendar(t *testing.T) {
	svc, repos := newTestService()
	seedSlots(repos)
	ctx := context.Background()
	tt := mustTimetable(t, svc, "class-1", "A")
	if _, err := svc.Timetable.AddPeriod(ctx, tt.ID, periodReq(5, "ts-0800", "math", "teacher-a"), adminCaller); err != nil {
		t.Fatalf("AddPeriod 失败: %v", err)
	}

	// week_start=2026-10-18 经 time.DateOnly 解析后为 UTC 零点
	buf, filename, err := svc.Export.ExportTeacherCalendar(ctx, "teacher-a", time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if filename != "教师课表_teacher-a.ics" {
		t.Errorf("文件名不正确: %s", filename)
	}

	body := buf.String()
	if !strings.HasPrefix(body, "BEGIN:VCALENDAR") {
		t.Fatalf("输出不是 iCalendar: %.40s", body)
	}
	if !strings.Contains(body, "BYDAY=FR") {
		t.Errorf("周五课节应生成 BYDAY=FR: %s", body)
	}
	if !strings.Contains(body, "DTSTART;TZID=Asia/Shanghai:20261023T080000") {
		t.Errorf("DTSTART 应为学校时区本地时间: %s", body)
	}
}

func TestExportService_ExportTeacherCalendar_ConfiguredLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("缺少 tzdata: %v", err)
	}
	repo, repos := newTestRepository()
	svc := NewService(repo, ny, zap.NewNop())
	seedSlots(repos)
	ctx := context.Background()
	tt := mustTimetable(t, svc, "class-1", "A")
	if _, err := svc.Timetable.AddPeriod(ctx, tt.ID, periodReq(1, "ts-0800", "math", "teacher-a"), adminCaller); err != nil {
		t.Fatalf("AddPeriod 失败: %v", err)
	}

	buf, _, err := svc.Export.ExportTeacherCalendar(ctx, "teacher-a", time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	body := buf.String()
	for _, want := range []string{
		"X-WR-TIMEZONE:America/New_York",
		"DTSTART;TZID=America/New_York:20261019T080000",
		"DTEND;TZID=America/New_York:20261019T084500",
		"BYDAY=MO",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("缺少 %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "Asia/Shanghai") {
		t.Errorf("不应出现默认时区: %s", body)
	}
}

func TestExportService_ExportTeacherCalendar_DefaultWeek(t *testing.T) {
	svc, repos := newTestService()
	seedSlots(repos)
	ctx := context.Background()
	tt := mustTimetable(t, svc, "class-1", "A")
	if _, err := svc.Timetable.AddPeriod(ctx, tt.ID, periodReq(3, "ts-0900", "math", "teacher-a"), adminCaller); err != nil {
		t.Fatalf("AddPeriod 失败: %v", err)
	}

	// 零值取当前周
	buf, _, err := svc.Export.ExportTeacherCalendar(ctx, "teacher-a", time.Time{})
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	wed := WeekStart(time.Now().In(testLocation()), testLocation()).AddDate(0, 0, 3)
	want := "DTSTART;TZID=Asia/Shanghai:" + wed.Format("20060102") + "T090000"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("期望包含 %q:\n%s", want, buf.String())
	}
}
