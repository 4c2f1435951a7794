package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-ierp/backend/internal/dto"
	"school-ierp/backend/internal/model"
	"school-ierp/backend/internal/repository"
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置下载响应头后写入 Response。
// 表格内容与网格 / 教师课表接口一致，复用同一投影结果。
type ExportService interface {
	// ExportTimetable 导出班级课表网格：行 = 时间段，列 = Sunday..Saturday
	ExportTimetable(ctx context.Context, timetableID string) (*bytes.Buffer, string, error)
	// ExportTeacherSchedule 导出教师周课表：每天一组，按开始时间排列
	ExportTeacherSchedule(ctx context.Context, teacherID string) (*bytes.Buffer, string, error)
	// ExportTeacherCalendar 导出教师周课表为 iCalendar，课节自 weekOf 所在周起每周重复
	// weekOf 为零值时取学校时区的当前周
	ExportTeacherCalendar(ctx context.Context, teacherID string, weekOf time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例，loc 决定日历导出的 TZID
func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, loc: loc, logger: logger}
}

const (
	gridSheet     = "课表"
	scheduleSheet = "教师课表"
)

// ═══════════════════════════════════════════════════════════
// ExportTimetable
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 第 1 行：班级 / 分班 / 学年 / 学期
//   - 第 2 行：| 时间 | Sunday | … | Saturday |
//   - 数据行：单元格为 "科目 (教师)"，休息时段整行合并显示休息类型

func (s *exportService) ExportTimetable(ctx context.Context, timetableID string) (*bytes.Buffer, string, error) {
	timetable, err := s.repo.Timetable.GetByID(ctx, timetableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTimetableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("id", timetableID), zap.Error(err))
		return nil, "", err
	}

	periods, err := s.repo.Period.ListByTimetable(ctx, timetableID)
	if err != nil {
		s.logger.Error("查询课节失败", zap.String("timetableID", timetableID), zap.Error(err))
		return nil, "", err
	}
	slots, err := s.repo.TimeSlot.List(ctx)
	if err != nil {
		s.logger.Error("列出时间段失败", zap.Error(err))
		return nil, "", err
	}

	grid := ProjectGrid(timetable, periods, slots)
	if grid == nil {
		return nil, "", ErrExportEmptyTimetable
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(gridSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	lastCol := colName(model.DaysPerWeek)
	f.SetColWidth(gridSheet, "A", "A", 14)
	f.SetColWidth(gridSheet, "B", lastCol, 20)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	breakStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E7E6E6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	title := fmt.Sprintf("%s-%s %s %s", timetable.ClassID, timetable.SectionID, timetable.AcademicYear, timetable.Term)
	f.SetCellValue(gridSheet, "A1", title)
	f.MergeCell(gridSheet, "A1", cell(lastCol, 1))
	f.SetCellStyle(gridSheet, "A1", cell(lastCol, 1), headerStyle)

	// 表头
	row := 2
	f.SetCellValue(gridSheet, cell("A", row), "时间")
	for day, name := range grid.Days {
		f.SetCellValue(gridSheet, cell(colName(day+1), row), name)
	}
	f.SetCellStyle(gridSheet, cell("A", row), cell(lastCol, row), headerStyle)

	// 数据行
	row = 3
	for _, r := range grid.Rows {
		f.SetCellValue(gridSheet, cell("A", row), r.TimeSlot.StartTime+"-"+r.TimeSlot.EndTime)

		if r.IsBreak && !rowHasPeriods(r) {
			label := "Break"
			if r.BreakType != nil {
				label = *r.BreakType
			}
			f.SetCellValue(gridSheet, cell("B", row), label)
			f.MergeCell(gridSheet, cell("B", row), cell(lastCol, row))
			f.SetCellStyle(gridSheet, cell("B", row), cell(lastCol, row), breakStyle)
			row++
			continue
		}

		for day, c := range r.Cells {
			text := "-"
			if c != nil {
				text = fmt.Sprintf("%s (%s)", c.SubjectID, c.TeacherID)
			}
			f.SetCellValue(gridSheet, cell(colName(day+1), row), text)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("课表_%s_%s_%s_%s.xlsx", timetable.ClassID, timetable.SectionID, timetable.AcademicYear, timetable.Term)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTeacherSchedule
// ═══════════════════════════════════════════════════════════
//
// 表头: | 星期 | 时间 | 科目 | 班级 | 分班 | 学年 | 学期 |
// 无课的日期输出一行 "-"，保证 7 天都出现

func (s *exportService) ExportTeacherSchedule(ctx context.Context, teacherID string) (*bytes.Buffer, string, error) {
	periods, err := s.repo.Period.ListByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询教师课节失败", zap.String("teacherID", teacherID), zap.Error(err))
		return nil, "", err
	}
	schedule := BuildTeacherSchedule(teacherID, periods)

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(scheduleSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"星期", "时间", "科目", "班级", "分班", "学年", "学期"}
	lastCol := colName(len(headers) - 1)
	f.SetColWidth(scheduleSheet, "A", "B", 14)
	f.SetColWidth(scheduleSheet, "C", lastCol, 16)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range headers {
		f.SetCellValue(scheduleSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(scheduleSheet, "A1", cell(lastCol, 1), headerStyle)

	row := 2
	for _, day := range schedule.Days {
		if len(day.Periods) == 0 {
			f.SetCellValue(scheduleSheet, cell("A", row), day.Day)
			f.SetCellValue(scheduleSheet, cell("B", row), "-")
			row++
			continue
		}
		for _, p := range day.Periods {
			values := []string{day.Day, p.StartTime + "-" + p.EndTime, p.SubjectID, p.ClassID, p.SectionID, p.AcademicYear, p.Term}
			for i, v := range values {
				f.SetCellValue(scheduleSheet, cell(colName(i), row), v)
			}
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("教师课表_%s.xlsx", teacherID), nil
}

// ────────────────────── ExportTeacherCalendar ──────────────────────

func (s *exportService) ExportTeacherCalendar(ctx context.Context, teacherID string, weekOf time.Time) (*bytes.Buffer, string, error) {
	periods, err := s.repo.Period.ListByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询教师课节失败", zap.String("teacherID", teacherID), zap.Error(err))
		return nil, "", err
	}
	schedule := BuildTeacherSchedule(teacherID, periods)

	now := time.Now()
	if weekOf.IsZero() {
		weekOf = now.In(s.loc)
	}
	cal, err := BuildTeacherCalendar(schedule, weekOf, s.loc, now)
	if err != nil {
		s.logger.Error("生成日历失败", zap.String("teacherID", teacherID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, fmt.Sprintf("教师课表_%s.ics", teacherID), nil
}

// ── 辅助函数 ──

func rowHasPeriods(r dto.GridRow) bool {
	for _, c := range r.Cells {
		if c != nil {
			return true
		}
	}
	return false
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
