package service

import (
	"sort"

	"school-ierp/backend/internal/dto"
	"school-ierp/backend/internal/model"
)

// BuildTeacherSchedule 汇总教师跨课表的周课表
// 结果恒含 7 天（Sunday..Saturday），无课的天为空数组；每天按时间段开始时间排序
func BuildTeacherSchedule(teacherID string, periods []model.Period) *dto.TeacherSchedule {
	byDay := make([][]*model.Period, model.DaysPerWeek)
	for i := range periods {
		p := &periods[i]
		if p.TeacherID != teacherID || !model.ValidDay(p.DayOfWeek) {
			continue
		}
		byDay[p.DayOfWeek] = append(byDay[p.DayOfWeek], p)
	}

	schedule := &dto.TeacherSchedule{
		TeacherID: teacherID,
		Days:      make([]dto.TeacherScheduleDay, 0, model.DaysPerWeek),
	}

	for day := 0; day < model.DaysPerWeek; day++ {
		list := byDay[day]
		sort.SliceStable(list, func(i, j int) bool { return periodBefore(list[i], list[j]) })

		entries := make([]dto.TeacherSchedulePeriod, 0, len(list))
		for _, p := range list {
			entries = append(entries, toTeacherSchedulePeriod(p))
		}
		schedule.Days = append(schedule.Days, dto.TeacherScheduleDay{
			Day:       model.DayNames[day],
			DayOfWeek: day,
			Periods:   entries,
		})
	}

	return schedule
}

// periodBefore 同一天内的课节顺序：开始时间、结束时间、课节 ID
// 未加载时间段的课节排在最后
func periodBefore(a, b *model.Period) bool {
	switch {
	case a.TimeSlot == nil && b.TimeSlot == nil:
		return a.PeriodID < b.PeriodID
	case a.TimeSlot == nil:
		return false
	case b.TimeSlot == nil:
		return true
	}
	if a.TimeSlot.StartTime != b.TimeSlot.StartTime {
		return a.TimeSlot.StartTime < b.TimeSlot.StartTime
	}
	if a.TimeSlot.EndTime != b.TimeSlot.EndTime {
		return a.TimeSlot.EndTime < b.TimeSlot.EndTime
	}
	return a.PeriodID < b.PeriodID
}

func toTeacherSchedulePeriod(p *model.Period) dto.TeacherSchedulePeriod {
	entry := dto.TeacherSchedulePeriod{
		PeriodID:    p.PeriodID,
		TimetableID: p.TimetableID,
		TimeSlotID:  p.TimeSlotID,
		SubjectID:   p.SubjectID,
		ClassID:     p.ClassID,
		SectionID:   p.SectionID,
	}
	if p.TimeSlot != nil {
		entry.StartTime = p.TimeSlot.StartTime
		entry.EndTime = p.TimeSlot.EndTime
	}
	if p.Timetable != nil {
		entry.ClassID = p.Timetable.ClassID
		entry.SectionID = p.Timetable.SectionID
		entry.AcademicYear = p.Timetable.AcademicYear
		entry.Term = p.Timetable.Term
	}
	return entry
}
