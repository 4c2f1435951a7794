package service

import (
	"sort"

	"school-ierp/backend/internal/dto"
	"school-ierp/backend/internal/model"
)

// ProjectGrid 将课表的课节投影为 时间段 × 星期 的网格
//
// timetable 为 nil，或既无课节也无时间段时返回 nil。
// 行按时间段开始时间排序，每行固定 7 列（Sunday..Saturday），无课节的格子为 nil。
// 休息时段行始终保留休息标记，即使该格子排了课。
func ProjectGrid(timetable *model.Timetable, periods []model.Period, timeSlots []model.TimeSlot) *dto.TimetableGrid {
	if timetable == nil {
		return nil
	}
	if len(periods) == 0 && len(timeSlots) == 0 {
		return nil
	}

	slots := make([]*model.TimeSlot, 0, len(timeSlots))
	for i := range timeSlots {
		slots = append(slots, &timeSlots[i])
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Less(slots[j]) })

	type cellKey struct {
		day    int
		slotID string
	}
	cells := make(map[cellKey]*model.Period, len(periods))
	for i := range periods {
		p := &periods[i]
		if p.TimetableID != timetable.TimetableID || !model.ValidDay(p.DayOfWeek) {
			continue
		}
		k := cellKey{day: p.DayOfWeek, slotID: p.TimeSlotID}
		if _, taken := cells[k]; !taken {
			cells[k] = p
		}
	}

	grid := &dto.TimetableGrid{
		Timetable: toTimetableBrief(timetable),
		Days:      model.DayNames,
		Rows:      make([]dto.GridRow, 0, len(slots)),
	}

	for _, slot := range slots {
		row := dto.GridRow{
			TimeSlot:  *toTimeSlotResponse(slot),
			IsBreak:   slot.IsBreak,
			BreakType: slot.BreakType,
			Cells:     make([]*dto.GridCell, model.DaysPerWeek),
		}
		for day := 0; day < model.DaysPerWeek; day++ {
			if p, ok := cells[cellKey{day: day, slotID: slot.TimeSlotID}]; ok {
				row.Cells[day] = &dto.GridCell{
					PeriodID:  p.PeriodID,
					SubjectID: p.SubjectID,
					TeacherID: p.TeacherID,
				}
			}
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid
}
