package service

import "school-ierp/backend/internal/model"

// CheckConflict 判定候选课节与已提交课节是否冲突
//
// 判定顺序：
//  1. 同一课表、同一 (day, slot) 已有课节 → ConflictSlotOccupied
//  2. 同一教师、同一 (day, slot) 在任意课表已有课节 → ConflictTeacherDoubleBooked
//
// 不比较科目。返回值第二项为触发冲突的已有课节。
func CheckConflict(candidate *model.Period, occupants []model.Period) (ConflictReason, *model.Period) {
	var teacherClash *model.Period

	for i := range occupants {
		o := &occupants[i]
		if o.DayOfWeek != candidate.DayOfWeek || o.TimeSlotID != candidate.TimeSlotID {
			continue
		}
		if o.TimetableID == candidate.TimetableID {
			return ConflictSlotOccupied, o
		}
		if teacherClash == nil && o.TeacherID == candidate.TeacherID {
			teacherClash = o
		}
	}

	if teacherClash != nil {
		return ConflictTeacherDoubleBooked, teacherClash
	}
	return ConflictNone, nil
}
