package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-ierp/backend/internal/model"
	"school-ierp/backend/internal/repository"
	apperrors "school-ierp/backend/pkg/errors"
)

// ── 内存数据 ──
// 各 mock 共享同一份数据，以便课节查询能关联时间段与课表，
// 唯一约束与外键按迁移中的定义模拟。

type mockStore struct {
	slots       map[string]*model.TimeSlot
	timetables  map[string]*model.Timetable
	periods     map[string]*model.Period
	assignments map[string]bool // teacherID|classID|sectionID
	seq         int
}

func newMockStore() *mockStore {
	return &mockStore{
		slots:       make(map[string]*model.TimeSlot),
		timetables:  make(map[string]*model.Timetable),
		periods:     make(map[string]*model.Period),
		assignments: make(map[string]bool),
	}
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%03d", prefix, s.seq)
}

func (s *mockStore) assign(teacherID, classID, sectionID string) {
	s.assignments[teacherID+"|"+classID+"|"+sectionID] = true
}

// withRefs 返回附带 TimeSlot / Timetable 关联的副本
func (s *mockStore) withRefs(p *model.Period) model.Period {
	cp := *p
	if ts, ok := s.slots[p.TimeSlotID]; ok {
		slot := *ts
		cp.TimeSlot = &slot
	}
	if tt, ok := s.timetables[p.TimetableID]; ok {
		timetable := *tt
		cp.Timetable = &timetable
	}
	return cp
}

// ── Mock TimeSlotRepository ──

type mockTimeSlotRepo struct {
	store   *mockStore
	listErr error
}

func (m *mockTimeSlotRepo) Create(_ context.Context, slot *model.TimeSlot) error {
	if slot.TimeSlotID == "" {
		slot.TimeSlotID = m.store.nextID("ts")
	}
	cp := *slot
	m.store.slots[slot.TimeSlotID] = &cp
	return nil
}

func (m *mockTimeSlotRepo) GetByID(_ context.Context, id string) (*model.TimeSlot, error) {
	if s, ok := m.store.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) GetByIDForShare(ctx context.Context, id string) (*model.TimeSlot, error) {
	return m.GetByID(ctx, id)
}

func (m *mockTimeSlotRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.TimeSlot, error) {
	return m.GetByID(ctx, id)
}

func (m *mockTimeSlotRepo) List(_ context.Context) ([]model.TimeSlot, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]model.TimeSlot, 0, len(m.store.slots))
	for _, s := range m.store.slots {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Less(&result[j]) })
	return result, nil
}

func (m *mockTimeSlotRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.store.slots[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, p := range m.store.periods {
		if p.TimeSlotID == id {
			return fmt.Errorf("%w: fk_periods_time_slot", apperrors.ErrForeignKeyViolation)
		}
	}
	delete(m.store.slots, id)
	return nil
}

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	store *mockStore
}

func (m *mockTimetableRepo) GetOrCreate(ctx context.Context, timetable *model.Timetable) (*model.Timetable, error) {
	if existing, err := m.GetByKey(ctx, timetable.Key()); err == nil {
		return existing, nil
	}
	cp := *timetable
	cp.TimetableID = m.store.nextID("tt")
	m.store.timetables[cp.TimetableID] = &cp
	out := cp
	return &out, nil
}

func (m *mockTimetableRepo) GetByKey(_ context.Context, key model.TimetableKey) (*model.Timetable, error) {
	for _, t := range m.store.timetables {
		if t.Key() == key {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) GetByID(_ context.Context, id string) (*model.Timetable, error) {
	if t, ok := m.store.timetables[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) List(_ context.Context, f repository.TimetableFilter, offset, limit int) ([]model.Timetable, int64, error) {
	var matched []model.Timetable
	for _, t := range m.store.timetables {
		if f.ClassID != "" && t.ClassID != f.ClassID {
			continue
		}
		if f.SectionID != "" && t.SectionID != f.SectionID {
			continue
		}
		if f.AcademicYear != "" && t.AcademicYear != f.AcademicYear {
			continue
		}
		if f.Term != "" && t.Term != f.Term {
			continue
		}
		matched = append(matched, *t)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].TimetableID < matched[j].TimetableID })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.Timetable{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// ── Mock PeriodRepository ──

type mockPeriodRepo struct {
	store *mockStore
	// hideOccupants 模拟并发：冲突检查看不到已提交课节，只能由唯一约束拦截
	hideOccupants bool
}

func (m *mockPeriodRepo) Create(_ context.Context, period *model.Period) error {
	if _, ok := m.store.slots[period.TimeSlotID]; !ok {
		return fmt.Errorf("%w: fk_periods_time_slot", apperrors.ErrForeignKeyViolation)
	}
	for _, p := range m.store.periods {
		if p.DayOfWeek != period.DayOfWeek || p.TimeSlotID != period.TimeSlotID {
			continue
		}
		if p.TimetableID == period.TimetableID {
			return fmt.Errorf("%w: duplicate", apperrors.ErrUniquePeriodSlot)
		}
		if p.TeacherID == period.TeacherID {
			return fmt.Errorf("%w: duplicate", apperrors.ErrUniquePeriodTeacher)
		}
	}
	if period.PeriodID == "" {
		period.PeriodID = m.store.nextID("p")
	}
	cp := *period
	cp.TimeSlot, cp.Timetable = nil, nil
	m.store.periods[period.PeriodID] = &cp
	return nil
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.Period, error) {
	if p, ok := m.store.periods[id]; ok {
		cp := m.store.withRefs(p)
		cp.Timetable = nil
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) ListOccupants(_ context.Context, dayOfWeek int, timeSlotID, timetableID, teacherID string) ([]model.Period, error) {
	if m.hideOccupants {
		return nil, nil
	}
	var result []model.Period
	for _, p := range m.store.periods {
		if p.DayOfWeek == dayOfWeek && p.TimeSlotID == timeSlotID &&
			(p.TimetableID == timetableID || p.TeacherID == teacherID) {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPeriodRepo) ListByTimetable(_ context.Context, timetableID string) ([]model.Period, error) {
	var result []model.Period
	for _, p := range m.store.periods {
		if p.TimetableID == timetableID {
			cp := m.store.withRefs(p)
			cp.Timetable = nil
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return periodBefore(&result[i], &result[j])
	})
	return result, nil
}

func (m *mockPeriodRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.Period, error) {
	var result []model.Period
	for _, p := range m.store.periods {
		if p.TeacherID == teacherID {
			result = append(result, m.store.withRefs(p))
		}
	}
	return result, nil
}

func (m *mockPeriodRepo) CountByTimeSlot(_ context.Context, timeSlotID string) (int64, error) {
	var n int64
	for _, p := range m.store.periods {
		if p.TimeSlotID == timeSlotID {
			n++
		}
	}
	return n, nil
}

func (m *mockPeriodRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.store.periods[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.store.periods, id)
	return nil
}

// ── Mock ClassTeacherAssignmentRepository ──

type mockAssignmentRepo struct {
	store *mockStore
	err   error
}

func (m *mockAssignmentRepo) Exists(_ context.Context, teacherID, classID, sectionID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.store.assignments[teacherID+"|"+classID+"|"+sectionID], nil
}

// ── 测试辅助 ──

type testRepos struct {
	store      *mockStore
	timeSlot   *mockTimeSlotRepo
	timetable  *mockTimetableRepo
	period     *mockPeriodRepo
	assignment *mockAssignmentRepo
}

func newTestRepository() (*repository.Repository, *testRepos) {
	store := newMockStore()
	r := &testRepos{
		store:      store,
		timeSlot:   &mockTimeSlotRepo{store: store},
		timetable:  &mockTimetableRepo{store: store},
		period:     &mockPeriodRepo{store: store},
		assignment: &mockAssignmentRepo{store: store},
	}
	repo := &repository.Repository{
		TimeSlot:               r.timeSlot,
		Timetable:              r.timetable,
		Period:                 r.period,
		ClassTeacherAssignment: r.assignment,
	}
	return repo, r
}

func newTestService() (*Service, *testRepos) {
	repo, r := newTestRepository()
	return NewService(repo, testLocation(), zap.NewNop()), r
}

// testLocation 测试使用的学校时区
func testLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		panic(err)
	}
	return loc
}
