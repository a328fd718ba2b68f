package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"campus-gate/backend/internal/model"
	"campus-gate/backend/internal/repository"
)

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	depts map[int16]*model.Department
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[int16]*model.Department)}
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.depts {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DepartmentID < result[j].DepartmentID })
	return result, nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id int16) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) Upsert(_ context.Context, dept *model.Department) error {
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id int16) error {
	delete(m.depts, id)
	return nil
}

// ── Mock TermRepository ──

type mockTermRepo struct {
	terms map[int16]*model.Term
}

func newMockTermRepo() *mockTermRepo {
	return &mockTermRepo{terms: make(map[int16]*model.Term)}
}

func (m *mockTermRepo) List(_ context.Context) ([]model.Term, error) {
	var result []model.Term
	for _, t := range m.terms {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TermID < result[j].TermID })
	return result, nil
}

func (m *mockTermRepo) GetByID(_ context.Context, id int16) (*model.Term, error) {
	if t, ok := m.terms[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTermRepo) Upsert(_ context.Context, term *model.Term) error {
	m.terms[term.TermID] = term
	return nil
}

// ── Mock WeekdayRepository ──

type mockWeekdayRepo struct {
	weekdays map[int16]*model.Weekday
}

func newMockWeekdayRepo() *mockWeekdayRepo {
	return &mockWeekdayRepo{weekdays: make(map[int16]*model.Weekday)}
}

func (m *mockWeekdayRepo) List(_ context.Context) ([]model.Weekday, error) {
	var result []model.Weekday
	for _, w := range m.weekdays {
		result = append(result, *w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockWeekdayRepo) Upsert(_ context.Context, wd *model.Weekday) error {
	m.weekdays[wd.Code] = wd
	return nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[int16]*model.Room
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[int16]*model.Room)}
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoomID < result[j].RoomID })
	return result, nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id int16) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) Upsert(_ context.Context, room *model.Room) error {
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id int16) error {
	delete(m.rooms, id)
	return nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[int16]*model.Subject
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[int16]*model.Subject)}
}

func (m *mockSubjectRepo) List(_ context.Context) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubjectID < result[j].SubjectID })
	return result, nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id int16) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) Upsert(_ context.Context, subject *model.Subject) error {
	m.subjects[subject.SubjectID] = subject
	return nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id int16) error {
	delete(m.subjects, id)
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[int]*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[int]*model.Student)}
}

func (m *mockStudentRepo) GetByID(_ context.Context, id int) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context, departmentID, termID int16) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if departmentID != 0 && s.DepartmentID != departmentID {
			continue
		}
		if termID != 0 && s.TermID != termID {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result, nil
}

func (m *mockStudentRepo) Upsert(_ context.Context, student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id int) error {
	delete(m.students, id)
	return nil
}

// ── Mock PeriodRepository ──

type mockPeriodRepo struct {
	periods []model.Period
}

func newMockPeriodRepo() *mockPeriodRepo {
	return &mockPeriodRepo{}
}

func (m *mockPeriodRepo) List(_ context.Context) ([]model.Period, error) {
	result := make([]model.Period, len(m.periods))
	copy(result, m.periods)
	return result, nil
}

func (m *mockPeriodRepo) ReplaceAll(_ context.Context, periods []model.Period) error {
	m.periods = make([]model.Period, len(periods))
	copy(m.periods, periods)
	return nil
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	sessions map[int]*model.ScheduledSession
	nextID   int
	subjects *mockSubjectRepo
	rooms    *mockRoomRepo
}

func newMockSessionRepo(subjects *mockSubjectRepo, rooms *mockRoomRepo) *mockSessionRepo {
	return &mockSessionRepo{
		sessions: make(map[int]*model.ScheduledSession),
		nextID:   1,
		subjects: subjects,
		rooms:    rooms,
	}
}

// attach 模拟真实仓库的 Preload("Subject")/Preload("Room")
func (m *mockSessionRepo) attach(s *model.ScheduledSession) {
	if sub, ok := m.subjects.subjects[s.SubjectID]; ok {
		s.Subject = sub
	}
	if s.RoomID != nil {
		if room, ok := m.rooms.rooms[*s.RoomID]; ok {
			s.Room = room
		}
	}
}

func (m *mockSessionRepo) FindByKey(_ context.Context, key model.SessionKey) (*model.ScheduledSession, error) {
	for _, s := range m.sessions {
		if s.Key() == key {
			m.attach(s)
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) ListForCohortDay(_ context.Context, year, departmentID, termID, weekday int16) ([]model.ScheduledSession, error) {
	var result []model.ScheduledSession
	for _, s := range m.sessions {
		if s.Year == year && s.DepartmentID == departmentID && s.TermID == termID && s.Weekday == weekday {
			m.attach(s)
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Period < result[j].Period })
	return result, nil
}

func (m *mockSessionRepo) List(_ context.Context, year, departmentID, termID, weekday int16) ([]model.ScheduledSession, error) {
	var result []model.ScheduledSession
	for _, s := range m.sessions {
		if year != 0 && s.Year != year {
			continue
		}
		if departmentID != 0 && s.DepartmentID != departmentID {
			continue
		}
		if termID != 0 && s.TermID != termID {
			continue
		}
		if weekday != 0 && s.Weekday != weekday {
			continue
		}
		m.attach(s)
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SessionID < result[j].SessionID })
	return result, nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id int) (*model.ScheduledSession, error) {
	if s, ok := m.sessions[id]; ok {
		m.attach(s)
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) Create(_ context.Context, session *model.ScheduledSession) error {
	if session.SessionID == 0 {
		session.SessionID = m.nextID
		m.nextID++
	}
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockSessionRepo) Update(_ context.Context, session *model.ScheduledSession) error {
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id int) error {
	delete(m.sessions, id)
	return nil
}

// ── Mock PlanDayRepository ──

type mockPlanDayRepo struct {
	days map[string]*model.ClassPlanDay // key: YYYY-MM-DD
}

func newMockPlanDayRepo() *mockPlanDayRepo {
	return &mockPlanDayRepo{days: make(map[string]*model.ClassPlanDay)}
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func (m *mockPlanDayRepo) GetByDate(_ context.Context, date time.Time) (*model.ClassPlanDay, error) {
	if d, ok := m.days[dayKey(date)]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanDayRepo) ListRange(_ context.Context, from, to time.Time) ([]model.ClassPlanDay, error) {
	var result []model.ClassPlanDay
	for _, d := range m.days {
		if d.PlanDate.Before(from) || d.PlanDate.After(to) {
			continue
		}
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PlanDate.Before(result[j].PlanDate) })
	return result, nil
}

func (m *mockPlanDayRepo) Upsert(_ context.Context, day *model.ClassPlanDay) error {
	m.days[dayKey(day.PlanDate)] = day
	return nil
}

func (m *mockPlanDayRepo) BatchUpsert(_ context.Context, days []model.ClassPlanDay) error {
	for i := range days {
		d := days[i]
		m.days[dayKey(d.PlanDate)] = &d
	}
	return nil
}

func (m *mockPlanDayRepo) Delete(_ context.Context, date time.Time) error {
	delete(m.days, dayKey(date))
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	events []model.AttendanceEvent
	nextID int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{nextID: 1}
}

func (m *mockAttendanceRepo) assignID(ev *model.AttendanceEvent) {
	if ev.EventID == "" {
		ev.EventID = fmt.Sprintf("ev-%04d", m.nextID)
		m.nextID++
	}
}

func (m *mockAttendanceRepo) CreateInSwipeTx(_ context.Context, studentID int, dayStart, dayEnd time.Time,
	build func(priors []model.AttendanceEvent) (*model.AttendanceEvent, error)) (*model.AttendanceEvent, error) {

	var priors []model.AttendanceEvent
	for i := range m.events {
		ev := m.events[i]
		if ev.StudentID != studentID {
			continue
		}
		if ev.Direction != model.DirectionEnter && ev.Direction != model.DirectionExit {
			continue
		}
		if ev.OccurredAt.Before(dayStart) || !ev.OccurredAt.Before(dayEnd) {
			continue
		}
		priors = append(priors, ev)
	}
	sort.Slice(priors, func(i, j int) bool { return priors[i].OccurredAt.Before(priors[j].OccurredAt) })

	event, err := build(priors)
	if err != nil {
		return nil, err
	}
	m.assignID(event)
	m.events = append(m.events, *event)
	return event, nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.AttendanceEvent, error) {
	for i := range m.events {
		if m.events[i].EventID == id {
			return &m.events[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) matches(ev *model.AttendanceEvent, filter repository.LogFilter) bool {
	if filter.StudentID != 0 && ev.StudentID != filter.StudentID {
		return false
	}
	if filter.Status != "" && ev.Status != filter.Status {
		return false
	}
	if filter.From != nil && ev.OccurredAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && !ev.OccurredAt.Before(*filter.To) {
		return false
	}
	return true
}

func (m *mockAttendanceRepo) ListLogs(_ context.Context, filter repository.LogFilter, offset, limit int) ([]model.AttendanceEvent, int64, error) {
	var all []model.AttendanceEvent
	for i := range m.events {
		if m.matches(&m.events[i], filter) {
			all = append(all, m.events[i])
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].OccurredAt.After(all[j].OccurredAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockAttendanceRepo) ListAllForExport(_ context.Context, filter repository.LogFilter) ([]model.AttendanceEvent, error) {
	var all []model.AttendanceEvent
	for i := range m.events {
		if m.matches(&m.events[i], filter) {
			all = append(all, m.events[i])
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].OccurredAt.Before(all[j].OccurredAt) })
	return all, nil
}

func (m *mockAttendanceRepo) Delete(_ context.Context, id string) error {
	for i := range m.events {
		if m.events[i].EventID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(m.events))
	m.events = nil
	return n, nil
}

func (m *mockAttendanceRepo) ListUndetermined(_ context.Context, limit int) ([]model.AttendanceEvent, error) {
	var result []model.AttendanceEvent
	for i := range m.events {
		if m.events[i].Status == model.StatusUndetermined {
			result = append(result, m.events[i])
		}
		if len(result) >= limit {
			break
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

func (m *mockAttendanceRepo) UpdateStatus(_ context.Context, id, status string, sessionID *int, subjectID, roomID *int16) error {
	for i := range m.events {
		if m.events[i].EventID != id {
			continue
		}
		m.events[i].Status = status
		if sessionID != nil {
			m.events[i].SessionID = sessionID
		}
		if subjectID != nil {
			m.events[i].SubjectID = subjectID
		}
		if roomID != nil {
			m.events[i].RoomID = roomID
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) PurgeSyntheticAbsences(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []model.AttendanceEvent
	var purged int64
	for i := range m.events {
		ev := m.events[i]
		if ev.Status == model.StatusAbsent && ev.Direction == model.DirectionNone && !ev.OccurredAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, ev)
	}
	m.events = kept
	return purged, nil
}

func (m *mockAttendanceRepo) HasSwipeInWindow(_ context.Context, studentID int, from, to time.Time) (bool, error) {
	for i := range m.events {
		ev := &m.events[i]
		if ev.StudentID != studentID {
			continue
		}
		if ev.Direction != model.DirectionEnter && ev.Direction != model.DirectionExit {
			continue
		}
		if !ev.OccurredAt.Before(from) && !ev.OccurredAt.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAttendanceRepo) HasRecordAt(_ context.Context, studentID int, at time.Time) (bool, error) {
	for i := range m.events {
		if m.events[i].StudentID == studentID && m.events[i].OccurredAt.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAttendanceRepo) InsertBatch(_ context.Context, events []model.AttendanceEvent) error {
	for i := range events {
		ev := events[i]
		m.assignID(&ev)
		m.events = append(m.events, ev)
	}
	return nil
}

// ── 聚合构造 ──

// newMockRepository 返回挂满内存实现的 Repository 聚合
func newMockRepository() *repository.Repository {
	subjects := newMockSubjectRepo()
	rooms := newMockRoomRepo()
	return &repository.Repository{
		Department: newMockDeptRepo(),
		Term:       newMockTermRepo(),
		Weekday:    newMockWeekdayRepo(),
		Room:       rooms,
		Subject:    subjects,
		Student:    newMockStudentRepo(),
		Period:     newMockPeriodRepo(),
		Session:    newMockSessionRepo(subjects, rooms),
		PlanDay:    newMockPlanDayRepo(),
		Attendance: newMockAttendanceRepo(),
	}
}
