package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Department DepartmentRepository
	Term       TermRepository
	Weekday    WeekdayRepository
	Room       RoomRepository
	Subject    SubjectRepository
	Student    StudentRepository
	Period     PeriodRepository
	Session    SessionRepository
	PlanDay    PlanDayRepository
	Attendance AttendanceRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Department: NewDepartmentRepo(db),
		Term:       NewTermRepo(db),
		Weekday:    NewWeekdayRepo(db),
		Room:       NewRoomRepo(db),
		Subject:    NewSubjectRepo(db),
		Student:    NewStudentRepo(db),
		Period:     NewPeriodRepo(db),
		Session:    NewSessionRepo(db),
		PlanDay:    NewPlanDayRepo(db),
		Attendance: NewAttendanceRepo(db),
	}
}
