package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"campus-gate/backend/internal/dto"
	"campus-gate/backend/internal/model"
	"campus-gate/backend/internal/repository"
)

// ── 马斯特数据模块业务错误 ──

var (
	ErrMasterDeptNotFound    = errors.New("学科不存在")
	ErrMasterTermNotFound    = errors.New("期不存在")
	ErrMasterRoomNotFound    = errors.New("教室不存在")
	ErrMasterSubjectNotFound = errors.New("授業科目不存在")
	ErrMasterStudentNotFound = errors.New("学生不存在")
)

// MasterService 马斯特数据（学科/期/曜日/教室/科目/学生）业务接口
// 写操作统一 Upsert 语义：自然主键已存在时更新，便于批量维护
type MasterService interface {
	ListDepartments(ctx context.Context) ([]model.Department, error)
	UpsertDepartment(ctx context.Context, req *dto.UpsertDepartmentRequest) (*model.Department, error)
	DeleteDepartment(ctx context.Context, id int16) error

	ListTerms(ctx context.Context) ([]model.Term, error)
	ListWeekdays(ctx context.Context) ([]model.Weekday, error)

	ListRooms(ctx context.Context) ([]model.Room, error)
	UpsertRoom(ctx context.Context, req *dto.UpsertRoomRequest) (*model.Room, error)
	DeleteRoom(ctx context.Context, id int16) error

	ListSubjects(ctx context.Context) ([]model.Subject, error)
	UpsertSubject(ctx context.Context, req *dto.UpsertSubjectRequest) (*model.Subject, error)
	DeleteSubject(ctx context.Context, id int16) error

	ListStudents(ctx context.Context, q *dto.StudentQuery) ([]model.Student, error)
	GetStudent(ctx context.Context, id int) (*model.Student, error)
	UpsertStudent(ctx context.Context, req *dto.UpsertStudentRequest) (*model.Student, error)
	DeleteStudent(ctx context.Context, id int) error
}

type masterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMasterService 创建 MasterService 实例
func NewMasterService(repo *repository.Repository, logger *zap.Logger) MasterService {
	return &masterService{repo: repo, logger: logger}
}

// ── 学科 ──

func (s *masterService) ListDepartments(ctx context.Context) ([]model.Department, error) {
	return s.repo.Department.List(ctx)
}

func (s *masterService) UpsertDepartment(ctx context.Context, req *dto.UpsertDepartmentRequest) (*model.Department, error) {
	dept := &model.Department{DepartmentID: req.DepartmentID, Name: req.Name}
	if err := s.repo.Department.Upsert(ctx, dept); err != nil {
		return nil, fmt.Errorf("保存学科失败: %w", err)
	}
	return dept, nil
}

func (s *masterService) DeleteDepartment(ctx context.Context, id int16) error {
	if _, err := s.repo.Department.GetByID(ctx, id); err != nil {
		return mapNotFound(err, ErrMasterDeptNotFound)
	}
	return s.repo.Department.Delete(ctx, id)
}

// ── 期 / 曜日（只读） ──

func (s *masterService) ListTerms(ctx context.Context) ([]model.Term, error) {
	return s.repo.Term.List(ctx)
}

func (s *masterService) ListWeekdays(ctx context.Context) ([]model.Weekday, error) {
	return s.repo.Weekday.List(ctx)
}

// ── 教室 ──

func (s *masterService) ListRooms(ctx context.Context) ([]model.Room, error) {
	return s.repo.Room.List(ctx)
}

func (s *masterService) UpsertRoom(ctx context.Context, req *dto.UpsertRoomRequest) (*model.Room, error) {
	room := &model.Room{RoomID: req.RoomID, Name: req.Name, Capacity: req.Capacity}
	if err := s.repo.Room.Upsert(ctx, room); err != nil {
		return nil, fmt.Errorf("保存教室失败: %w", err)
	}
	return room, nil
}

func (s *masterService) DeleteRoom(ctx context.Context, id int16) error {
	if _, err := s.repo.Room.GetByID(ctx, id); err != nil {
		return mapNotFound(err, ErrMasterRoomNotFound)
	}
	return s.repo.Room.Delete(ctx, id)
}

// ── 授業科目 ──

func (s *masterService) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	return s.repo.Subject.List(ctx)
}

func (s *masterService) UpsertSubject(ctx context.Context, req *dto.UpsertSubjectRequest) (*model.Subject, error) {
	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		return nil, mapNotFound(err, ErrMasterDeptNotFound)
	}
	subject := &model.Subject{
		SubjectID:    req.SubjectID,
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
		Credits:      req.Credits,
	}
	if err := s.repo.Subject.Upsert(ctx, subject); err != nil {
		return nil, fmt.Errorf("保存授業科目失败: %w", err)
	}
	return subject, nil
}

func (s *masterService) DeleteSubject(ctx context.Context, id int16) error {
	if _, err := s.repo.Subject.GetByID(ctx, id); err != nil {
		return mapNotFound(err, ErrMasterSubjectNotFound)
	}
	return s.repo.Subject.Delete(ctx, id)
}

// ── 学生 ──

func (s *masterService) ListStudents(ctx context.Context, q *dto.StudentQuery) ([]model.Student, error) {
	return s.repo.Student.List(ctx, q.DepartmentID, q.TermID)
}

func (s *masterService) GetStudent(ctx context.Context, id int) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrMasterStudentNotFound)
	}
	return student, nil
}

func (s *masterService) UpsertStudent(ctx context.Context, req *dto.UpsertStudentRequest) (*model.Student, error) {
	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		return nil, mapNotFound(err, ErrMasterDeptNotFound)
	}
	if _, err := s.repo.Term.GetByID(ctx, req.TermID); err != nil {
		return nil, mapNotFound(err, ErrMasterTermNotFound)
	}
	student := &model.Student{
		StudentID:    req.StudentID,
		Name:         req.Name,
		Grade:        req.Grade,
		DepartmentID: req.DepartmentID,
		TermID:       req.TermID,
	}
	if err := s.repo.Student.Upsert(ctx, student); err != nil {
		return nil, fmt.Errorf("保存学生失败: %w", err)
	}
	s.logger.Info("学生信息已保存", zap.Int("student_id", student.StudentID))
	return student, nil
}

func (s *masterService) DeleteStudent(ctx context.Context, id int) error {
	if _, err := s.repo.Student.GetByID(ctx, id); err != nil {
		return mapNotFound(err, ErrMasterStudentNotFound)
	}
	return s.repo.Student.Delete(ctx, id)
}
