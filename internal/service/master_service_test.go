package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"campus-gate/backend/internal/dto"
	"campus-gate/backend/internal/model"
	"campus-gate/backend/internal/repository"
)

func setupTestMasterService(t *testing.T) (MasterService, *repository.Repository) {
	t.Helper()
	repo := newMockRepository()
	seedMasters(t, repo)
	svc := NewMasterService(repo, zap.NewNop())
	return svc, repo
}

// ── 学科 ──

func TestMasterService_Departments(t *testing.T) {
	svc, _ := setupTestMasterService(t)
	ctx := context.Background()

	dept, err := svc.UpsertDepartment(ctx, &dto.UpsertDepartmentRequest{DepartmentID: 4, Name: "機械系"})
	if err != nil {
		t.Fatalf("UpsertDepartment 应成功: %v", err)
	}
	if dept.DepartmentID != 4 {
		t.Errorf("期望学科ID=4，实际=%d", dept.DepartmentID)
	}

	depts, err := svc.ListDepartments(ctx)
	if err != nil {
		t.Fatalf("ListDepartments 应成功: %v", err)
	}
	if len(depts) != 2 {
		t.Errorf("期望2个学科，实际=%d", len(depts))
	}

	// Upsert 语义：同键覆盖而非报错
	if _, err := svc.UpsertDepartment(ctx, &dto.UpsertDepartmentRequest{DepartmentID: 4, Name: "機械・制御系"}); err != nil {
		t.Fatalf("重复 Upsert 应成功: %v", err)
	}
	depts, _ = svc.ListDepartments(ctx)
	if len(depts) != 2 {
		t.Errorf("覆盖不应新增条目，实际=%d", len(depts))
	}

	if err := svc.DeleteDepartment(ctx, 4); err != nil {
		t.Fatalf("DeleteDepartment 应成功: %v", err)
	}
	if err := svc.DeleteDepartment(ctx, 4); !errors.Is(err, ErrMasterDeptNotFound) {
		t.Errorf("期望 ErrMasterDeptNotFound，实际: %v", err)
	}
}

// ── 教室 / 科目 ──

func TestMasterService_Rooms(t *testing.T) {
	svc, _ := setupTestMasterService(t)
	ctx := context.Background()

	if _, err := svc.UpsertRoom(ctx, &dto.UpsertRoomRequest{RoomID: 3101, Name: "C101", Capacity: 40}); err != nil {
		t.Fatalf("UpsertRoom 应成功: %v", err)
	}
	rooms, err := svc.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms 应成功: %v", err)
	}
	if len(rooms) != 2 {
		t.Errorf("期望2间教室，实际=%d", len(rooms))
	}
	if err := svc.DeleteRoom(ctx, 9999); !errors.Is(err, ErrMasterRoomNotFound) {
		t.Errorf("期望 ErrMasterRoomNotFound，实际: %v", err)
	}
}

func TestMasterService_Subjects(t *testing.T) {
	svc, _ := setupTestMasterService(t)
	ctx := context.Background()

	credits := int16(2)
	subject, err := svc.UpsertSubject(ctx, &dto.UpsertSubjectRequest{
		SubjectID: 380, Name: "標準課題Ⅰ", DepartmentID: 3, Credits: &credits,
	})
	if err != nil {
		t.Fatalf("UpsertSubject 应成功: %v", err)
	}
	if subject.Credits == nil || *subject.Credits != 2 {
		t.Errorf("期望学分=2，实际=%v", subject.Credits)
	}

	// 所属学科必须存在
	_, err = svc.UpsertSubject(ctx, &dto.UpsertSubjectRequest{
		SubjectID: 400, Name: "電子情報系総合実習", DepartmentID: 99,
	})
	if !errors.Is(err, ErrMasterDeptNotFound) {
		t.Errorf("期望 ErrMasterDeptNotFound，实际: %v", err)
	}

	if err := svc.DeleteSubject(ctx, 999); !errors.Is(err, ErrMasterSubjectNotFound) {
		t.Errorf("期望 ErrMasterSubjectNotFound，实际: %v", err)
	}
}

// ── 学生 ──

func TestMasterService_Students(t *testing.T) {
	svc, _ := setupTestMasterService(t)
	ctx := context.Background()

	grade := int16(1)
	student, err := svc.UpsertStudent(ctx, &dto.UpsertStudentRequest{
		StudentID: 2025001, Name: "佐藤 太郎", Grade: &grade, DepartmentID: 3, TermID: 3,
	})
	if err != nil {
		t.Fatalf("UpsertStudent 应成功: %v", err)
	}
	if student.StudentID != 2025001 {
		t.Errorf("期望学籍番号=2025001，实际=%d", student.StudentID)
	}

	got, err := svc.GetStudent(ctx, 2025001)
	if err != nil {
		t.Fatalf("GetStudent 应成功: %v", err)
	}
	if got.Name != "佐藤 太郎" {
		t.Errorf("期望氏名=佐藤 太郎，实际=%q", got.Name)
	}

	// (学科, 期) 过滤
	svc.UpsertStudent(ctx, &dto.UpsertStudentRequest{
		StudentID: 2025003, Name: "田中 次郎", DepartmentID: 3, TermID: 4,
	})
	students, err := svc.ListStudents(ctx, &dto.StudentQuery{DepartmentID: 3, TermID: 3})
	if err != nil {
		t.Fatalf("ListStudents 应成功: %v", err)
	}
	if len(students) != 1 || students[0].StudentID != 2025001 {
		t.Errorf("期望过滤出2025001，实际=%+v", students)
	}

	if err := svc.DeleteStudent(ctx, 2025001); err != nil {
		t.Fatalf("DeleteStudent 应成功: %v", err)
	}
	if _, err := svc.GetStudent(ctx, 2025001); !errors.Is(err, ErrMasterStudentNotFound) {
		t.Errorf("期望 ErrMasterStudentNotFound，实际: %v", err)
	}
}

func TestMasterService_UpsertStudent_FKPrecheck(t *testing.T) {
	svc, _ := setupTestMasterService(t)
	ctx := context.Background()

	_, err := svc.UpsertStudent(ctx, &dto.UpsertStudentRequest{
		StudentID: 2025009, Name: "山田 三郎", DepartmentID: 99, TermID: 3,
	})
	if !errors.Is(err, ErrMasterDeptNotFound) {
		t.Errorf("期望 ErrMasterDeptNotFound，实际: %v", err)
	}

	_, err = svc.UpsertStudent(ctx, &dto.UpsertStudentRequest{
		StudentID: 2025009, Name: "山田 三郎", DepartmentID: 3, TermID: 99,
	})
	if !errors.Is(err, ErrMasterTermNotFound) {
		t.Errorf("期望 ErrMasterTermNotFound，实际: %v", err)
	}
}

// ── 期 / 曜日（只读种别值） ──

func TestMasterService_ListTermsAndWeekdays(t *testing.T) {
	svc, repo := setupTestMasterService(t)
	ctx := context.Background()

	repo.Weekday.Upsert(ctx, &model.Weekday{Code: 1, Name: "月曜日"})
	repo.Weekday.Upsert(ctx, &model.Weekday{Code: 8, Name: "祝日"})

	terms, err := svc.ListTerms(ctx)
	if err != nil {
		t.Fatalf("ListTerms 应成功: %v", err)
	}
	if len(terms) != 1 || terms[0].TermID != 3 {
		t.Errorf("期望只有三期，实际=%+v", terms)
	}

	weekdays, err := svc.ListWeekdays(ctx)
	if err != nil {
		t.Fatalf("ListWeekdays 应成功: %v", err)
	}
	if len(weekdays) != 2 {
		t.Errorf("期望2个曜日种别值，实际=%d", len(weekdays))
	}
}
