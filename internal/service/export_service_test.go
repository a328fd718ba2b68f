package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-gate/backend/internal/dto"
	"campus-gate/backend/internal/model"
	"campus-gate/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *repository.Repository) {
	repo := newMockRepository()
	svc := NewExportService(repo, zap.NewNop())
	return svc, repo
}

func seedExportEvents(t *testing.T, repo *repository.Repository) {
	t.Helper()
	subject := int16(321)
	room := int16(3301)
	events := []model.AttendanceEvent{
		{
			StudentID:  2025001,
			Direction:  model.DirectionEnter,
			OccurredAt: time.Date(2025, 10, 1, 9, 0, 0, 0, time.Local),
			Status:     model.StatusPresent,
			SubjectID:  &subject,
			RoomID:     &room,
			Student:    &model.Student{StudentID: 2025001, Name: "佐藤 太郎"},
			Subject:    &model.Subject{SubjectID: 321, Name: "制御回路設計製作実習"},
			Room:       &model.Room{RoomID: 3301, Name: "C301"},
		},
		{
			StudentID:  2025002,
			Direction:  model.DirectionNone,
			OccurredAt: time.Date(2025, 10, 8, 9, 0, 0, 0, time.Local),
			Status:     model.StatusAbsent,
			SubjectID:  &subject,
			Note:       "retroactive sweep",
		},
	}
	if err := repo.Attendance.InsertBatch(context.Background(), events); err != nil {
		t.Fatalf("夹具写入失败: %v", err)
	}
}

// ── ExportAttendance 测试 ──

func TestExportService_ExportAttendance_NoRecords(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportAttendance(context.Background(), &dto.LogQuery{})
	if !errors.Is(err, ErrExportNoRecords) {
		t.Errorf("期望 ErrExportNoRecords，实际: %v", err)
	}
}

func TestExportService_ExportAttendance_BadDateFilter(t *testing.T) {
	svc, repo := setupTestExportService()
	seedExportEvents(t, repo)

	_, _, err := svc.ExportAttendance(context.Background(), &dto.LogQuery{From: "10月1日"})
	if !errors.Is(err, ErrCalendarBadDate) {
		t.Errorf("期望 ErrCalendarBadDate，实际: %v", err)
	}
}

func TestExportService_ExportAttendance_Success(t *testing.T) {
	svc, repo := setupTestExportService()
	seedExportEvents(t, repo)

	buf, filename, err := svc.ExportAttendance(context.Background(), &dto.LogQuery{})
	if err != nil {
		t.Fatalf("ExportAttendance 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Error("导出的 Excel buffer 不应为空")
	}
	// 文件名跨度取首末记录日期
	if filename != "出席記録_20251001_20251008.xlsx" {
		t.Errorf("文件名非预期: %q", filename)
	}
	// Excel .xlsx 文件以 PK (0x504B) 开头
	if buf.Len() > 2 {
		header := buf.Bytes()[:2]
		if header[0] != 0x50 || header[1] != 0x4B {
			t.Error("输出内容不是有效的 xlsx 文件格式（应以 PK 开头）")
		}
	}
}

func TestExportService_ExportAttendance_Filtered(t *testing.T) {
	svc, repo := setupTestExportService()
	seedExportEvents(t, repo)

	// 区间只覆盖 10-01 → 文件名跨度收窄
	buf, filename, err := svc.ExportAttendance(context.Background(), &dto.LogQuery{
		From: "2025-10-01", To: "2025-10-01",
	})
	if err != nil {
		t.Fatalf("ExportAttendance 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Error("导出的 Excel buffer 不应为空")
	}
	if !strings.Contains(filename, "20251001_20251001") {
		t.Errorf("文件名应只含10-01跨度: %q", filename)
	}

	// 过滤到空集 → 无记录错误
	_, _, err = svc.ExportAttendance(context.Background(), &dto.LogQuery{StudentID: 9999999})
	if !errors.Is(err, ErrExportNoRecords) {
		t.Errorf("期望 ErrExportNoRecords，实际: %v", err)
	}
}

func TestExportService_Labels(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{model.DirectionEnter, "入室"},
		{model.DirectionExit, "退室"},
		{model.DirectionNone, "（補記）"},
	}
	for _, c := range cases {
		if got := directionLabel(c.in); got != c.want {
			t.Errorf("directionLabel(%s) 期望 %s，实际=%s", c.in, c.want, got)
		}
	}

	statuses := map[string]string{
		model.StatusPresent:       "出席",
		model.StatusLate:          "遅刻",
		model.StatusAbsent:        "欠席",
		model.StatusMidEntry:      "中途入室",
		model.StatusMidExit:       "中途退室",
		model.StatusNotApplicable: "対象外",
		model.StatusUndetermined:  "未判定",
	}
	for in, want := range statuses {
		if got := statusLabel(in); got != want {
			t.Errorf("statusLabel(%s) 期望 %s，实际=%s", in, want, got)
		}
	}
}
