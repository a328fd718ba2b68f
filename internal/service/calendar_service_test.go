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

func setupTestCalendarService() (CalendarService, *repository.Repository) {
	repo := newMockRepository()
	repo.Term.Upsert(context.Background(), &model.Term{TermID: 3, Name: "三期"})
	repo.Term.Upsert(context.Background(), &model.Term{TermID: 4, Name: "四期"})
	svc := NewCalendarService(repo, zap.NewNop())
	return svc, repo
}

// ── ResolveDate：月份启发式 ──

func TestCalendarService_ResolveDate_Heuristic(t *testing.T) {
	svc, _ := setupTestCalendarService()

	// 2025-10-01 是周三，10月 → 三期
	weekday, termID, err := svc.ResolveDate(context.Background(), time.Date(2025, 10, 1, 9, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("ResolveDate 应成功: %v", err)
	}
	if weekday != 3 {
		t.Errorf("期望曜日=3，实际=%d", weekday)
	}
	if termID == nil || *termID != 3 {
		t.Errorf("期望期=3，实际=%v", termID)
	}

	// 2026-01-05 是周一，1月 → 四期
	weekday, termID, err = svc.ResolveDate(context.Background(), time.Date(2026, 1, 5, 9, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("ResolveDate 应成功: %v", err)
	}
	if weekday != 1 {
		t.Errorf("期望曜日=1，实际=%d", weekday)
	}
	if termID == nil || *termID != 4 {
		t.Errorf("期望期=4，实际=%v", termID)
	}

	// 5月不属于任何期
	_, termID, err = svc.ResolveDate(context.Background(), time.Date(2026, 5, 11, 9, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("ResolveDate 应成功: %v", err)
	}
	if termID != nil {
		t.Errorf("5月期望无期，实际=%v", termID)
	}

	// 周末按实际曜日返回（2025-10-04 周六）
	weekday, _, err = svc.ResolveDate(context.Background(), time.Date(2025, 10, 4, 9, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("ResolveDate 应成功: %v", err)
	}
	if weekday != 6 {
		t.Errorf("期望曜日=6，实际=%d", weekday)
	}
}

// ── ResolveDate：授業計画优先于启发式 ──

func TestCalendarService_ResolveDate_PlanOverride(t *testing.T) {
	svc, _ := setupTestCalendarService()

	// 把 2025-10-01（周三）标记为休講日
	_, err := svc.UpsertPlanDay(context.Background(), &dto.UpsertPlanDayRequest{
		Date:        "2025-10-01",
		WeekdayCode: model.WeekdayOffDay,
		Label:       "学园祭",
	})
	if err != nil {
		t.Fatalf("UpsertPlanDay 应成功: %v", err)
	}

	weekday, termID, err := svc.ResolveDate(context.Background(), time.Date(2025, 10, 1, 9, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("ResolveDate 应成功: %v", err)
	}
	if weekday != model.WeekdayOffDay {
		t.Errorf("計画应覆盖曜日推导，期望=9，实际=%d", weekday)
	}
	if termID != nil {
		t.Errorf("休講日期望无期，实际=%v", termID)
	}

	// 删除計画后回退到启发式
	if err := svc.DeletePlanDay(context.Background(), "2025-10-01"); err != nil {
		t.Fatalf("DeletePlanDay 应成功: %v", err)
	}
	weekday, termID, _ = svc.ResolveDate(context.Background(), time.Date(2025, 10, 1, 9, 0, 0, 0, time.Local))
	if weekday != 3 || termID == nil || *termID != 3 {
		t.Errorf("删除計画后应回退到启发式，实际 weekday=%d term=%v", weekday, termID)
	}
}

// ── 補課日：周六按計画排课 ──

func TestCalendarService_ResolveDate_MakeupSaturday(t *testing.T) {
	svc, _ := setupTestCalendarService()

	// 2025-10-04 周六按周一的时间割補課
	term := int16(3)
	_, err := svc.UpsertPlanDay(context.Background(), &dto.UpsertPlanDayRequest{
		Date:        "2025-10-04",
		TermID:      &term,
		WeekdayCode: model.WeekdayMonday,
		Label:       "月曜振替授業",
	})
	if err != nil {
		t.Fatalf("UpsertPlanDay 应成功: %v", err)
	}

	weekday, termID, err := svc.ResolveDate(context.Background(), time.Date(2025, 10, 4, 9, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("ResolveDate 应成功: %v", err)
	}
	if weekday != model.WeekdayMonday {
		t.Errorf("補課日期望曜日=1，实际=%d", weekday)
	}
	if termID == nil || *termID != 3 {
		t.Errorf("補課日期望期=3，实际=%v", termID)
	}
}

func TestCalendarService_UpsertPlanDay_Validation(t *testing.T) {
	svc, _ := setupTestCalendarService()

	_, err := svc.UpsertPlanDay(context.Background(), &dto.UpsertPlanDayRequest{
		Date: "2025/10/01", WeekdayCode: 1,
	})
	if !errors.Is(err, ErrCalendarBadDate) {
		t.Errorf("期望 ErrCalendarBadDate，实际: %v", err)
	}

	_, err = svc.UpsertPlanDay(context.Background(), &dto.UpsertPlanDayRequest{
		Date: "2025-10-01", WeekdayCode: 12,
	})
	if !errors.Is(err, ErrCalendarBadWeekday) {
		t.Errorf("期望 ErrCalendarBadWeekday，实际: %v", err)
	}

	missing := int16(99)
	_, err = svc.UpsertPlanDay(context.Background(), &dto.UpsertPlanDayRequest{
		Date: "2025-10-01", TermID: &missing, WeekdayCode: 1,
	})
	if !errors.Is(err, ErrCalendarTermNotFound) {
		t.Errorf("期望 ErrCalendarTermNotFound，实际: %v", err)
	}
}

// ── ICS 导入 ──

const testICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//campus-gate//test//JP
BEGIN:VEVENT
UID:holiday-1
DTSTART;VALUE=DATE:20251103
DTEND;VALUE=DATE:20251104
SUMMARY:文化の日（祝日）
END:VEVENT
BEGIN:VEVENT
UID:closed-1
DTSTART;VALUE=DATE:20251220
DTEND;VALUE=DATE:20251223
SUMMARY:冬季休講
END:VEVENT
END:VCALENDAR
`

func TestCalendarService_ImportPlanICS(t *testing.T) {
	svc, _ := setupTestCalendarService()

	result, err := svc.ImportPlanICS(context.Background(), strings.NewReader(testICS))
	if err != nil {
		t.Fatalf("ImportPlanICS 应成功: %v", err)
	}
	// 祝日1天 + 休講3天（DTEND 为独占边界）
	if result.ImportedCount != 4 {
		t.Errorf("期望导入4天，实际=%d", result.ImportedCount)
	}

	// 祝日覆盖判定：当日解析应返回 8
	weekday, _, err := svc.ResolveDate(context.Background(), time.Date(2025, 11, 3, 9, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("ResolveDate 应成功: %v", err)
	}
	if weekday != model.WeekdayHoliday {
		t.Errorf("祝日期望曜日=8，实际=%d", weekday)
	}

	// 休講第3天（12-22）也应被展开覆盖
	weekday, _, _ = svc.ResolveDate(context.Background(), time.Date(2025, 12, 22, 9, 0, 0, 0, time.Local))
	if weekday != model.WeekdayOffDay {
		t.Errorf("休講期望曜日=9，实际=%d", weekday)
	}
}

func TestCalendarService_ImportPlanICS_Invalid(t *testing.T) {
	svc, _ := setupTestCalendarService()

	if _, err := svc.ImportPlanICS(context.Background(), strings.NewReader("not an ics")); !errors.Is(err, ErrCalendarICSParse) {
		t.Errorf("期望 ErrCalendarICSParse，实际: %v", err)
	}

	empty := "BEGIN:VCALENDAR\nVERSION:2.0\nPRODID:-//x//y//JP\nEND:VCALENDAR\n"
	if _, err := svc.ImportPlanICS(context.Background(), strings.NewReader(empty)); !errors.Is(err, ErrCalendarICSEmpty) {
		t.Errorf("期望 ErrCalendarICSEmpty，实际: %v", err)
	}
}
