package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"campus-gate/backend/config"
	"campus-gate/backend/internal/dto"
	"campus-gate/backend/internal/model"
	"campus-gate/backend/internal/repository"
)

// ── 追溯欠席批处理业务错误 ──

var (
	ErrSweepBadWindow    = errors.New("批处理窗口非法")
	ErrSweepDeptNotFound = errors.New("学科不存在")
	ErrSweepTermNotFound = errors.New("期不存在")
)

// ── SweepService 接口 ──────────────────────────────────────
//
// 设计说明：
//   - 两阶段：先清除未到期（今日及以后）的合成欠席记录，再逐日扫描
//     补插欠席。清除只动 direction=none 的合成记录，真实刷卡产生的
//     欠席判定不受影响。
//   - 逐日一个事务、增量提交：不为整个多日扫描持有长事务；
//     中途失败只丢当日，已提交的日保持不变。
//   - 幂等：重复执行同一窗口不产生新行（重复插入防护 + 清除只删未来）。
//   - 整体受配置的 deadline 约束，防止 学生数 × 天数 失控。
// ─────────────────────────────────────────────────────────────

// SweepService 追溯欠席批处理业务接口
type SweepService interface {
	// Sweep 对指定 cohort 在窗口内补插欠席记录；窗口省略时取默认回溯窗口
	Sweep(ctx context.Context, req *dto.SweepRequest) (*dto.SweepResponse, error)
}

type sweepService struct {
	cfg      *config.Config
	repo     *repository.Repository
	calendar CalendarService
	clock    Clock
	logger   *zap.Logger
}

// NewSweepService 创建 SweepService 实例
func NewSweepService(cfg *config.Config, repo *repository.Repository, calendar CalendarService, clock Clock, logger *zap.Logger) SweepService {
	if clock == nil {
		clock = time.Now
	}
	return &sweepService{cfg: cfg, repo: repo, calendar: calendar, clock: clock, logger: logger}
}

func (s *sweepService) Sweep(ctx context.Context, req *dto.SweepRequest) (*dto.SweepResponse, error) {
	now := s.clock()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// ── 窗口确定：默认 30 天前 至 昨天；扫描严格限于过去 ──
	from := today.AddDate(0, 0, -s.cfg.Sweep.WindowDays)
	to := today.AddDate(0, 0, -1)
	if req.From != "" {
		t, err := parseDate(req.From)
		if err != nil {
			return nil, ErrSweepBadWindow
		}
		from = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	}
	if req.To != "" {
		t, err := parseDate(req.To)
		if err != nil {
			return nil, ErrSweepBadWindow
		}
		to = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	}
	if to.After(today.AddDate(0, 0, -1)) {
		to = today.AddDate(0, 0, -1)
	}
	if from.After(to) {
		return nil, ErrSweepBadWindow
	}

	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		return nil, mapNotFound(err, ErrSweepDeptNotFound)
	}
	if _, err := s.repo.Term.GetByID(ctx, req.TermID); err != nil {
		return nil, mapNotFound(err, ErrSweepTermNotFound)
	}

	// 整体 deadline 防护
	if s.cfg.Sweep.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Sweep.Timeout)
		defer cancel()
	}

	// ── 阶段 1：清除未到期的合成欠席记录（独立事务） ──
	purged, err := s.repo.Attendance.PurgeSyntheticAbsences(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("清除合成欠席记录失败: %w", err)
	}

	// ── 阶段 2：逐日扫描 ──
	students, err := s.repo.Student.List(ctx, req.DepartmentID, req.TermID)
	if err != nil {
		return nil, err
	}
	periods, err := s.repo.Period.List(ctx)
	if err != nil {
		return nil, err
	}
	periodByOrdinal := make(map[int16]model.Period, len(periods))
	for _, p := range periods {
		periodByOrdinal[p.Ordinal] = p
	}

	resp := &dto.SweepResponse{
		From:        from.Format("2006-01-02"),
		To:          to.Format("2006-01-02"),
		PurgedCount: purged,
	}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("批处理超时中止（已提交的日保持不变）: %w", err)
		}

		inserted, scanned, err := s.sweepDay(ctx, day, req, students, periodByOrdinal)
		if err != nil {
			return nil, fmt.Errorf("扫描 %s 失败: %w", day.Format("2006-01-02"), err)
		}
		if scanned {
			resp.ScannedDays++
			resp.Inserted += inserted
		} else {
			resp.SkippedDays++
		}
	}

	s.logger.Info("追溯欠席批处理完成",
		zap.String("from", resp.From),
		zap.String("to", resp.To),
		zap.Int64("purged", resp.PurgedCount),
		zap.Int("inserted", resp.Inserted),
		zap.Int("scanned_days", resp.ScannedDays),
		zap.Int("skipped_days", resp.SkippedDays),
	)
	return resp, nil
}

// sweepDay 扫描单日并在一个事务内补插欠席记录
// 返回 (新增条数, 是否为授課日, 错误)
func (s *sweepService) sweepDay(ctx context.Context, day time.Time, req *dto.SweepRequest,
	students []model.Student, periodByOrdinal map[int16]model.Period) (int, bool, error) {

	weekday, termID, err := s.calendar.ResolveDate(ctx, day)
	if err != nil {
		return 0, false, err
	}
	// 非授課曜日、无期、或该日不属于目标期（例：計画把该日划给别的期）→ 跳过
	if !model.IsClassWeekday(weekday) || termID == nil || *termID != req.TermID {
		return 0, false, nil
	}

	sessions, err := s.repo.Session.ListForCohortDay(ctx, s.cfg.Academic.Year, req.DepartmentID, req.TermID, weekday)
	if err != nil {
		return 0, false, err
	}
	if len(sessions) == 0 {
		return 0, true, nil
	}

	var absences []model.AttendanceEvent
	for i := range sessions {
		session := &sessions[i]
		period, ok := periodByOrdinal[session.Period]
		if !ok {
			// 時限表与周时间割脱节：跳过并留痕，不中断整窗扫描
			s.logger.Warn("周时间割引用了不存在的時限",
				zap.Int("session_id", session.SessionID),
				zap.Int16("period", session.Period),
			)
			continue
		}
		start, err := combineClock(day, period.StartTime)
		if err != nil {
			return 0, false, err
		}
		end, err := combineClock(day, period.EndTime)
		if err != nil {
			return 0, false, err
		}

		for j := range students {
			student := &students[j]
			swiped, err := s.repo.Attendance.HasSwipeInWindow(ctx, student.StudentID, start, end)
			if err != nil {
				return 0, false, err
			}
			if swiped {
				continue
			}
			// 重复插入防护：同学生同时刻已有记录则跳过
			exists, err := s.repo.Attendance.HasRecordAt(ctx, student.StudentID, start)
			if err != nil {
				return 0, false, err
			}
			if exists {
				continue
			}

			absences = append(absences, model.AttendanceEvent{
				StudentID:  student.StudentID,
				Direction:  model.DirectionNone,
				OccurredAt: start,
				Status:     model.StatusAbsent,
				SubjectID:  &session.SubjectID,
				RoomID:     session.RoomID,
				SessionID:  &session.SessionID,
				Note:       "retroactive sweep",
			})
		}
	}

	// 单日一个事务：整体成功或整体回滚
	if err := s.repo.Attendance.InsertBatch(ctx, absences); err != nil {
		return 0, false, err
	}
	return len(absences), true, nil
}
