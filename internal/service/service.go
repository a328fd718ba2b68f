package service

import (
	"go.uber.org/zap"

	"campus-gate/backend/config"
	"campus-gate/backend/internal/repository"
	"campus-gate/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Master     MasterService
	Calendar   CalendarService
	Schedule   ScheduleService
	Attendance AttendanceService
	Sweep      SweepService
	Export     ExportService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：刷卡去重锁退化为仅依赖数据库行锁
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	clock Clock,
	logger *zap.Logger,
) *Service {
	calendar := NewCalendarService(repo, logger)
	schedule := NewScheduleService(cfg, repo, logger)
	return &Service{
		Master:     NewMasterService(repo, logger),
		Calendar:   calendar,
		Schedule:   schedule,
		Attendance: NewAttendanceService(cfg, repo, calendar, schedule, rdb, clock, logger),
		Sweep:      NewSweepService(cfg, repo, calendar, clock, logger),
		Export:     NewExportService(repo, logger),
	}
}
