package handler

import "campus-gate/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Master     *MasterHandler
	Calendar   *CalendarHandler
	Schedule   *ScheduleHandler
	Attendance *AttendanceHandler
	Sweep      *SweepHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Master:     NewMasterHandler(svc.Master),
		Calendar:   NewCalendarHandler(svc.Calendar),
		Schedule:   NewScheduleHandler(svc.Schedule),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Sweep:      NewSweepHandler(svc.Sweep),
		Export:     NewExportHandler(svc.Export),
	}
}
