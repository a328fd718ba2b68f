package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-gate/backend/internal/dto"
	"campus-gate/backend/internal/service"
	"campus-gate/backend/pkg/response"
)

// SweepHandler 追溯欠席批处理 HTTP 处理器
type SweepHandler struct {
	sweepSvc service.SweepService
}

// NewSweepHandler 创建 SweepHandler
func NewSweepHandler(sweepSvc service.SweepService) *SweepHandler {
	return &SweepHandler{sweepSvc: sweepSvc}
}

// Sweep 触发追溯欠席批处理
// POST /api/v1/sweep
func (h *SweepHandler) Sweep(c *gin.Context) {
	var req dto.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.sweepSvc.Sweep(c.Request.Context(), &req)
	if err != nil {
		h.handleSweepError(c, err)
		return
	}

	response.OK(c, result)
}

// handleSweepError 统一处理批处理模块业务错误
func (h *SweepHandler) handleSweepError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSweepBadWindow):
		response.BadRequest(c, 15001, "批处理窗口非法")
	case errors.Is(err, service.ErrSweepDeptNotFound):
		response.NotFound(c, 15002, "学科不存在")
	case errors.Is(err, service.ErrSweepTermNotFound):
		response.NotFound(c, 15003, "期不存在")
	default:
		response.InternalError(c)
	}
}
