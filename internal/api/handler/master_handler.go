package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-gate/backend/internal/dto"
	"campus-gate/backend/internal/service"
	"campus-gate/backend/pkg/response"
)

// MasterHandler 马斯特数据模块 HTTP 处理器
// 学科/期/曜日/教室/科目/学生的维护入口
type MasterHandler struct {
	masterSvc service.MasterService
}

// NewMasterHandler 创建 MasterHandler
func NewMasterHandler(masterSvc service.MasterService) *MasterHandler {
	return &MasterHandler{masterSvc: masterSvc}
}

// ── 学科 ──

// ListDepartments GET /api/v1/departments
func (h *MasterHandler) ListDepartments(c *gin.Context) {
	depts, err := h.masterSvc.ListDepartments(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": depts})
}

// UpsertDepartment PUT /api/v1/departments
func (h *MasterHandler) UpsertDepartment(c *gin.Context) {
	var req dto.UpsertDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	dept, err := h.masterSvc.UpsertDepartment(c.Request.Context(), &req)
	if err != nil {
		h.handleMasterError(c, err)
		return
	}
	response.OK(c, dept)
}

// DeleteDepartment DELETE /api/v1/departments/:id
func (h *MasterHandler) DeleteDepartment(c *gin.Context) {
	id, ok := paramInt16(c, "id")
	if !ok {
		return
	}
	if err := h.masterSvc.DeleteDepartment(c.Request.Context(), id); err != nil {
		h.handleMasterError(c, err)
		return
	}
	response.NoContent(c)
}

// ── 期 / 曜日（只读，由播种维护） ──

// ListTerms GET /api/v1/terms
func (h *MasterHandler) ListTerms(c *gin.Context) {
	terms, err := h.masterSvc.ListTerms(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": terms})
}

// ListWeekdays GET /api/v1/weekdays
func (h *MasterHandler) ListWeekdays(c *gin.Context) {
	weekdays, err := h.masterSvc.ListWeekdays(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": weekdays})
}

// ── 教室 ──

// ListRooms GET /api/v1/rooms
func (h *MasterHandler) ListRooms(c *gin.Context) {
	rooms, err := h.masterSvc.ListRooms(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": rooms})
}

// UpsertRoom PUT /api/v1/rooms
func (h *MasterHandler) UpsertRoom(c *gin.Context) {
	var req dto.UpsertRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.masterSvc.UpsertRoom(c.Request.Context(), &req)
	if err != nil {
		h.handleMasterError(c, err)
		return
	}
	response.OK(c, room)
}

// DeleteRoom DELETE /api/v1/rooms/:id
func (h *MasterHandler) DeleteRoom(c *gin.Context) {
	id, ok := paramInt16(c, "id")
	if !ok {
		return
	}
	if err := h.masterSvc.DeleteRoom(c.Request.Context(), id); err != nil {
		h.handleMasterError(c, err)
		return
	}
	response.NoContent(c)
}

// ── 授業科目 ──

// ListSubjects GET /api/v1/subjects
func (h *MasterHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.masterSvc.ListSubjects(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": subjects})
}

// UpsertSubject PUT /api/v1/subjects
func (h *MasterHandler) UpsertSubject(c *gin.Context) {
	var req dto.UpsertSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subject, err := h.masterSvc.UpsertSubject(c.Request.Context(), &req)
	if err != nil {
		h.handleMasterError(c, err)
		return
	}
	response.OK(c, subject)
}

// DeleteSubject DELETE /api/v1/subjects/:id
func (h *MasterHandler) DeleteSubject(c *gin.Context) {
	id, ok := paramInt16(c, "id")
	if !ok {
		return
	}
	if err := h.masterSvc.DeleteSubject(c.Request.Context(), id); err != nil {
		h.handleMasterError(c, err)
		return
	}
	response.NoContent(c)
}

// ── 学生 ──

// ListStudents GET /api/v1/students
func (h *MasterHandler) ListStudents(c *gin.Context) {
	var q dto.StudentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	students, err := h.masterSvc.ListStudents(c.Request.Context(), &q)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": students})
}

// GetStudent GET /api/v1/students/:id
func (h *MasterHandler) GetStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, 10001, "学籍番号非法")
		return
	}

	student, err := h.masterSvc.GetStudent(c.Request.Context(), id)
	if err != nil {
		h.handleMasterError(c, err)
		return
	}
	response.OK(c, student)
}

// UpsertStudent PUT /api/v1/students
func (h *MasterHandler) UpsertStudent(c *gin.Context) {
	var req dto.UpsertStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	student, err := h.masterSvc.UpsertStudent(c.Request.Context(), &req)
	if err != nil {
		h.handleMasterError(c, err)
		return
	}
	response.OK(c, student)
}

// DeleteStudent DELETE /api/v1/students/:id
func (h *MasterHandler) DeleteStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, 10001, "学籍番号非法")
		return
	}

	if err := h.masterSvc.DeleteStudent(c.Request.Context(), id); err != nil {
		h.handleMasterError(c, err)
		return
	}
	response.NoContent(c)
}

// paramInt16 解析 int16 路径参数
func paramInt16(c *gin.Context, name string) (int16, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 16)
	if err != nil {
		response.BadRequest(c, 10001, name+" 参数非法")
		return 0, false
	}
	return int16(v), true
}

// handleMasterError 统一处理马斯特数据模块业务错误
func (h *MasterHandler) handleMasterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMasterDeptNotFound):
		response.NotFound(c, 14001, "学科不存在")
	case errors.Is(err, service.ErrMasterTermNotFound):
		response.NotFound(c, 14002, "期不存在")
	case errors.Is(err, service.ErrMasterRoomNotFound):
		response.NotFound(c, 14003, "教室不存在")
	case errors.Is(err, service.ErrMasterSubjectNotFound):
		response.NotFound(c, 14004, "授業科目不存在")
	case errors.Is(err, service.ErrMasterStudentNotFound):
		response.NotFound(c, 14005, "学生不存在")
	default:
		response.InternalError(c)
	}
}
