package dto

// ── 马斯特数据模块 DTO ──
//
// 马斯特数据以自然主键（校内既有编号）管理，创建时由调用方给定 ID

// UpsertDepartmentRequest 创建/更新学科请求
type UpsertDepartmentRequest struct {
	DepartmentID int16  `json:"department_id" binding:"required"`
	Name         string `json:"name"          binding:"required,max=50"`
}

// UpsertRoomRequest 创建/更新教室请求
type UpsertRoomRequest struct {
	RoomID   int16  `json:"room_id"  binding:"required"`
	Name     string `json:"name"     binding:"required,max=50"`
	Capacity int16  `json:"capacity" binding:"required,min=1"`
}

// UpsertSubjectRequest 创建/更新授業科目请求
type UpsertSubjectRequest struct {
	SubjectID    int16  `json:"subject_id"    binding:"required"`
	Name         string `json:"name"          binding:"required,max=100"`
	DepartmentID int16  `json:"department_id" binding:"required"`
	Credits      *int16 `json:"credits"       binding:"omitempty,min=0"`
}

// UpsertStudentRequest 创建/更新学生请求
type UpsertStudentRequest struct {
	StudentID    int    `json:"student_id"    binding:"required"`
	Name         string `json:"name"          binding:"required,max=50"`
	Grade        *int16 `json:"grade"         binding:"omitempty,min=1,max=9"`
	DepartmentID int16  `json:"department_id" binding:"required"`
	TermID       int16  `json:"term_id"       binding:"required,min=1"`
}

// StudentQuery 学生列表查询参数
type StudentQuery struct {
	DepartmentID int16 `form:"department_id" binding:"omitempty"`
	TermID       int16 `form:"term_id"       binding:"omitempty"`
}
