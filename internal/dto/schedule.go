package dto

// ── 周时间割 / 時限模块 DTO ──

// CreateSessionRequest 创建周时间割条目请求
// Year 省略时取配置的当前学年
type CreateSessionRequest struct {
	Year         int16  `json:"year"          binding:"omitempty"`
	DepartmentID int16  `json:"department_id" binding:"required"`
	TermID       int16  `json:"term_id"       binding:"required,min=1"`
	Weekday      int16  `json:"weekday"       binding:"required,min=1,max=5"`
	Period       int16  `json:"period"        binding:"required,min=1"`
	SubjectID    int16  `json:"subject_id"    binding:"required"`
	RoomID       *int16 `json:"room_id"       binding:"omitempty"`
	Note         string `json:"note"          binding:"omitempty,max=500"`
}

// UpdateSessionRequest 更新周时间割条目请求（仅科目/教室/备注可变，键位不可改）
type UpdateSessionRequest struct {
	SubjectID *int16  `json:"subject_id" binding:"omitempty"`
	RoomID    *int16  `json:"room_id"    binding:"omitempty"`
	Note      *string `json:"note"       binding:"omitempty,max=500"`
}

// SessionQuery 周时间割查询参数
type SessionQuery struct {
	Year         int16 `form:"year"          binding:"omitempty"`
	DepartmentID int16 `form:"department_id" binding:"omitempty"`
	TermID       int16 `form:"term_id"       binding:"omitempty"`
	Weekday      int16 `form:"weekday"       binding:"omitempty,min=1,max=5"`
}

// SessionResponse 周时间割条目响应
type SessionResponse struct {
	SessionID    int    `json:"session_id"`
	Year         int16  `json:"year"`
	DepartmentID int16  `json:"department_id"`
	TermID       int16  `json:"term_id"`
	Weekday      int16  `json:"weekday"`
	Period       int16  `json:"period"`
	SubjectID    int16  `json:"subject_id"`
	SubjectName  string `json:"subject_name,omitempty"`
	RoomID       *int16 `json:"room_id,omitempty"`
	RoomName     string `json:"room_name,omitempty"`
	Note         string `json:"note,omitempty"`
}

// PeriodItem 時限定义
type PeriodItem struct {
	Ordinal   int16  `json:"ordinal"    binding:"required,min=1"`
	StartTime string `json:"start_time" binding:"required"` // HH:MM
	EndTime   string `json:"end_time"   binding:"required"`
}

// ReplacePeriodsRequest 全量替换時限表请求
// 服务端校验时段升序且互不重叠后在单事务中整体替换
type ReplacePeriodsRequest struct {
	Periods []PeriodItem `json:"periods" binding:"required,min=1,dive"`
}
