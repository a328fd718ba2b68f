package dto

// ── 出席模块 DTO ──

// SwipeRequest 刷卡签到/签退请求
// Timestamp 省略时取服务器当前时间（正常刷卡场景）；
// 显式传入用于补录与测试，格式 RFC3339 或 "2006-01-02 15:04:05"
type SwipeRequest struct {
	StudentID int    `json:"student_id" binding:"required"`
	Direction string `json:"direction"  binding:"required,oneof=enter exit"`
	Timestamp string `json:"timestamp"  binding:"omitempty"`
}

// SwipeResponse 刷卡判定结果
type SwipeResponse struct {
	EventID     string `json:"event_id"`
	StudentID   int    `json:"student_id"`
	StudentName string `json:"student_name"`
	Direction   string `json:"direction"`
	OccurredAt  string `json:"occurred_at"`
	Status      string `json:"status"`
	SubjectID   *int16 `json:"subject_id,omitempty"`
	SubjectName string `json:"subject_name,omitempty"`
	RoomName    string `json:"room_name,omitempty"`
	SessionID   *int   `json:"session_id,omitempty"`
}

// LogQuery 入退室日志查询参数
type LogQuery struct {
	Page      int    `form:"page"       binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size"  binding:"omitempty,min=1,max=200"`
	StudentID int    `form:"student_id" binding:"omitempty"`
	Status    string `form:"status"     binding:"omitempty,oneof=present late absent mid_entry mid_exit not_applicable undetermined"`
	From      string `form:"from"       binding:"omitempty"` // YYYY-MM-DD
	To        string `form:"to"         binding:"omitempty"` // YYYY-MM-DD
}

// LogEntry 入退室日志条目（联结学生/科目/教室名称）
type LogEntry struct {
	EventID     string `json:"event_id"`
	StudentID   int    `json:"student_id"`
	StudentName string `json:"student_name"`
	Direction   string `json:"direction"`
	OccurredAt  string `json:"occurred_at"`
	Status      string `json:"status"`
	SubjectName string `json:"subject_name,omitempty"`
	RoomName    string `json:"room_name,omitempty"`
	Note        string `json:"note,omitempty"`
}

// FinalizeResponse 未判定记录延迟确定结果
type FinalizeResponse struct {
	FinalizedCount int `json:"finalized_count"`
}
