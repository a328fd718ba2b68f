package dto

// ── 追溯欠席批处理 DTO ──

// SweepRequest 批处理触发请求
// From/To 省略时取默认回溯窗口（30 天前 至 昨天）
type SweepRequest struct {
	From         string `json:"from"          binding:"omitempty"` // YYYY-MM-DD
	To           string `json:"to"            binding:"omitempty"` // YYYY-MM-DD
	DepartmentID int16  `json:"department_id" binding:"required"`
	TermID       int16  `json:"term_id"       binding:"required"`
}

// SweepResponse 批处理执行汇总
type SweepResponse struct {
	From        string `json:"from"`
	To          string `json:"to"`
	PurgedCount int64  `json:"purged_count"`   // 清除的未到期合成欠席记录数
	Inserted    int    `json:"inserted_count"` // 新增欠席记录数
	ScannedDays int    `json:"scanned_days"`
	SkippedDays int    `json:"skipped_days"` // 非授課日
}
