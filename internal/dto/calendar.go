package dto

// ── 授業計画模块 DTO ──

// UpsertPlanDayRequest 创建/更新授業計画日请求
// TermID 为空表示该日不属于任何期（不排课）
type UpsertPlanDayRequest struct {
	Date        string `json:"date"         binding:"required"` // YYYY-MM-DD
	TermID      *int16 `json:"term_id"      binding:"omitempty,min=1"`
	WeekdayCode int16  `json:"weekday_code" binding:"min=0,max=9"`
	Label       string `json:"label"        binding:"omitempty,max=100"`
}

// PlanDayResponse 授業計画日响应
type PlanDayResponse struct {
	Date        string `json:"date"`
	TermID      *int16 `json:"term_id,omitempty"`
	WeekdayCode int16  `json:"weekday_code"`
	Label       string `json:"label,omitempty"`
}

// ImportPlanICSResponse 学年历 ICS 导入结果
type ImportPlanICSResponse struct {
	ImportedCount int               `json:"imported_count"`
	Days          []PlanDayResponse `json:"days"`
}

// ResolveDateResponse 日期解析调试响应（曜日 + 期）
type ResolveDateResponse struct {
	Date        string `json:"date"`
	WeekdayCode int16  `json:"weekday_code"`
	TermID      *int16 `json:"term_id,omitempty"`
	ClassDay    bool   `json:"class_day"`
}
