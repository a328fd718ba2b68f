package model

import "time"

// ClassPlanDay 授業計画 — 对应 class_plan_days
// 按日历日显式指定 (期, 曜日)，覆盖月份启发式；用于祝日、补课日等例外
type ClassPlanDay struct {
	PlanDate    time.Time `gorm:"type:date;primaryKey"   json:"plan_date"`
	TermID      *int16    `gorm:"type:smallint"          json:"term_id,omitempty"`
	WeekdayCode int16     `gorm:"type:smallint;not null" json:"weekday_code"`
	Label       string    `gorm:"type:varchar(100)"      json:"label,omitempty"`
	BaseModel
}

// TableName 指定表名
func (ClassPlanDay) TableName() string { return "class_plan_days" }
