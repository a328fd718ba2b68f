package model

// Period 時限マスタ — 对应 periods
// 每日固定时段，按 Ordinal 升序且互不重叠（写入时校验）
type Period struct {
	Ordinal   int16  `gorm:"type:smallint;primaryKey" json:"ordinal"`
	StartTime string `gorm:"type:time;not null"       json:"start_time"` // HH:MM[:SS]
	EndTime   string `gorm:"type:time;not null"       json:"end_time"`
}

// TableName 指定表名
func (Period) TableName() string { return "periods" }
