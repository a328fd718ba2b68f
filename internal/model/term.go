package model

// Term 期マスタ — 对应 terms
type Term struct {
	TermID int16  `gorm:"type:smallint;primaryKey"  json:"term_id"`
	Name   string `gorm:"type:varchar(20);not null" json:"name"`
}

// TableName 指定表名
func (Term) TableName() string { return "terms" }
