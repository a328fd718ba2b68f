package model

// Department 学科 — 对应 departments
type Department struct {
	DepartmentID int16  `gorm:"type:smallint;primaryKey"  json:"department_id"`
	Name         string `gorm:"type:varchar(50);not null" json:"name"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
