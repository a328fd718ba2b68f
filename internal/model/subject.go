package model

// Subject 授業科目 — 对应 subjects
type Subject struct {
	SubjectID    int16  `gorm:"type:smallint;primaryKey"   json:"subject_id"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	DepartmentID int16  `gorm:"type:smallint;not null"     json:"department_id"`
	Credits      *int16 `gorm:"type:smallint"              json:"credits,omitempty"`

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }
