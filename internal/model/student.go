package model

// Student 学生マスタ — 对应 students
// 学籍番号为自然主键；(学科, 期) 组合决定学生适用的周时间割
type Student struct {
	StudentID    int    `gorm:"primaryKey"                json:"student_id"`
	Name         string `gorm:"type:varchar(50);not null" json:"name"`
	Grade        *int16 `gorm:"type:smallint"             json:"grade,omitempty"`
	DepartmentID int16  `gorm:"type:smallint;not null"    json:"department_id"`
	TermID       int16  `gorm:"type:smallint;not null"    json:"term_id"`

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Term       *Term       `gorm:"foreignKey:TermID;references:TermID"             json:"term,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }
