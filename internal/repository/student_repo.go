package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-gate/backend/internal/model"
)

// StudentRepository 学生マスタ数据访问接口
type StudentRepository interface {
	GetByID(ctx context.Context, id int) (*model.Student, error)
	List(ctx context.Context, departmentID, termID int16) ([]model.Student, error)
	Upsert(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id int) error
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) GetByID(ctx context.Context, id int) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Term").
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// List 按 (学科, 期) 过滤学生；零值参数表示不过滤
func (r *studentRepo) List(ctx context.Context, departmentID, termID int16) ([]model.Student, error) {
	q := r.db.WithContext(ctx).Model(&model.Student{})
	if departmentID != 0 {
		q = q.Where("department_id = ?", departmentID)
	}
	if termID != 0 {
		q = q.Where("term_id = ?", termID)
	}
	var students []model.Student
	err := q.Order("student_id ASC").Find(&students).Error
	return students, err
}

func (r *studentRepo) Upsert(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "grade", "department_id", "term_id"}),
		}).
		Create(student).Error
}

func (r *studentRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Where("student_id = ?", id).Delete(&model.Student{}).Error
}
