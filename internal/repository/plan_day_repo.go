package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-gate/backend/internal/model"
)

// PlanDayRepository 授業計画数据访问接口
type PlanDayRepository interface {
	// GetByDate 查找某日的計画条目；未命中返回 gorm.ErrRecordNotFound
	GetByDate(ctx context.Context, date time.Time) (*model.ClassPlanDay, error)
	ListRange(ctx context.Context, from, to time.Time) ([]model.ClassPlanDay, error)
	Upsert(ctx context.Context, day *model.ClassPlanDay) error
	BatchUpsert(ctx context.Context, days []model.ClassPlanDay) error
	Delete(ctx context.Context, date time.Time) error
}

type planDayRepo struct {
	db *gorm.DB
}

// NewPlanDayRepo 创建 PlanDayRepository 实例
func NewPlanDayRepo(db *gorm.DB) PlanDayRepository {
	return &planDayRepo{db: db}
}

func (r *planDayRepo) GetByDate(ctx context.Context, date time.Time) (*model.ClassPlanDay, error) {
	var day model.ClassPlanDay
	err := r.db.WithContext(ctx).
		Where("plan_date = ?", date.Format("2006-01-02")).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *planDayRepo) ListRange(ctx context.Context, from, to time.Time) ([]model.ClassPlanDay, error) {
	var days []model.ClassPlanDay
	err := r.db.WithContext(ctx).
		Where("plan_date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("plan_date ASC").
		Find(&days).Error
	return days, err
}

func (r *planDayRepo) Upsert(ctx context.Context, day *model.ClassPlanDay) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plan_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"term_id", "weekday_code", "label", "updated_at"}),
		}).
		Create(day).Error
}

func (r *planDayRepo) BatchUpsert(ctx context.Context, days []model.ClassPlanDay) error {
	if len(days) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plan_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"term_id", "weekday_code", "label", "updated_at"}),
		}).
		Create(&days).Error
}

func (r *planDayRepo) Delete(ctx context.Context, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("plan_date = ?", date.Format("2006-01-02")).
		Delete(&model.ClassPlanDay{}).Error
}
