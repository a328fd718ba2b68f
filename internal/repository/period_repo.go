package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-gate/backend/internal/model"
)

// PeriodRepository 時限マスタ数据访问接口
type PeriodRepository interface {
	List(ctx context.Context) ([]model.Period, error)
	// ReplaceAll 在事务中全量替换時限表：先删除旧时段，再批量插入新时段
	ReplaceAll(ctx context.Context, periods []model.Period) error
}

type periodRepo struct {
	db *gorm.DB
}

// NewPeriodRepo 创建 PeriodRepository 实例
func NewPeriodRepo(db *gorm.DB) PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) List(ctx context.Context) ([]model.Period, error) {
	var periods []model.Period
	err := r.db.WithContext(ctx).Order("ordinal ASC").Find(&periods).Error
	return periods, err
}

func (r *periodRepo) ReplaceAll(ctx context.Context, periods []model.Period) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Period{}).Error; err != nil {
			return err
		}
		if len(periods) > 0 {
			if err := tx.Create(&periods).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
