package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-gate/backend/internal/model"
)

// SessionRepository 週時間割数据访问接口
type SessionRepository interface {
	// FindByKey 复合键精确查找；未命中返回 gorm.ErrRecordNotFound
	FindByKey(ctx context.Context, key model.SessionKey) (*model.ScheduledSession, error)
	// ListForCohortDay 列出某 cohort 在某曜日的全部授课时段
	ListForCohortDay(ctx context.Context, year, departmentID, termID, weekday int16) ([]model.ScheduledSession, error)
	List(ctx context.Context, year, departmentID, termID, weekday int16) ([]model.ScheduledSession, error)
	GetByID(ctx context.Context, id int) (*model.ScheduledSession, error)
	Create(ctx context.Context, session *model.ScheduledSession) error
	Update(ctx context.Context, session *model.ScheduledSession) error
	Delete(ctx context.Context, id int) error
}

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo 创建 SessionRepository 实例
func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) FindByKey(ctx context.Context, key model.SessionKey) (*model.ScheduledSession, error) {
	var session model.ScheduledSession
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Room").
		Where("year = ? AND department_id = ? AND term_id = ? AND weekday = ? AND period = ?",
			key.Year, key.DepartmentID, key.TermID, key.Weekday, key.Period).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) ListForCohortDay(ctx context.Context, year, departmentID, termID, weekday int16) ([]model.ScheduledSession, error) {
	var sessions []model.ScheduledSession
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Room").
		Where("year = ? AND department_id = ? AND term_id = ? AND weekday = ?",
			year, departmentID, termID, weekday).
		Order("period ASC").
		Find(&sessions).Error
	return sessions, err
}

// List 按条件过滤周时间割；零值参数表示不过滤
func (r *sessionRepo) List(ctx context.Context, year, departmentID, termID, weekday int16) ([]model.ScheduledSession, error) {
	q := r.db.WithContext(ctx).Model(&model.ScheduledSession{}).
		Preload("Subject").
		Preload("Room")
	if year != 0 {
		q = q.Where("year = ?", year)
	}
	if departmentID != 0 {
		q = q.Where("department_id = ?", departmentID)
	}
	if termID != 0 {
		q = q.Where("term_id = ?", termID)
	}
	if weekday != 0 {
		q = q.Where("weekday = ?", weekday)
	}
	var sessions []model.ScheduledSession
	err := q.Order("department_id ASC, term_id ASC, weekday ASC, period ASC").Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) GetByID(ctx context.Context, id int) (*model.ScheduledSession, error) {
	var session model.ScheduledSession
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Room").
		Where("session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Create(ctx context.Context, session *model.ScheduledSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepo) Update(ctx context.Context, session *model.ScheduledSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Where("session_id = ?", id).Delete(&model.ScheduledSession{}).Error
}
