package activitylog

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, entry *ActivityLog) error
	FindAllByCompany(ctx context.Context, companyID string, limit int) ([]ActivityLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, limit int) ([]ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []ActivityLog
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
