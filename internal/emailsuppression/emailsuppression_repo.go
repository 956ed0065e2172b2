package emailsuppression

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateIfAbsent(ctx context.Context, s *SuppressedEmail) (bool, error)
	IsSuppressed(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateIfAbsent keeps redelivered SNS notifications idempotent through the
// unique index on email.
func (r *repository) CreateIfAbsent(ctx context.Context, s *SuppressedEmail) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(s)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) IsSuppressed(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SuppressedEmail{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}
