package project

import (
	"context"

	"go-timetrack/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, p *Project) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Project, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, companyID, id string) error
	UpsertPayRate(ctx context.Context, rate *UserPayRate) error
	FindPayRate(ctx context.Context, userID, projectID string) (*UserPayRate, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Client").
		Where("id = ?", id).
		First(&p).Error
	return &p, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Project, error) {
	var rows []Project
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Client").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, p *Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&Project{}).Error
}

func (r *repository) UpsertPayRate(ctx context.Context, rate *UserPayRate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"pay_rate", "invoice_rate", "currency", "updated_at"}),
		}).
		Create(rate).Error
}

func (r *repository) FindPayRate(ctx context.Context, userID, projectID string) (*UserPayRate, error) {
	var rate UserPayRate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("project_id = ?", projectID).
		First(&rate).Error
	return &rate, err
}
