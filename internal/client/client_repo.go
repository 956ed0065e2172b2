package client

import (
	"context"

	"go-timetrack/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, cl *Client) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Client, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Client, error)
	Update(ctx context.Context, cl *Client) error
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, cl *Client) error {
	return r.db.WithContext(ctx).Create(cl).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Client, error) {
	var cl Client
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&cl).Error
	return &cl, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Client, error) {
	var rows []Client
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, cl *Client) error {
	return r.db.WithContext(ctx).Save(cl).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&Client{}).Error
}
