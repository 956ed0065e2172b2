package invoice

import (
	"context"
	"database/sql"

	"go-timetrack/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, inv *Invoice) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Invoice, error)
	FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	ReplaceItems(ctx context.Context, invoiceID string, items []InvoiceItem) error
	UpdateStatus(ctx context.Context, companyID, id, status string) error
	Delete(ctx context.Context, companyID, id string) error
}

type Filter struct {
	ClientID string
	Status   string
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) session(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true, Context: ctx})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, inv *Invoice) error {
	return r.session(ctx).Create(inv).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Invoice, error) {
	var inv Invoice
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Items").
		Where("id = ?", id).
		First(&inv).Error
	return &inv, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]Invoice, error) {
	q := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Items")

	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rows []Invoice
	err := q.Order("invoice_number DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, inv *Invoice) error {
	return r.session(ctx).Omit("Items").Save(inv).Error
}

// ReplaceItems swaps the full line item set. Item edits always arrive as the
// complete list, never as a diff.
func (r *repository) ReplaceItems(ctx context.Context, invoiceID string, items []InvoiceItem) error {
	if err := r.session(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&InvoiceItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.session(ctx).Create(&items).Error
}

func (r *repository) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	return r.session(ctx).
		Model(&Invoice{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&Invoice{}).Error
}
