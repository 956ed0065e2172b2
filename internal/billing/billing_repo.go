package billing

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository

	// CreatePaymentIfAbsent inserts the payment and reports whether a row was
	// written. A duplicate stripe_invoice_id is a no-op, which makes webhook
	// redelivery idempotent.
	CreatePaymentIfAbsent(ctx context.Context, p *SubscriptionPayment) (bool, error)

	ListPaymentsByCompany(ctx context.Context, companyID string) ([]SubscriptionPayment, error)
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

func (r *repository) CreatePaymentIfAbsent(ctx context.Context, p *SubscriptionPayment) (bool, error) {
	res := r.session(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_invoice_id"}},
			DoNothing: true,
		}).
		Create(p)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) ListPaymentsByCompany(ctx context.Context, companyID string) ([]SubscriptionPayment, error) {
	var rows []SubscriptionPayment
	err := r.session(ctx).
		Where("company_id = ?", companyID).
		Order("paid_at DESC").
		Find(&rows).Error
	return rows, err
}
