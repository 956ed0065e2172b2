package company

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Company) error
	FindByID(ctx context.Context, id string) (*Company, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*Company, error)
	Update(ctx context.Context, c *Company) error
	UpdateSubscription(ctx context.Context, id string, fields SubscriptionFields) error
}

// SubscriptionFields is the narrow set of columns webhook handling may touch.
type SubscriptionFields struct {
	Plan               *string
	SubscriptionID     *string
	SubscriptionStatus *string
	TrialEndsAt        sql.NullTime
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

func (r *repository) Create(ctx context.Context, c *Company) error {
	return r.session(ctx).Create(c).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Company, error) {
	var c Company
	err := r.session(ctx).
		Where("id = ?", id).
		First(&c).Error
	return &c, err
}

func (r *repository) FindByStripeCustomerID(ctx context.Context, customerID string) (*Company, error) {
	var c Company
	err := r.session(ctx).
		Where("stripe_customer_id = ?", customerID).
		First(&c).Error
	return &c, err
}

func (r *repository) Update(ctx context.Context, c *Company) error {
	return r.session(ctx).Save(c).Error
}

func (r *repository) UpdateSubscription(ctx context.Context, id string, fields SubscriptionFields) error {
	updates := map[string]any{}
	if fields.Plan != nil {
		updates["plan"] = *fields.Plan
	}
	if fields.SubscriptionID != nil {
		updates["subscription_id"] = *fields.SubscriptionID
	}
	if fields.SubscriptionStatus != nil {
		updates["subscription_status"] = *fields.SubscriptionStatus
	}
	if fields.TrialEndsAt.Valid {
		updates["trial_ends_at"] = fields.TrialEndsAt.Time
	}
	if len(updates) == 0 {
		return nil
	}

	return r.session(ctx).
		Model(&Company{}).
		Where("id = ?", id).
		Updates(updates).Error
}
