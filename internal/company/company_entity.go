package company

import (
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"
)

const (
	PlanStarter      = "Starter"
	PlanProfessional = "Professional"
)

const (
	SubscriptionStatusInactive = "inactive"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

type Company struct {
	ID                 uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name               string         `gorm:"column:name;type:varchar(120);not null"`
	CompanyCode        string         `gorm:"column:company_code;type:varchar(30);not null;uniqueIndex:uq_company_code"`
	Status             string         `gorm:"column:status;type:varchar(20);not null;default:ACTIVE"`
	Plan               string         `gorm:"column:plan;type:varchar(30);not null;default:Starter"`
	SubscriptionID     *string        `gorm:"column:subscription_id;type:varchar(100);index"`
	SubscriptionStatus string         `gorm:"column:subscription_status;type:varchar(20);not null;default:inactive"`
	StripeCustomerID   *string        `gorm:"column:stripe_customer_id;type:varchar(100);index"`
	TrialEndsAt        *time.Time     `gorm:"column:trial_ends_at;type:timestamptz"`
	AdminEmail         string         `gorm:"column:admin_email;type:varchar(120);not null"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Company) TableName() string {
	return "companies"
}
