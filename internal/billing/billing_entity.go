package billing

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentStatusPaid = "PAID"
)

// SubscriptionPayment records one settled Stripe invoice. stripe_invoice_id is
// unique so a redelivered webhook cannot insert a second row.
type SubscriptionPayment struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	StripeInvoiceID string    `gorm:"column:stripe_invoice_id;type:varchar(100);not null;uniqueIndex:uq_subscription_payments_invoice"`
	Amount          float64   `gorm:"column:amount;not null"`
	Currency        string    `gorm:"column:currency;type:varchar(10);not null"`
	Status          string    `gorm:"column:status;type:varchar(20);not null"`
	PaidAt          time.Time `gorm:"column:paid_at;type:timestamptz;not null"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (SubscriptionPayment) TableName() string {
	return "subscription_payments"
}
