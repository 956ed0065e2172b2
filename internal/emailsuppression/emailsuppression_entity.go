package emailsuppression

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReasonBounce    = "BOUNCE"
	ReasonComplaint = "COMPLAINT"
)

type SuppressedEmail struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email      string    `gorm:"column:email;type:varchar(254);not null;uniqueIndex:uq_suppressed_emails_email"`
	Reason     string    `gorm:"column:reason;type:varchar(20);not null"`
	BounceType string    `gorm:"column:bounce_type;type:varchar(30)"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (SuppressedEmail) TableName() string {
	return "suppressed_emails"
}
