package activitylog

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeTimeEntryStopped  = "TIME_ENTRY_STOPPED"
	TypeTimesheetUnlocked = "TIMESHEET_UNLOCKED"
)

type ActivityLog struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Type       string    `gorm:"column:type;type:varchar(40);not null"`
	SubjectID  uuid.UUID `gorm:"column:subject_id;type:uuid;not null"`
	Message    string    `gorm:"column:message;type:text;not null"`
	OccurredAt time.Time `gorm:"column:occurred_at;type:timestamptz;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
