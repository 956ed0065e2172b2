package timeentry

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

const (
	EntryTypeTimesheet = "TIMESHEET"
	EntryTypeOther     = "OTHER"
)

// TimeEntry is a single tracked work interval. The partial unique index
// uq_time_entries_active (user_id WHERE end_time IS NULL) guarantees at most
// one running entry per user even under concurrent starts.
type TimeEntry struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID         uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	ProjectID         uuid.UUID      `gorm:"column:project_id;type:uuid;not null;index"`
	UserID            uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	ApproverID        *uuid.UUID     `gorm:"column:approver_id;type:uuid"`
	TimesheetID       *uuid.UUID     `gorm:"column:timesheet_id;type:uuid;index"`
	InvoiceID         *uuid.UUID     `gorm:"column:invoice_id;type:uuid;index"`
	StartTime         time.Time      `gorm:"column:start_time;type:timestamptz;not null"`
	EndTime           *time.Time     `gorm:"column:end_time;type:timestamptz"`
	Duration          *int64         `gorm:"column:duration"`
	BreakDuration     int64          `gorm:"column:break_duration;not null;default:0"`
	HourlyRate        float64        `gorm:"column:hourly_rate;not null;default:0"`
	HourlyInvoiceRate float64        `gorm:"column:hourly_invoice_rate;not null;default:0"`
	ApprovalStatus    string         `gorm:"column:approval_status;type:varchar(20);not null;default:PENDING;index"`
	EntryType         string         `gorm:"column:entry_type;type:varchar(20);not null;default:TIMESHEET"`
	Description       *string        `gorm:"column:description;type:text"`
	CreatedAt         time.Time      `gorm:"column:created_at"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Breaks            []BreakTime    `gorm:"foreignKey:TimeEntryID;references:ID"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

type BreakTime struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TimeEntryID uuid.UUID  `gorm:"column:time_entry_id;type:uuid;not null;index"`
	StartTime   time.Time  `gorm:"column:start_time;type:timestamptz;not null"`
	EndTime     *time.Time `gorm:"column:end_time;type:timestamptz"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (BreakTime) TableName() string {
	return "break_times"
}

// ProjectHours is the per-project aggregation fed into invoice line items.
type ProjectHours struct {
	ProjectID     uuid.UUID
	UserID        uuid.UUID
	TotalDuration int64
}
