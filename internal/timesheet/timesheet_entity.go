package timesheet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusOpen     = "OPEN"
	StatusApproved = "APPROVED"
)

// Timesheet is the weekly approval unit. The unique index uq_timesheets_week
// (company_id, user_id, client_id, week_start_date, week_end_date) backs the
// find-or-create done when an entry stops.
type Timesheet struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	UserID          uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	ClientID        uuid.UUID      `gorm:"column:client_id;type:uuid;not null"`
	WeekStartDate   time.Time      `gorm:"column:week_start_date;type:date;not null"`
	WeekEndDate     time.Time      `gorm:"column:week_end_date;type:date;not null"`
	Status          string         `gorm:"column:status;type:varchar(20);not null;default:OPEN"`
	IsSubmitted     bool           `gorm:"column:is_submitted;not null;default:false"`
	LastSubmittedAt *time.Time     `gorm:"column:last_submitted_at;type:timestamptz"`
	LastApprovedAt  *time.Time     `gorm:"column:last_approved_at;type:timestamptz"`
	ApproverID      *uuid.UUID     `gorm:"column:approver_id;type:uuid"`
	Duration        int64          `gorm:"column:duration;not null;default:0"`
	TotalExpense    float64        `gorm:"column:total_expense;not null;default:0"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}

type TimesheetComment struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TimesheetID uuid.UUID  `gorm:"column:timesheet_id;type:uuid;not null;index"`
	UserID      uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	ReplyID     *uuid.UUID `gorm:"column:reply_id;type:uuid"`
	Comment     string     `gorm:"column:comment;type:text;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (TimesheetComment) TableName() string {
	return "timesheet_comments"
}
