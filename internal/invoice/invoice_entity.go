package invoice

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusSent     = "SENT"
	StatusReceived = "RECEIVED"
)

type Invoice struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	ClientID      uuid.UUID      `gorm:"column:client_id;type:uuid;not null;index"`
	TimesheetID   *uuid.UUID     `gorm:"column:timesheet_id;type:uuid;index"`
	InvoiceNumber int64          `gorm:"column:invoice_number;not null"`
	Status        string         `gorm:"column:status;type:varchar(20);not null;default:PENDING"`
	IssueDate     time.Time      `gorm:"column:issue_date;type:date;not null"`
	DueDate       time.Time      `gorm:"column:due_date;type:date;not null"`
	PONumber      *string        `gorm:"column:po_number;type:varchar(50)"`
	TotalQuantity float64        `gorm:"column:total_quantity;not null;default:0"`
	Subtotal      float64        `gorm:"column:subtotal;not null;default:0"`
	Discount      float64        `gorm:"column:discount;not null;default:0"`
	Shipping      float64        `gorm:"column:shipping;not null;default:0"`
	TaxPercent    float64        `gorm:"column:tax_percent;not null;default:0"`
	TaxAmount     float64        `gorm:"column:tax_amount;not null;default:0"`
	TotalAmount   float64        `gorm:"column:total_amount;not null;default:0"`
	Notes         *string        `gorm:"column:notes;type:text"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Items         []InvoiceItem  `gorm:"foreignKey:InvoiceID;references:ID"`
}

func (Invoice) TableName() string {
	return "invoices"
}

type InvoiceItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID   uuid.UUID `gorm:"column:invoice_id;type:uuid;not null;index"`
	ProjectID   uuid.UUID `gorm:"column:project_id;type:uuid;not null"`
	Description *string   `gorm:"column:description;type:text"`
	Quantity    float64   `gorm:"column:quantity;not null"`
	Rate        float64   `gorm:"column:rate;not null"`
	Amount      float64   `gorm:"column:amount;not null"`
	Currency    string    `gorm:"column:currency;type:varchar(10);not null;default:$"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}
