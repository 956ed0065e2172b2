package client

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index;uniqueIndex:uq_client_email,priority:1"`
	Name       string         `gorm:"column:name;type:varchar(120);not null"`
	Email      string         `gorm:"column:email;type:varchar(120);not null;uniqueIndex:uq_client_email,priority:2"`
	InvoiceCC  *string        `gorm:"column:invoice_cc;type:varchar(120)"`
	Phone      *string        `gorm:"column:phone;type:varchar(30)"`
	Address    *string        `gorm:"column:address;type:text"`
	Status     string         `gorm:"column:status;type:varchar(20);not null;default:ACTIVE"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Client) TableName() string {
	return "clients"
}
