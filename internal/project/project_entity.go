package project

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	ClientID  uuid.UUID      `gorm:"column:client_id;type:uuid;not null;index"`
	Name      string         `gorm:"column:name;type:varchar(120);not null"`
	Status    string         `gorm:"column:status;type:varchar(20);not null;default:ACTIVE"`
	Archived  bool           `gorm:"column:archived;not null;default:false"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Client    *ClientRef     `gorm:"foreignKey:ClientID;references:ID"`
}

func (Project) TableName() string {
	return "projects"
}

// ClientRef is a narrow read model for preloading the owning client.
type ClientRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (ClientRef) TableName() string {
	return "clients"
}

// UserPayRate carries the pay/bill rates applied when a user tracks time
// against a project. One row per (user, project).
type UserPayRate struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_pay_rate,priority:1"`
	ProjectID   uuid.UUID `gorm:"column:project_id;type:uuid;not null;uniqueIndex:uq_user_pay_rate,priority:2"`
	PayRate     float64   `gorm:"column:pay_rate;not null;default:0"`
	InvoiceRate float64   `gorm:"column:invoice_rate;not null;default:0"`
	Currency    string    `gorm:"column:currency;type:varchar(5);not null;default:$"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (UserPayRate) TableName() string {
	return "user_pay_rates"
}
