package timesheet

import (
	"context"
	"database/sql"

	"go-timetrack/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Timesheet, error)
	FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]Timesheet, error)
	Update(ctx context.Context, ts *Timesheet) error
	CreateComment(ctx context.Context, c *TimesheetComment) error
	ListComments(ctx context.Context, timesheetID string) ([]TimesheetComment, error)
}

type Filter struct {
	UserID    string
	ClientID  string
	Status    string
	WeekStart string
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

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Timesheet, error) {
	var ts Timesheet
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&ts).Error
	return &ts, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]Timesheet, error) {
	q := r.session(ctx).
		Scopes(tenant.Scope(companyID))

	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.WeekStart != "" {
		q = q.Where("week_start_date = ?", filter.WeekStart)
	}

	var rows []Timesheet
	err := q.Order("week_start_date DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, ts *Timesheet) error {
	return r.session(ctx).Save(ts).Error
}

func (r *repository) CreateComment(ctx context.Context, c *TimesheetComment) error {
	return r.session(ctx).Create(c).Error
}

func (r *repository) ListComments(ctx context.Context, timesheetID string) ([]TimesheetComment, error) {
	var rows []TimesheetComment
	err := r.session(ctx).
		Where("timesheet_id = ?", timesheetID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
