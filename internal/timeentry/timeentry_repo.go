package timeentry

import (
	"context"
	"database/sql"
	"time"

	"go-timetrack/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *TimeEntry) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*TimeEntry, error)
	FindActiveByUser(ctx context.Context, companyID, userID string) (*TimeEntry, error)
	FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]TimeEntry, error)
	Update(ctx context.Context, e *TimeEntry) error
	Delete(ctx context.Context, companyID, id string) error

	CreateBreak(ctx context.Context, b *BreakTime) error
	FindOpenBreak(ctx context.Context, entryID string) (*BreakTime, error)
	CloseBreak(ctx context.Context, breakID string, endTime time.Time) error

	// AttachWeeklyTimesheet finds or creates the weekly timesheet row for
	// (company, user, client, week) and links the entry to it.
	AttachWeeklyTimesheet(ctx context.Context, e *TimeEntry, clientID string, weekStart, weekEnd time.Time) error

	// BulkSetApproval flips approval_status for entries that are still in a
	// reviewable state and returns how many rows changed.
	BulkSetApproval(ctx context.Context, companyID string, ids []string, status, approverID string, timesheetID *string) (int64, error)

	// ApprovePendingByTimesheet cascades a timesheet approval onto its
	// remaining PENDING entries.
	ApprovePendingByTimesheet(ctx context.Context, companyID, timesheetID, approverID string) (int64, error)

	// RevertApprovalByTimesheet moves APPROVED/REJECTED entries under a
	// timesheet back to PENDING.
	RevertApprovalByTimesheet(ctx context.Context, companyID, timesheetID, statusToUnlock string) (int64, error)

	// RecomputeTimesheetTotals refreshes duration and total_expense on the
	// timesheet from its linked entries.
	RecomputeTimesheetTotals(ctx context.Context, timesheetID string) error

	// SumProjectHours groups approved, uninvoiced entries of a timesheet by
	// project for invoice aggregation.
	SumProjectHours(ctx context.Context, companyID, timesheetID string) ([]ProjectHours, error)

	// ClaimForInvoice stamps invoice_id on approved, uninvoiced entries and
	// returns the number of rows claimed. The invoice_id IS NULL predicate is
	// what prevents double billing under concurrent invoice creation.
	ClaimForInvoice(ctx context.Context, companyID, timesheetID, invoiceID string) (int64, error)

	// ReleaseInvoiceClaim clears invoice_id, used when a pending invoice is
	// deleted.
	ReleaseInvoiceClaim(ctx context.Context, companyID, invoiceID string) error

	CountActiveByTimesheet(ctx context.Context, timesheetID string) (int64, error)
}

type Filter struct {
	UserID         string
	ProjectID      string
	TimesheetID    string
	ApprovalStatus string
	From           *time.Time
	To             *time.Time
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

// session returns a gorm handle bound to the transaction when one is set.
func (r *repository) session(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true, Context: ctx})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, e *TimeEntry) error {
	return r.session(ctx).Create(e).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*TimeEntry, error) {
	var e TimeEntry
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Breaks").
		Where("id = ?", id).
		First(&e).Error
	return &e, err
}

func (r *repository) FindActiveByUser(ctx context.Context, companyID, userID string) (*TimeEntry, error) {
	var e TimeEntry
	err := r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Breaks").
		Where("user_id = ?", userID).
		Where("end_time IS NULL").
		First(&e).Error
	return &e, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]TimeEntry, error) {
	q := r.session(ctx).
		Scopes(tenant.Scope(companyID))

	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.ProjectID != "" {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.TimesheetID != "" {
		q = q.Where("timesheet_id = ?", filter.TimesheetID)
	}
	if filter.ApprovalStatus != "" {
		q = q.Where("approval_status = ?", filter.ApprovalStatus)
	}
	if filter.From != nil {
		q = q.Where("start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_time < ?", *filter.To)
	}

	var rows []TimeEntry
	err := q.Order("start_time DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, e *TimeEntry) error {
	return r.session(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.session(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&TimeEntry{}).Error
}

func (r *repository) CreateBreak(ctx context.Context, b *BreakTime) error {
	return r.session(ctx).Create(b).Error
}

func (r *repository) FindOpenBreak(ctx context.Context, entryID string) (*BreakTime, error) {
	var b BreakTime
	err := r.session(ctx).
		Where("time_entry_id = ?", entryID).
		Where("end_time IS NULL").
		First(&b).Error
	return &b, err
}

func (r *repository) CloseBreak(ctx context.Context, breakID string, endTime time.Time) error {
	return r.session(ctx).
		Model(&BreakTime{}).
		Where("id = ?", breakID).
		Update("end_time", endTime).Error
}

func (r *repository) AttachWeeklyTimesheet(ctx context.Context, e *TimeEntry, clientID string, weekStart, weekEnd time.Time) error {
	var timesheetID string

	// Find-or-create keyed on the unique (company, user, client, week) tuple
	// so two entries stopped in the same week share one timesheet.
	err := r.session(ctx).Raw(`
		INSERT INTO timesheets (id, company_id, user_id, client_id, week_start_date, week_end_date, status, created_at, updated_at)
		VALUES (gen_random_uuid(), ?, ?, ?, ?, ?, 'OPEN', now(), now())
		ON CONFLICT (company_id, user_id, client_id, week_start_date, week_end_date) DO UPDATE
		SET updated_at = now()
		RETURNING id::text
	`, e.CompanyID, e.UserID, clientID, weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02")).
		Scan(&timesheetID).Error
	if err != nil {
		return err
	}

	return r.session(ctx).
		Model(&TimeEntry{}).
		Where("id = ?", e.ID).
		Update("timesheet_id", timesheetID).Error
}

func (r *repository) BulkSetApproval(ctx context.Context, companyID string, ids []string, status, approverID string, timesheetID *string) (int64, error) {
	q := r.session(ctx).
		Model(&TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("id IN ?", ids).
		Where("invoice_id IS NULL")

	if timesheetID != nil {
		q = q.Where("timesheet_id = ?", *timesheetID)
	}

	res := q.Updates(map[string]any{
		"approval_status": status,
		"approver_id":     approverID,
		"updated_at":      gorm.Expr("now()"),
	})
	return res.RowsAffected, res.Error
}

func (r *repository) ApprovePendingByTimesheet(ctx context.Context, companyID, timesheetID, approverID string) (int64, error) {
	res := r.session(ctx).
		Model(&TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("timesheet_id = ?", timesheetID).
		Where("approval_status = ?", ApprovalPending).
		Updates(map[string]any{
			"approval_status": ApprovalApproved,
			"approver_id":     approverID,
			"updated_at":      gorm.Expr("now()"),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) RevertApprovalByTimesheet(ctx context.Context, companyID, timesheetID, statusToUnlock string) (int64, error) {
	res := r.session(ctx).
		Model(&TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("timesheet_id = ?", timesheetID).
		Where("approval_status = ?", statusToUnlock).
		Where("invoice_id IS NULL").
		Updates(map[string]any{
			"approval_status": ApprovalPending,
			"approver_id":     nil,
			"updated_at":      gorm.Expr("now()"),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) RecomputeTimesheetTotals(ctx context.Context, timesheetID string) error {
	return r.session(ctx).Exec(`
		UPDATE timesheets
		SET duration = COALESCE(agg.total_duration, 0),
		    total_expense = ROUND(COALESCE(agg.total_expense, 0)::numeric, 2),
		    updated_at = now()
		FROM (
			SELECT
				COALESCE(SUM(duration), 0) AS total_duration,
				COALESCE(SUM(duration / 3600.0 * hourly_rate), 0) AS total_expense
			FROM time_entries
			WHERE timesheet_id = ?
				AND duration IS NOT NULL
				AND deleted_at IS NULL
		) AS agg
		WHERE timesheets.id = ?
	`, timesheetID, timesheetID).Error
}

func (r *repository) SumProjectHours(ctx context.Context, companyID, timesheetID string) ([]ProjectHours, error) {
	var rows []ProjectHours
	err := r.session(ctx).Raw(`
		SELECT project_id, user_id, SUM(duration) AS total_duration
		FROM time_entries
		WHERE company_id = ?
			AND timesheet_id = ?
			AND approval_status = ?
			AND invoice_id IS NULL
			AND duration IS NOT NULL
			AND deleted_at IS NULL
		GROUP BY project_id, user_id
		ORDER BY project_id
	`, companyID, timesheetID, ApprovalApproved).Scan(&rows).Error
	return rows, err
}

func (r *repository) ClaimForInvoice(ctx context.Context, companyID, timesheetID, invoiceID string) (int64, error) {
	res := r.session(ctx).
		Model(&TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("timesheet_id = ?", timesheetID).
		Where("approval_status = ?", ApprovalApproved).
		Where("invoice_id IS NULL").
		Update("invoice_id", invoiceID)
	return res.RowsAffected, res.Error
}

func (r *repository) ReleaseInvoiceClaim(ctx context.Context, companyID, invoiceID string) error {
	return r.session(ctx).
		Model(&TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("invoice_id = ?", invoiceID).
		Update("invoice_id", nil).Error
}

func (r *repository) CountActiveByTimesheet(ctx context.Context, timesheetID string) (int64, error) {
	var count int64
	err := r.session(ctx).
		Model(&TimeEntry{}).
		Where("timesheet_id = ?", timesheetID).
		Where("end_time IS NULL").
		Count(&count).Error
	return count, err
}
