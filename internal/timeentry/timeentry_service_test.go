package timeentry

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-timetrack/internal/messaging/kafka"
	"go-timetrack/internal/project"
	timeentryerrors "go-timetrack/internal/timeentry/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn             func(ctx context.Context, e *TimeEntry) error
	findByIDFn           func(ctx context.Context, companyID, id string) (*TimeEntry, error)
	findActiveFn         func(ctx context.Context, companyID, userID string) (*TimeEntry, error)
	findAllFn            func(ctx context.Context, companyID string, filter Filter) ([]TimeEntry, error)
	updateFn             func(ctx context.Context, e *TimeEntry) error
	deleteFn             func(ctx context.Context, companyID, id string) error
	createBreakFn        func(ctx context.Context, b *BreakTime) error
	findOpenBreakFn      func(ctx context.Context, entryID string) (*BreakTime, error)
	closeBreakFn         func(ctx context.Context, breakID string, endTime time.Time) error
	attachFn             func(ctx context.Context, e *TimeEntry, clientID string, weekStart, weekEnd time.Time) error
	bulkSetApprovalFn    func(ctx context.Context, companyID string, ids []string, status, approverID string, timesheetID *string) (int64, error)
	approvePendingFn     func(ctx context.Context, companyID, timesheetID, approverID string) (int64, error)
	revertApprovalFn     func(ctx context.Context, companyID, timesheetID, statusToUnlock string) (int64, error)
	recomputeFn          func(ctx context.Context, timesheetID string) error
	sumProjectHoursFn    func(ctx context.Context, companyID, timesheetID string) ([]ProjectHours, error)
	claimForInvoiceFn    func(ctx context.Context, companyID, timesheetID, invoiceID string) (int64, error)
	releaseClaimFn       func(ctx context.Context, companyID, invoiceID string) error
	countActiveBySheetFn func(ctx context.Context, timesheetID string) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, e *TimeEntry) error {
	return f.createFn(ctx, e)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*TimeEntry, error) {
	return f.findByIDFn(ctx, companyID, id)
}
func (f *fakeRepo) FindActiveByUser(ctx context.Context, companyID, userID string) (*TimeEntry, error) {
	return f.findActiveFn(ctx, companyID, userID)
}
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]TimeEntry, error) {
	return f.findAllFn(ctx, companyID, filter)
}
func (f *fakeRepo) Update(ctx context.Context, e *TimeEntry) error {
	return f.updateFn(ctx, e)
}
func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}
func (f *fakeRepo) CreateBreak(ctx context.Context, b *BreakTime) error {
	return f.createBreakFn(ctx, b)
}
func (f *fakeRepo) FindOpenBreak(ctx context.Context, entryID string) (*BreakTime, error) {
	return f.findOpenBreakFn(ctx, entryID)
}
func (f *fakeRepo) CloseBreak(ctx context.Context, breakID string, endTime time.Time) error {
	return f.closeBreakFn(ctx, breakID, endTime)
}
func (f *fakeRepo) AttachWeeklyTimesheet(ctx context.Context, e *TimeEntry, clientID string, weekStart, weekEnd time.Time) error {
	return f.attachFn(ctx, e, clientID, weekStart, weekEnd)
}
func (f *fakeRepo) BulkSetApproval(ctx context.Context, companyID string, ids []string, status, approverID string, timesheetID *string) (int64, error) {
	return f.bulkSetApprovalFn(ctx, companyID, ids, status, approverID, timesheetID)
}
func (f *fakeRepo) ApprovePendingByTimesheet(ctx context.Context, companyID, timesheetID, approverID string) (int64, error) {
	return f.approvePendingFn(ctx, companyID, timesheetID, approverID)
}
func (f *fakeRepo) RevertApprovalByTimesheet(ctx context.Context, companyID, timesheetID, statusToUnlock string) (int64, error) {
	return f.revertApprovalFn(ctx, companyID, timesheetID, statusToUnlock)
}
func (f *fakeRepo) RecomputeTimesheetTotals(ctx context.Context, timesheetID string) error {
	return f.recomputeFn(ctx, timesheetID)
}
func (f *fakeRepo) SumProjectHours(ctx context.Context, companyID, timesheetID string) ([]ProjectHours, error) {
	return f.sumProjectHoursFn(ctx, companyID, timesheetID)
}
func (f *fakeRepo) ClaimForInvoice(ctx context.Context, companyID, timesheetID, invoiceID string) (int64, error) {
	return f.claimForInvoiceFn(ctx, companyID, timesheetID, invoiceID)
}
func (f *fakeRepo) ReleaseInvoiceClaim(ctx context.Context, companyID, invoiceID string) error {
	return f.releaseClaimFn(ctx, companyID, invoiceID)
}
func (f *fakeRepo) CountActiveByTimesheet(ctx context.Context, timesheetID string) (int64, error) {
	return f.countActiveBySheetFn(ctx, timesheetID)
}

type fakeProjectRepo struct {
	findByIDFn    func(ctx context.Context, companyID, id string) (*project.Project, error)
	findPayRateFn func(ctx context.Context, userID, projectID string) (*project.UserPayRate, error)
}

func (f *fakeProjectRepo) Create(ctx context.Context, p *project.Project) error { return nil }
func (f *fakeProjectRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*project.Project, error) {
	return f.findByIDFn(ctx, companyID, id)
}
func (f *fakeProjectRepo) FindAllByCompany(ctx context.Context, companyID string) ([]project.Project, error) {
	return nil, nil
}
func (f *fakeProjectRepo) Update(ctx context.Context, p *project.Project) error { return nil }
func (f *fakeProjectRepo) Delete(ctx context.Context, companyID, id string) error {
	return nil
}
func (f *fakeProjectRepo) UpsertPayRate(ctx context.Context, rate *project.UserPayRate) error {
	return nil
}
func (f *fakeProjectRepo) FindPayRate(ctx context.Context, userID, projectID string) (*project.UserPayRate, error) {
	return f.findPayRateFn(ctx, userID, projectID)
}

type fakeOutboxRepo struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error             { return nil }
func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func testProject(companyID uuid.UUID) *project.Project {
	return &project.Project{
		ID:        uuid.New(),
		CompanyID: companyID,
		ClientID:  uuid.New(),
		Name:      "Website Redesign",
		Status:    "ACTIVE",
	}
}

func TestService_Start_SnapshotsPayRate(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	userID := uuid.New()
	proj := testProject(companyID)
	ctx := context.Background()

	var created TimeEntry
	repo := &fakeRepo{}
	repo.createFn = func(ctx context.Context, e *TimeEntry) error { created = *e; return nil }

	projRepo := &fakeProjectRepo{}
	projRepo.findByIDFn = func(ctx context.Context, companyID, id string) (*project.Project, error) {
		return proj, nil
	}
	projRepo.findPayRateFn = func(ctx context.Context, userID, projectID string) (*project.UserPayRate, error) {
		return &project.UserPayRate{PayRate: 20, InvoiceRate: 35, Currency: "$"}, nil
	}

	svc := NewService(db, repo, projRepo, &fakeOutboxRepo{})

	resp, err := svc.Start(ctx, companyID.String(), userID.String(), StartTimeEntryRequest{
		ProjectID: proj.ID.String(),
	})
	assert.NoError(t, err)
	assert.Equal(t, float64(20), resp.HourlyRate)
	assert.Equal(t, float64(35), resp.HourlyInvoiceRate)
	assert.Equal(t, ApprovalPending, created.ApprovalStatus)
	assert.Equal(t, EntryTypeTimesheet, created.EntryType)
	assert.Nil(t, created.EndTime)
}

func TestService_Start_SecondActiveEntryRejected(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	proj := testProject(companyID)
	ctx := context.Background()

	repo := &fakeRepo{}
	repo.createFn = func(ctx context.Context, e *TimeEntry) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_time_entries_active"}
	}

	projRepo := &fakeProjectRepo{}
	projRepo.findByIDFn = func(ctx context.Context, companyID, id string) (*project.Project, error) {
		return proj, nil
	}
	projRepo.findPayRateFn = func(ctx context.Context, userID, projectID string) (*project.UserPayRate, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo, projRepo, &fakeOutboxRepo{})

	_, err := svc.Start(ctx, companyID.String(), uuid.NewString(), StartTimeEntryRequest{
		ProjectID: proj.ID.String(),
	})
	assert.ErrorIs(t, err, timeentryerrors.ErrActiveEntryExists)
}

func TestService_Stop_ComputesDurationAndAttachesTimesheet(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	userID := uuid.New()
	proj := testProject(companyID)
	timesheetID := uuid.New()
	ctx := context.Background()

	start := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC) // a Wednesday
	active := TimeEntry{
		ID:             uuid.New(),
		CompanyID:      companyID,
		ProjectID:      proj.ID,
		UserID:         userID,
		StartTime:      start,
		ApprovalStatus: ApprovalPending,
		EntryType:      EntryTypeTimesheet,
		HourlyRate:     20,
	}

	var attachedWeekStart, attachedWeekEnd time.Time
	var recomputed string
	repo := &fakeRepo{}
	repo.findActiveFn = func(ctx context.Context, companyID, userID string) (*TimeEntry, error) {
		copied := active
		return &copied, nil
	}
	repo.findOpenBreakFn = func(ctx context.Context, entryID string) (*BreakTime, error) {
		return nil, gorm.ErrRecordNotFound
	}
	repo.updateFn = func(ctx context.Context, e *TimeEntry) error { return nil }
	repo.attachFn = func(ctx context.Context, e *TimeEntry, clientID string, weekStart, weekEnd time.Time) error {
		attachedWeekStart, attachedWeekEnd = weekStart, weekEnd
		return nil
	}
	repo.findByIDFn = func(ctx context.Context, companyID, id string) (*TimeEntry, error) {
		copied := active
		copied.TimesheetID = &timesheetID
		return &copied, nil
	}
	repo.recomputeFn = func(ctx context.Context, id string) error { recomputed = id; return nil }

	projRepo := &fakeProjectRepo{}
	projRepo.findByIDFn = func(ctx context.Context, companyID, id string) (*project.Project, error) {
		return proj, nil
	}

	outbox := &fakeOutboxRepo{}
	svc := NewService(db, repo, projRepo, outbox).(*service)
	svc.now = func() time.Time { return start.Add(2 * time.Hour) }

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Stop(ctx, companyID.String(), userID.String(), StopTimeEntryRequest{})
	assert.NoError(t, err)
	assert.NotNil(t, resp.Duration)
	assert.Equal(t, int64(7200), *resp.Duration)
	assert.Equal(t, timesheetID.String(), recomputed)

	// Monday through Sunday of the week containing the start time.
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), attachedWeekStart)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), attachedWeekEnd)

	assert.Len(t, outbox.created, 1)
	assert.Equal(t, "time_entry", outbox.created[0].AggregateType)
	assert.Equal(t, kafka.OutboxStatusPending, outbox.created[0].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Stop_DeductsBreaks(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	userID := uuid.New()
	ctx := context.Background()

	start := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	breakEnd := start.Add(40 * time.Minute)
	active := TimeEntry{
		ID:             uuid.New(),
		CompanyID:      companyID,
		ProjectID:      uuid.New(),
		UserID:         userID,
		StartTime:      start,
		ApprovalStatus: ApprovalPending,
		EntryType:      EntryTypeOther,
		Breaks: []BreakTime{
			{ID: uuid.New(), StartTime: start.Add(30 * time.Minute), EndTime: &breakEnd},
		},
	}

	repo := &fakeRepo{}
	repo.findActiveFn = func(ctx context.Context, companyID, userID string) (*TimeEntry, error) {
		copied := active
		return &copied, nil
	}
	repo.findOpenBreakFn = func(ctx context.Context, entryID string) (*BreakTime, error) {
		return nil, gorm.ErrRecordNotFound
	}
	repo.updateFn = func(ctx context.Context, e *TimeEntry) error { return nil }

	svc := NewService(db, repo, &fakeProjectRepo{}, &fakeOutboxRepo{}).(*service)
	svc.now = func() time.Time { return start.Add(1 * time.Hour) }

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Stop(ctx, companyID.String(), userID.String(), StopTimeEntryRequest{})
	assert.NoError(t, err)
	assert.Equal(t, int64(600), resp.BreakDuration)
	assert.Equal(t, int64(3000), *resp.Duration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Stop_NoActiveEntry(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findActiveFn = func(ctx context.Context, companyID, userID string) (*TimeEntry, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo, &fakeProjectRepo{}, &fakeOutboxRepo{})

	_, err := svc.Stop(context.Background(), uuid.NewString(), uuid.NewString(), StopTimeEntryRequest{})
	assert.ErrorIs(t, err, timeentryerrors.ErrNoActiveEntry)
}

func TestService_Update_LockedAfterApproval(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	entryID := uuid.New()

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, _, id string) (*TimeEntry, error) {
		return &TimeEntry{ID: entryID, CompanyID: companyID, ApprovalStatus: ApprovalApproved}, nil
	}

	svc := NewService(db, repo, &fakeProjectRepo{}, &fakeOutboxRepo{})

	desc := "edited"
	_, err := svc.Update(context.Background(), companyID.String(), entryID.String(), UpdateTimeEntryRequest{Description: &desc})
	assert.ErrorIs(t, err, timeentryerrors.ErrEntryLocked)
}

func TestService_Update_LockedAfterRejection(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	entryID := uuid.New()

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, _, id string) (*TimeEntry, error) {
		return &TimeEntry{ID: entryID, CompanyID: companyID, ApprovalStatus: ApprovalRejected}, nil
	}
	repo.updateFn = func(ctx context.Context, e *TimeEntry) error {
		t.Fatal("rejected entries must not be written")
		return nil
	}

	svc := NewService(db, repo, &fakeProjectRepo{}, &fakeOutboxRepo{})

	desc := "edited"
	_, err := svc.Update(context.Background(), companyID.String(), entryID.String(), UpdateTimeEntryRequest{Description: &desc})
	assert.ErrorIs(t, err, timeentryerrors.ErrEntryLocked)
}

func TestService_Delete_LockedAfterRejection(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	entryID := uuid.New()

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, _, id string) (*TimeEntry, error) {
		return &TimeEntry{ID: entryID, CompanyID: companyID, ApprovalStatus: ApprovalRejected}, nil
	}
	repo.deleteFn = func(ctx context.Context, companyID, id string) error {
		t.Fatal("rejected entries must not be deleted")
		return nil
	}

	svc := NewService(db, repo, &fakeProjectRepo{}, &fakeOutboxRepo{})

	err := svc.Delete(context.Background(), companyID.String(), entryID.String())
	assert.ErrorIs(t, err, timeentryerrors.ErrEntryLocked)
}

func TestService_BulkApproveReject_AllOrNothing(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	approverID := uuid.New().String()
	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}

	repo := &fakeRepo{}
	repo.bulkSetApprovalFn = func(ctx context.Context, companyID string, ids []string, status, approverID string, timesheetID *string) (int64, error) {
		return 2, nil // one entry already invoiced, not updatable
	}

	svc := NewService(db, repo, &fakeProjectRepo{}, &fakeOutboxRepo{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.BulkApproveReject(context.Background(), companyID, approverID, BulkApproveRejectRequest{
		IDs:            ids,
		ApprovalStatus: ApprovalApproved,
	})
	assert.ErrorIs(t, err, timeentryerrors.ErrBulkUpdateIncomplete)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_BulkApproveReject_RecomputesTimesheet(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New().String()
	approverID := uuid.New().String()
	timesheetID := uuid.NewString()
	ids := []string{uuid.NewString(), uuid.NewString()}

	var recomputed string
	repo := &fakeRepo{}
	repo.bulkSetApprovalFn = func(ctx context.Context, companyID string, ids []string, status, approverID string, tsID *string) (int64, error) {
		return int64(len(ids)), nil
	}
	repo.recomputeFn = func(ctx context.Context, id string) error { recomputed = id; return nil }

	svc := NewService(db, repo, &fakeProjectRepo{}, &fakeOutboxRepo{})

	mock.ExpectBegin()
	mock.ExpectCommit()

	affected, err := svc.BulkApproveReject(context.Background(), companyID, approverID, BulkApproveRejectRequest{
		IDs:            ids,
		ApprovalStatus: ApprovalRejected,
		TimesheetID:    &timesheetID,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.Equal(t, timesheetID, recomputed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_BulkApproveReject_InvalidStatus(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeProjectRepo{}, &fakeOutboxRepo{})

	_, err := svc.BulkApproveReject(context.Background(), uuid.NewString(), uuid.NewString(), BulkApproveRejectRequest{
		IDs:            []string{uuid.NewString()},
		ApprovalStatus: "MAYBE",
	})
	assert.ErrorIs(t, err, timeentryerrors.ErrInvalidApprovalStatus)
}

func TestService_StartBreak_AlreadyOpen(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	entry := TimeEntry{ID: uuid.New(), CompanyID: companyID, StartTime: time.Now().UTC()}

	repo := &fakeRepo{}
	repo.findActiveFn = func(ctx context.Context, companyID, userID string) (*TimeEntry, error) {
		copied := entry
		return &copied, nil
	}
	repo.findOpenBreakFn = func(ctx context.Context, entryID string) (*BreakTime, error) {
		return &BreakTime{ID: uuid.New(), TimeEntryID: entry.ID, StartTime: time.Now().UTC()}, nil
	}

	svc := NewService(db, repo, &fakeProjectRepo{}, &fakeOutboxRepo{})

	_, err := svc.StartBreak(context.Background(), companyID.String(), uuid.NewString())
	assert.ErrorIs(t, err, timeentryerrors.ErrBreakAlreadyOpen)
}

func TestWeekBounds(t *testing.T) {
	cases := []struct {
		in        time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			in:        time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), // Monday
			wantStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			in:        time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC), // Sunday
			wantStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		start, end := weekBounds(tc.in)
		assert.Equal(t, tc.wantStart, start)
		assert.Equal(t, tc.wantEnd, end)
	}
}
