package timeentry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-timetrack/internal/events"
	"go-timetrack/internal/messaging/kafka"
	"go-timetrack/internal/project"
	"go-timetrack/internal/shared/contextutil"
	timeentryerrors "go-timetrack/internal/timeentry/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Start(ctx context.Context, companyID, userID string, req StartTimeEntryRequest) (TimeEntryResponse, error)
	Stop(ctx context.Context, companyID, userID string, req StopTimeEntryRequest) (TimeEntryResponse, error)
	StartBreak(ctx context.Context, companyID, userID string) (TimeEntryResponse, error)
	StopBreak(ctx context.Context, companyID, userID string) (TimeEntryResponse, error)
	GetAll(ctx context.Context, companyID string, req GetTimeEntriesFilterRequest) ([]TimeEntryResponse, error)
	GetByID(ctx context.Context, companyID, id string) (TimeEntryResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateTimeEntryRequest) (TimeEntryResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	BulkApproveReject(ctx context.Context, companyID, approverID string, req BulkApproveRejectRequest) (int64, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	projectRepo project.Repository
	outboxRepo  kafka.OutboxRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewService(db *sql.DB, repo Repository, projectRepo project.Repository, outboxRepo kafka.OutboxRepository) Service {
	return &service{
		db:          db,
		repo:        repo,
		projectRepo: projectRepo,
		outboxRepo:  outboxRepo,
		logger:      zap.L().Named("timeentry.service"),
		now:         time.Now,
	}
}

func (s *service) Start(ctx context.Context, companyID, userID string, req StartTimeEntryRequest) (TimeEntryResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidEntryID
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidUserID
	}
	projectUUID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidProjectID
	}

	entryType := req.EntryType
	if entryType == "" {
		entryType = EntryTypeTimesheet
	}
	if entryType != EntryTypeTimesheet && entryType != EntryTypeOther {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidEntryType
	}

	startTime := s.now().UTC()
	if req.StartTime != nil {
		parsed, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimestamp
		}
		startTime = parsed.UTC()
	}

	if _, err := s.projectRepo.FindByIDAndCompany(ctx, companyID, req.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrInvalidProjectID
		}
		return TimeEntryResponse{}, err
	}

	// Rates are snapshotted on the entry so later rate changes never rewrite
	// history. Missing pay rate means the entry is tracked at zero.
	var hourlyRate, hourlyInvoiceRate float64
	if rate, err := s.projectRepo.FindPayRate(ctx, userID, req.ProjectID); err == nil {
		hourlyRate = rate.PayRate
		hourlyInvoiceRate = rate.InvoiceRate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return TimeEntryResponse{}, err
	}

	e := &TimeEntry{
		ID:                uuid.New(),
		CompanyID:         companyUUID,
		ProjectID:         projectUUID,
		UserID:            userUUID,
		StartTime:         startTime,
		HourlyRate:        hourlyRate,
		HourlyInvoiceRate: hourlyInvoiceRate,
		ApprovalStatus:    ApprovalPending,
		EntryType:         entryType,
		Description:       req.Description,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_time_entries_active" {
				return TimeEntryResponse{}, timeentryerrors.ErrActiveEntryExists
			}
		}
		s.logger.Error("start time entry failed", zap.String("request_id", rid), zap.Error(err))
		return TimeEntryResponse{}, err
	}

	return mapToResponse(*e), nil
}

func (s *service) Stop(ctx context.Context, companyID, userID string, req StopTimeEntryRequest) (TimeEntryResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	e, err := s.repo.FindActiveByUser(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrNoActiveEntry
		}
		return TimeEntryResponse{}, err
	}

	endTime := s.now().UTC()
	if req.EndTime != nil {
		parsed, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimestamp
		}
		endTime = parsed.UTC()
	}
	if !endTime.After(e.StartTime) {
		return TimeEntryResponse{}, timeentryerrors.ErrEndBeforeStart
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// A break left running is force-closed at the stop time.
	if open, err := qtx.FindOpenBreak(ctx, e.ID.String()); err == nil {
		if err := qtx.CloseBreak(ctx, open.ID.String(), endTime); err != nil {
			return TimeEntryResponse{}, err
		}
		open.EndTime = &endTime
		for i := range e.Breaks {
			if e.Breaks[i].ID == open.ID {
				e.Breaks[i].EndTime = &endTime
			}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return TimeEntryResponse{}, err
	}

	breakSeconds := sumBreakSeconds(e.Breaks, endTime)
	worked := int64(endTime.Sub(e.StartTime).Seconds()) - breakSeconds
	if worked < 0 {
		worked = 0
	}

	e.EndTime = &endTime
	e.Duration = &worked
	e.BreakDuration = breakSeconds

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("stop time entry failed", zap.String("request_id", rid), zap.Error(err))
		return TimeEntryResponse{}, err
	}

	if e.EntryType == EntryTypeTimesheet {
		p, err := s.projectRepo.FindByIDAndCompany(ctx, companyID, e.ProjectID.String())
		if err != nil {
			return TimeEntryResponse{}, err
		}

		weekStart, weekEnd := weekBounds(e.StartTime)
		if err := qtx.AttachWeeklyTimesheet(ctx, e, p.ClientID.String(), weekStart, weekEnd); err != nil {
			return TimeEntryResponse{}, err
		}

		fresh, err := qtx.FindByIDAndCompany(ctx, companyID, e.ID.String())
		if err != nil {
			return TimeEntryResponse{}, err
		}
		e.TimesheetID = fresh.TimesheetID

		if e.TimesheetID != nil {
			if err := qtx.RecomputeTimesheetTotals(ctx, e.TimesheetID.String()); err != nil {
				return TimeEntryResponse{}, err
			}
		}
	}

	if err := s.enqueueStoppedEvent(ctx, tx, e, rid); err != nil {
		return TimeEntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}

	return mapToResponse(*e), nil
}

func (s *service) StartBreak(ctx context.Context, companyID, userID string) (TimeEntryResponse, error) {
	e, err := s.repo.FindActiveByUser(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrNoActiveEntry
		}
		return TimeEntryResponse{}, err
	}

	if _, err := s.repo.FindOpenBreak(ctx, e.ID.String()); err == nil {
		return TimeEntryResponse{}, timeentryerrors.ErrBreakAlreadyOpen
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return TimeEntryResponse{}, err
	}

	b := &BreakTime{
		ID:          uuid.New(),
		TimeEntryID: e.ID,
		StartTime:   s.now().UTC(),
	}
	if err := s.repo.CreateBreak(ctx, b); err != nil {
		return TimeEntryResponse{}, err
	}

	e.Breaks = append(e.Breaks, *b)
	return mapToResponse(*e), nil
}

func (s *service) StopBreak(ctx context.Context, companyID, userID string) (TimeEntryResponse, error) {
	e, err := s.repo.FindActiveByUser(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrNoActiveEntry
		}
		return TimeEntryResponse{}, err
	}

	open, err := s.repo.FindOpenBreak(ctx, e.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrNoOpenBreak
		}
		return TimeEntryResponse{}, err
	}

	endTime := s.now().UTC()
	if err := s.repo.CloseBreak(ctx, open.ID.String(), endTime); err != nil {
		return TimeEntryResponse{}, err
	}

	for i := range e.Breaks {
		if e.Breaks[i].ID == open.ID {
			e.Breaks[i].EndTime = &endTime
		}
	}
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, req GetTimeEntriesFilterRequest) ([]TimeEntryResponse, error) {
	filter := Filter{
		UserID:         req.UserID,
		ProjectID:      req.ProjectID,
		TimesheetID:    req.TimesheetID,
		ApprovalStatus: req.ApprovalStatus,
	}
	if req.From != "" {
		parsed, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			return nil, timeentryerrors.ErrInvalidTimestamp
		}
		filter.From = &parsed
	}
	if req.To != "" {
		parsed, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			return nil, timeentryerrors.ErrInvalidTimestamp
		}
		filter.To = &parsed
	}

	rows, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]TimeEntryResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (TimeEntryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidEntryID
	}

	e, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return TimeEntryResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateTimeEntryRequest) (TimeEntryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidEntryID
	}

	e, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return TimeEntryResponse{}, mapRepositoryError(err)
	}
	if e.ApprovalStatus != ApprovalPending || e.InvoiceID != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrEntryLocked
	}

	if req.StartTime != nil {
		parsed, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimestamp
		}
		e.StartTime = parsed.UTC()
	}
	if req.EndTime != nil {
		parsed, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimestamp
		}
		utc := parsed.UTC()
		e.EndTime = &utc
	}
	if req.Description != nil {
		e.Description = req.Description
	}

	if e.EndTime != nil {
		if !e.EndTime.After(e.StartTime) {
			return TimeEntryResponse{}, timeentryerrors.ErrEndBeforeStart
		}
		breakSeconds := sumBreakSeconds(e.Breaks, *e.EndTime)
		worked := int64(e.EndTime.Sub(e.StartTime).Seconds()) - breakSeconds
		if worked < 0 {
			worked = 0
		}
		e.Duration = &worked
		e.BreakDuration = breakSeconds
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Update(ctx, e); err != nil {
		return TimeEntryResponse{}, err
	}
	if e.TimesheetID != nil {
		if err := qtx.RecomputeTimesheetTotals(ctx, e.TimesheetID.String()); err != nil {
			return TimeEntryResponse{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}

	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return timeentryerrors.ErrInvalidEntryID
	}

	e, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if e.ApprovalStatus != ApprovalPending || e.InvoiceID != nil {
		return timeentryerrors.ErrEntryLocked
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return err
	}
	if e.TimesheetID != nil {
		if err := qtx.RecomputeTimesheetTotals(ctx, e.TimesheetID.String()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// BulkApproveReject flips a batch of entries in one transaction. The whole
// batch succeeds or none of it does, so a reviewer never sees a half-approved
// selection.
func (s *service) BulkApproveReject(ctx context.Context, companyID, approverID string, req BulkApproveRejectRequest) (int64, error) {
	rid := contextutil.GetRequestID(ctx)

	if req.ApprovalStatus != ApprovalApproved && req.ApprovalStatus != ApprovalRejected {
		return 0, timeentryerrors.ErrInvalidApprovalStatus
	}
	for _, id := range req.IDs {
		if _, err := uuid.Parse(id); err != nil {
			return 0, timeentryerrors.ErrInvalidEntryID
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	affected, err := qtx.BulkSetApproval(ctx, companyID, req.IDs, req.ApprovalStatus, approverID, req.TimesheetID)
	if err != nil {
		s.logger.Error("bulk approval failed", zap.String("request_id", rid), zap.Error(err))
		return 0, err
	}
	if affected != int64(len(req.IDs)) {
		return 0, timeentryerrors.ErrBulkUpdateIncomplete
	}

	if req.TimesheetID != nil {
		if err := qtx.RecomputeTimesheetTotals(ctx, *req.TimesheetID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return affected, nil
}

func (s *service) enqueueStoppedEvent(ctx context.Context, tx *sql.Tx, e *TimeEntry, rid string) error {
	var duration int64
	if e.Duration != nil {
		duration = *e.Duration
	}

	payload, err := json.Marshal(events.TimeEntryStoppedEvent{
		EventType:   events.TimeEntryStoppedType,
		TimeEntryID: e.ID.String(),
		CompanyID:   e.CompanyID.String(),
		UserID:      e.UserID.String(),
		ProjectID:   e.ProjectID.String(),
		Duration:    duration,
		OccurredAt:  s.now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "time_entry",
		AggregateID:   e.ID.String(),
		EventType:     events.TimeEntryStoppedType,
		Topic:         events.TimeEntryStoppedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// sumBreakSeconds totals break time, treating a still-open break as ending at
// the entry end time.
func sumBreakSeconds(breaks []BreakTime, entryEnd time.Time) int64 {
	var total int64
	for _, b := range breaks {
		end := entryEnd
		if b.EndTime != nil {
			end = *b.EndTime
		}
		if end.After(b.StartTime) {
			total += int64(end.Sub(b.StartTime).Seconds())
		}
	}
	return total
}

// weekBounds returns the ISO week (Monday through Sunday) containing t.
func weekBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -(weekday - 1))
	return start, start.AddDate(0, 0, 6)
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return timeentryerrors.ErrEntryNotFound
	}
	return err
}

func mapToResponse(e TimeEntry) TimeEntryResponse {
	resp := TimeEntryResponse{
		ID:                e.ID.String(),
		CompanyID:         e.CompanyID.String(),
		ProjectID:         e.ProjectID.String(),
		UserID:            e.UserID.String(),
		StartTime:         e.StartTime.Format(time.RFC3339),
		Duration:          e.Duration,
		BreakDuration:     e.BreakDuration,
		HourlyRate:        e.HourlyRate,
		HourlyInvoiceRate: e.HourlyInvoiceRate,
		ApprovalStatus:    e.ApprovalStatus,
		EntryType:         e.EntryType,
		Description:       e.Description,
	}
	if e.ApproverID != nil {
		v := e.ApproverID.String()
		resp.ApproverID = &v
	}
	if e.TimesheetID != nil {
		v := e.TimesheetID.String()
		resp.TimesheetID = &v
	}
	if e.InvoiceID != nil {
		v := e.InvoiceID.String()
		resp.InvoiceID = &v
	}
	if e.EndTime != nil {
		v := e.EndTime.Format(time.RFC3339)
		resp.EndTime = &v
	}
	for _, b := range e.Breaks {
		br := BreakTimeResponse{
			ID:        b.ID.String(),
			StartTime: b.StartTime.Format(time.RFC3339),
		}
		if b.EndTime != nil {
			v := b.EndTime.Format(time.RFC3339)
			br.EndTime = &v
		}
		resp.Breaks = append(resp.Breaks, br)
	}
	return resp
}
