package timesheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-timetrack/internal/events"
	"go-timetrack/internal/messaging/kafka"
	"go-timetrack/internal/shared/contextutil"
	"go-timetrack/internal/timeentry"
	timesheeterrors "go-timetrack/internal/timesheet/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	GetAll(ctx context.Context, companyID string, req GetTimesheetsFilterRequest) ([]TimesheetResponse, error)
	GetByID(ctx context.Context, companyID, id string) (TimesheetResponse, error)
	Submit(ctx context.Context, companyID, userID, id string) (TimesheetResponse, error)
	Approve(ctx context.Context, companyID, approverID, id string) (TimesheetResponse, error)
	Unlock(ctx context.Context, companyID, unlockedBy, id string, req UnlockTimesheetRequest) (TimesheetResponse, error)
	AddComment(ctx context.Context, companyID, userID, id string, req CreateCommentRequest) (CommentResponse, error)
	ListComments(ctx context.Context, companyID, id string) ([]CommentResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	entryRepo  timeentry.Repository
	outboxRepo kafka.OutboxRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(db *sql.DB, repo Repository, entryRepo timeentry.Repository, outboxRepo kafka.OutboxRepository) Service {
	return &service{
		db:         db,
		repo:       repo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		logger:     zap.L().Named("timesheet.service"),
		now:        time.Now,
	}
}

func (s *service) GetAll(ctx context.Context, companyID string, req GetTimesheetsFilterRequest) ([]TimesheetResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID, Filter{
		UserID:    req.UserID,
		ClientID:  req.ClientID,
		Status:    req.Status,
		WeekStart: req.WeekStart,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]TimesheetResponse, len(rows))
	for i, ts := range rows {
		resp[i] = mapToResponse(ts)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (TimesheetResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidTimesheetID
	}

	ts, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return TimesheetResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*ts), nil
}

func (s *service) Submit(ctx context.Context, companyID, userID, id string) (TimesheetResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidTimesheetID
	}

	ts, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return TimesheetResponse{}, mapRepositoryError(err)
	}
	if ts.UserID.String() != userID {
		return TimesheetResponse{}, timesheeterrors.ErrNotOwner
	}
	// An approved week is frozen; it reopens only through Unlock.
	if ts.Status != StatusOpen {
		return TimesheetResponse{}, timesheeterrors.ErrAlreadyApproved
	}

	// A week with a still-running entry has an unknown total and cannot be
	// sent for review.
	active, err := s.entryRepo.CountActiveByTimesheet(ctx, id)
	if err != nil {
		return TimesheetResponse{}, err
	}
	if active > 0 {
		return TimesheetResponse{}, timesheeterrors.ErrActiveEntryOnTimesheet
	}

	submittedAt := s.now().UTC()
	ts.IsSubmitted = true
	ts.LastSubmittedAt = &submittedAt

	if err := s.repo.Update(ctx, ts); err != nil {
		return TimesheetResponse{}, err
	}
	return mapToResponse(*ts), nil
}

// Approve flips the timesheet to APPROVED and cascades the decision onto its
// still-pending entries, then refreshes the rollups from what was approved.
func (s *service) Approve(ctx context.Context, companyID, approverID, id string) (TimesheetResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidTimesheetID
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidTimesheetID
	}

	ts, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return TimesheetResponse{}, mapRepositoryError(err)
	}
	if !ts.IsSubmitted {
		return TimesheetResponse{}, timesheeterrors.ErrNotSubmitted
	}
	if ts.Status == StatusApproved {
		return TimesheetResponse{}, timesheeterrors.ErrAlreadyApproved
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimesheetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qEntries := s.entryRepo.WithTx(tx)

	if _, err := qEntries.ApprovePendingByTimesheet(ctx, companyID, id, approverID); err != nil {
		s.logger.Error("cascade approval failed", zap.String("request_id", rid), zap.Error(err))
		return TimesheetResponse{}, err
	}
	if err := qEntries.RecomputeTimesheetTotals(ctx, id); err != nil {
		return TimesheetResponse{}, err
	}

	approvedAt := s.now().UTC()
	ts.Status = StatusApproved
	ts.ApproverID = &approverUUID
	ts.LastApprovedAt = &approvedAt

	if err := qtx.Update(ctx, ts); err != nil {
		return TimesheetResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TimesheetResponse{}, err
	}

	fresh, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapToResponse(*ts), nil
	}
	return mapToResponse(*fresh), nil
}

// Unlock reopens an approved or reviewed week so entries can be corrected.
// Reviewed entries of the named status fall back to PENDING and an event is
// queued for the activity log.
func (s *service) Unlock(ctx context.Context, companyID, unlockedBy, id string, req UnlockTimesheetRequest) (TimesheetResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidTimesheetID
	}
	if req.StatusToUnlock != timeentry.ApprovalApproved && req.StatusToUnlock != timeentry.ApprovalRejected {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidUnlockStatus
	}

	ts, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return TimesheetResponse{}, mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimesheetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qEntries := s.entryRepo.WithTx(tx)

	if _, err := qEntries.RevertApprovalByTimesheet(ctx, companyID, id, req.StatusToUnlock); err != nil {
		s.logger.Error("revert entry approval failed", zap.String("request_id", rid), zap.Error(err))
		return TimesheetResponse{}, err
	}
	if err := qEntries.RecomputeTimesheetTotals(ctx, id); err != nil {
		return TimesheetResponse{}, err
	}

	ts.Status = StatusOpen
	ts.IsSubmitted = false
	ts.ApproverID = nil
	ts.LastApprovedAt = nil

	if err := qtx.Update(ctx, ts); err != nil {
		return TimesheetResponse{}, err
	}

	if err := s.enqueueUnlockedEvent(ctx, tx, ts, unlockedBy, req.StatusToUnlock, rid); err != nil {
		return TimesheetResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TimesheetResponse{}, err
	}
	return mapToResponse(*ts), nil
}

func (s *service) AddComment(ctx context.Context, companyID, userID, id string, req CreateCommentRequest) (CommentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CommentResponse{}, timesheeterrors.ErrInvalidTimesheetID
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return CommentResponse{}, timesheeterrors.ErrInvalidTimesheetID
	}

	ts, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return CommentResponse{}, mapRepositoryError(err)
	}

	c := &TimesheetComment{
		ID:          uuid.New(),
		TimesheetID: ts.ID,
		UserID:      userUUID,
		Comment:     req.Comment,
	}
	if req.ReplyID != nil {
		replyUUID, err := uuid.Parse(*req.ReplyID)
		if err != nil {
			return CommentResponse{}, timesheeterrors.ErrInvalidReplyID
		}
		c.ReplyID = &replyUUID
	}

	if err := s.repo.CreateComment(ctx, c); err != nil {
		return CommentResponse{}, err
	}
	return mapCommentToResponse(*c), nil
}

func (s *service) ListComments(ctx context.Context, companyID, id string) ([]CommentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, timesheeterrors.ErrInvalidTimesheetID
	}

	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		return nil, mapRepositoryError(err)
	}

	rows, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := make([]CommentResponse, len(rows))
	for i, c := range rows {
		resp[i] = mapCommentToResponse(c)
	}
	return resp, nil
}

func (s *service) enqueueUnlockedEvent(ctx context.Context, tx *sql.Tx, ts *Timesheet, unlockedBy, statusUnlocked, rid string) error {
	payload, err := json.Marshal(events.TimesheetUnlockedEvent{
		EventType:      events.TimesheetUnlockedType,
		TimesheetID:    ts.ID.String(),
		CompanyID:      ts.CompanyID.String(),
		UserID:         ts.UserID.String(),
		UnlockedBy:     unlockedBy,
		StatusUnlocked: statusUnlocked,
		OccurredAt:     s.now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "timesheet",
		AggregateID:   ts.ID.String(),
		EventType:     events.TimesheetUnlockedType,
		Topic:         events.TimesheetUnlockedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return timesheeterrors.ErrTimesheetNotFound
	}
	return err
}

func mapToResponse(ts Timesheet) TimesheetResponse {
	resp := TimesheetResponse{
		ID:            ts.ID.String(),
		CompanyID:     ts.CompanyID.String(),
		UserID:        ts.UserID.String(),
		ClientID:      ts.ClientID.String(),
		WeekStartDate: ts.WeekStartDate.Format("2006-01-02"),
		WeekEndDate:   ts.WeekEndDate.Format("2006-01-02"),
		Status:        ts.Status,
		IsSubmitted:   ts.IsSubmitted,
		Duration:      ts.Duration,
		TotalExpense:  ts.TotalExpense,
	}
	if ts.LastSubmittedAt != nil {
		v := ts.LastSubmittedAt.Format(time.RFC3339)
		resp.LastSubmittedAt = &v
	}
	if ts.LastApprovedAt != nil {
		v := ts.LastApprovedAt.Format(time.RFC3339)
		resp.LastApprovedAt = &v
	}
	if ts.ApproverID != nil {
		v := ts.ApproverID.String()
		resp.ApproverID = &v
	}
	return resp
}

func mapCommentToResponse(c TimesheetComment) CommentResponse {
	resp := CommentResponse{
		ID:          c.ID.String(),
		TimesheetID: c.TimesheetID.String(),
		UserID:      c.UserID.String(),
		Comment:     c.Comment,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
	if c.ReplyID != nil {
		v := c.ReplyID.String()
		resp.ReplyID = &v
	}
	return resp
}
