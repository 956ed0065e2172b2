package activitylog

import (
	"context"
	"fmt"
	"time"

	"go-timetrack/internal/events"

	"github.com/google/uuid"
)

type Service interface {
	RecordTimeEntryStopped(ctx context.Context, event events.TimeEntryStoppedEvent) error
	RecordTimesheetUnlocked(ctx context.Context, event events.TimesheetUnlockedEvent) error
	ListByCompany(ctx context.Context, companyID string, limit int) ([]ActivityLogResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RecordTimeEntryStopped(ctx context.Context, event events.TimeEntryStoppedEvent) error {
	companyID, err := uuid.Parse(event.CompanyID)
	if err != nil {
		return fmt.Errorf("invalid company id in event: %w", err)
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id in event: %w", err)
	}
	entryID, err := uuid.Parse(event.TimeEntryID)
	if err != nil {
		return fmt.Errorf("invalid time entry id in event: %w", err)
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return s.repo.Create(ctx, &ActivityLog{
		ID:         uuid.New(),
		CompanyID:  companyID,
		UserID:     userID,
		Type:       TypeTimeEntryStopped,
		SubjectID:  entryID,
		Message:    fmt.Sprintf("time entry stopped after %d seconds", event.Duration),
		OccurredAt: occurredAt,
	})
}

func (s *service) RecordTimesheetUnlocked(ctx context.Context, event events.TimesheetUnlockedEvent) error {
	companyID, err := uuid.Parse(event.CompanyID)
	if err != nil {
		return fmt.Errorf("invalid company id in event: %w", err)
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id in event: %w", err)
	}
	timesheetID, err := uuid.Parse(event.TimesheetID)
	if err != nil {
		return fmt.Errorf("invalid timesheet id in event: %w", err)
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return s.repo.Create(ctx, &ActivityLog{
		ID:         uuid.New(),
		CompanyID:  companyID,
		UserID:     userID,
		Type:       TypeTimesheetUnlocked,
		SubjectID:  timesheetID,
		Message:    fmt.Sprintf("timesheet unlocked by %s", event.UnlockedBy),
		OccurredAt: occurredAt,
	})
}

func (s *service) ListByCompany(ctx context.Context, companyID string, limit int) ([]ActivityLogResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID, limit)
	if err != nil {
		return nil, err
	}

	resp := make([]ActivityLogResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, ActivityLogResponse{
			ID:         row.ID.String(),
			UserID:     row.UserID.String(),
			Type:       row.Type,
			SubjectID:  row.SubjectID.String(),
			Message:    row.Message,
			OccurredAt: row.OccurredAt,
		})
	}
	return resp, nil
}
