package events

import "time"

const TimeEntryStoppedTopic = "track.time_entry.lifecycle.v1"

const TimeEntryStoppedType = "time_entry_stopped"

type TimeEntryStoppedEvent struct {
	EventType   string    `json:"event_type"`
	TimeEntryID string    `json:"time_entry_id"`
	CompanyID   string    `json:"company_id"`
	UserID      string    `json:"user_id"`
	ProjectID   string    `json:"project_id"`
	Duration    int64     `json:"duration"`
	OccurredAt  time.Time `json:"occurred_at"`
}
