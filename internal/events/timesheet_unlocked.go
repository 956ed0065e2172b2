package events

import "time"

const TimesheetUnlockedTopic = "track.timesheet.lifecycle.v1"

const TimesheetUnlockedType = "timesheet_unlocked"

type TimesheetUnlockedEvent struct {
	EventType      string    `json:"event_type"`
	TimesheetID    string    `json:"timesheet_id"`
	CompanyID      string    `json:"company_id"`
	UserID         string    `json:"user_id"`
	UnlockedBy     string    `json:"unlocked_by"`
	StatusUnlocked string    `json:"status_unlocked"`
	OccurredAt     time.Time `json:"occurred_at"`
}
