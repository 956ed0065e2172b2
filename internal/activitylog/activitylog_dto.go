package activitylog

import "time"

type ActivityLogResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	SubjectID  string    `json:"subject_id"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
