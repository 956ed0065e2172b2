package timesheet

type UnlockTimesheetRequest struct {
	// StatusToUnlock names which reviewed entries drop back to PENDING,
	// APPROVED or REJECTED.
	StatusToUnlock string `json:"status_to_unlock" binding:"required"`
}

type CreateCommentRequest struct {
	Comment string  `json:"comment" binding:"required"`
	ReplyID *string `json:"reply_id"`
}

type GetTimesheetsFilterRequest struct {
	UserID    string `form:"user_id"`
	ClientID  string `form:"client_id"`
	Status    string `form:"status"`
	WeekStart string `form:"week_start"`
}

type TimesheetResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	UserID          string  `json:"user_id"`
	ClientID        string  `json:"client_id"`
	WeekStartDate   string  `json:"week_start_date"`
	WeekEndDate     string  `json:"week_end_date"`
	Status          string  `json:"status"`
	IsSubmitted     bool    `json:"is_submitted"`
	LastSubmittedAt *string `json:"last_submitted_at,omitempty"`
	LastApprovedAt  *string `json:"last_approved_at,omitempty"`
	ApproverID      *string `json:"approver_id,omitempty"`
	Duration        int64   `json:"duration"`
	TotalExpense    float64 `json:"total_expense"`
}

type CommentResponse struct {
	ID          string  `json:"id"`
	TimesheetID string  `json:"timesheet_id"`
	UserID      string  `json:"user_id"`
	ReplyID     *string `json:"reply_id,omitempty"`
	Comment     string  `json:"comment"`
	CreatedAt   string  `json:"created_at"`
}
