package timeentry

type StartTimeEntryRequest struct {
	ProjectID   string  `json:"project_id" binding:"required"`
	EntryType   string  `json:"entry_type"`
	StartTime   *string `json:"start_time"`
	Description *string `json:"description"`
}

type StopTimeEntryRequest struct {
	EndTime *string `json:"end_time"`
}

type UpdateTimeEntryRequest struct {
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Description *string `json:"description"`
}

type BulkApproveRejectRequest struct {
	IDs            []string `json:"ids" binding:"required,min=1"`
	ApprovalStatus string   `json:"approval_status" binding:"required"`
	TimesheetID    *string  `json:"timesheet_id"`
}

type GetTimeEntriesFilterRequest struct {
	UserID         string `form:"user_id"`
	ProjectID      string `form:"project_id"`
	TimesheetID    string `form:"timesheet_id"`
	ApprovalStatus string `form:"approval_status"`
	From           string `form:"from"`
	To             string `form:"to"`
}

type BreakTimeResponse struct {
	ID        string  `json:"id"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time,omitempty"`
}

type TimeEntryResponse struct {
	ID                string              `json:"id"`
	CompanyID         string              `json:"company_id"`
	ProjectID         string              `json:"project_id"`
	UserID            string              `json:"user_id"`
	ApproverID        *string             `json:"approver_id,omitempty"`
	TimesheetID       *string             `json:"timesheet_id,omitempty"`
	InvoiceID         *string             `json:"invoice_id,omitempty"`
	StartTime         string              `json:"start_time"`
	EndTime           *string             `json:"end_time,omitempty"`
	Duration          *int64              `json:"duration,omitempty"`
	BreakDuration     int64               `json:"break_duration"`
	HourlyRate        float64             `json:"hourly_rate"`
	HourlyInvoiceRate float64             `json:"hourly_invoice_rate"`
	ApprovalStatus    string              `json:"approval_status"`
	EntryType         string              `json:"entry_type"`
	Description       *string             `json:"description,omitempty"`
	Breaks            []BreakTimeResponse `json:"breaks,omitempty"`
}
