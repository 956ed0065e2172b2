package invoice

type InvoiceItemRequest struct {
	ProjectID   string  `json:"project_id" binding:"required"`
	Description *string `json:"description"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Rate        float64 `json:"rate" binding:"required,gte=0"`
	Currency    string  `json:"currency"`
}

type CreateInvoiceRequest struct {
	ClientID   string               `json:"client_id" binding:"required"`
	IssueDate  string               `json:"issue_date" binding:"required"`
	DueDate    string               `json:"due_date" binding:"required"`
	PONumber   *string              `json:"po_number"`
	Discount   float64              `json:"discount" binding:"gte=0,lte=100"`
	Shipping   float64              `json:"shipping" binding:"gte=0"`
	TaxPercent float64              `json:"tax_percent" binding:"gte=0,lte=100"`
	Notes      *string              `json:"notes"`
	Items      []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CreateFromTimesheetRequest struct {
	TimesheetID string  `json:"timesheet_id" binding:"required"`
	IssueDate   string  `json:"issue_date" binding:"required"`
	DueDate     string  `json:"due_date" binding:"required"`
	PONumber    *string `json:"po_number"`
	Discount    float64 `json:"discount" binding:"gte=0,lte=100"`
	Shipping    float64 `json:"shipping" binding:"gte=0"`
	TaxPercent  float64 `json:"tax_percent" binding:"gte=0,lte=100"`
	Notes       *string `json:"notes"`
}

type UpdateInvoiceRequest struct {
	IssueDate  *string              `json:"issue_date"`
	DueDate    *string              `json:"due_date"`
	PONumber   *string              `json:"po_number"`
	Discount   *float64             `json:"discount"`
	Shipping   *float64             `json:"shipping"`
	TaxPercent *float64             `json:"tax_percent"`
	Notes      *string              `json:"notes"`
	Items      []InvoiceItemRequest `json:"items"`
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type GetInvoicesFilterRequest struct {
	ClientID string `form:"client_id"`
	Status   string `form:"status"`
}

type InvoiceItemResponse struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	Description *string `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

type InvoiceResponse struct {
	ID            string                `json:"id"`
	CompanyID     string                `json:"company_id"`
	ClientID      string                `json:"client_id"`
	TimesheetID   *string               `json:"timesheet_id,omitempty"`
	InvoiceNumber int64                 `json:"invoice_number"`
	Status        string                `json:"status"`
	IssueDate     string                `json:"issue_date"`
	DueDate       string                `json:"due_date"`
	PONumber      *string               `json:"po_number,omitempty"`
	TotalQuantity float64               `json:"total_quantity"`
	Subtotal      float64               `json:"subtotal"`
	Discount      float64               `json:"discount"`
	Shipping      float64               `json:"shipping"`
	TaxPercent    float64               `json:"tax_percent"`
	TaxAmount     float64               `json:"tax_amount"`
	TotalAmount   float64               `json:"total_amount"`
	Notes         *string               `json:"notes,omitempty"`
	Items         []InvoiceItemResponse `json:"items"`
}
