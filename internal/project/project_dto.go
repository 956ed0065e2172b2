package project

type CreateProjectRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type UpdateProjectRequest struct {
	Name     *string `json:"name"`
	Status   *string `json:"status"`
	Archived *bool   `json:"archived"`
}

type SetPayRateRequest struct {
	UserID      string  `json:"user_id" binding:"required"`
	PayRate     float64 `json:"pay_rate" binding:"min=0"`
	InvoiceRate float64 `json:"invoice_rate" binding:"min=0"`
	Currency    string  `json:"currency"`
}

type ProjectResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name,omitempty"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Archived   bool   `json:"archived"`
}

type PayRateResponse struct {
	UserID      string  `json:"user_id"`
	ProjectID   string  `json:"project_id"`
	PayRate     float64 `json:"pay_rate"`
	InvoiceRate float64 `json:"invoice_rate"`
	Currency    string  `json:"currency"`
}

// ProjectOption is the slim shape cached for dropdowns.
type ProjectOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ClientID string `json:"client_id"`
}
