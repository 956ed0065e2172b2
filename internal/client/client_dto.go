package client

type CreateClientRequest struct {
	Name      string  `json:"name" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	InvoiceCC *string `json:"invoice_cc"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

type UpdateClientRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	InvoiceCC *string `json:"invoice_cc"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Status    *string `json:"status"`
}

type ClientResponse struct {
	ID        string  `json:"id"`
	CompanyID string  `json:"company_id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	InvoiceCC *string `json:"invoice_cc,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Status    string  `json:"status"`
}
