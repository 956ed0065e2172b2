package company

type CreateCompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	CompanyCode string `json:"company_code" binding:"required"`
	AdminEmail  string `json:"admin_email" binding:"required,email"`
}

type UpdateCompanyRequest struct {
	Name       *string `json:"name"`
	Status     *string `json:"status"`
	AdminEmail *string `json:"admin_email"`
}

type CompanyResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	CompanyCode        string  `json:"company_code"`
	Status             string  `json:"status"`
	Plan               string  `json:"plan"`
	SubscriptionID     *string `json:"subscription_id,omitempty"`
	SubscriptionStatus string  `json:"subscription_status"`
	TrialEndsAt        *string `json:"trial_ends_at,omitempty"`
	AdminEmail         string  `json:"admin_email"`
}
