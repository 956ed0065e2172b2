package domain

// EnforceRequest is the tuple checked against the per-company policy.
type EnforceRequest struct {
	UserID    string
	CompanyID string
	Resource  string
	Action    string
}
