package billing

import "encoding/json"

// WebhookEvent is the envelope Stripe posts. Data.Object is kept raw and
// decoded per event type.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type invoiceObject struct {
	ID         string  `json:"id"`
	Customer   string  `json:"customer"`
	AmountPaid int64   `json:"amount_paid"` // cents
	Currency   string  `json:"currency"`
	Created    int64   `json:"created"`
	Total      float64 `json:"total"`
}

type subscriptionObject struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
	TrialEnd int64  `json:"trial_end"`
}

type WebhookResponse struct {
	Received bool   `json:"received"`
	Type     string `json:"type"`
}
