package events

import "time"

const SubscriptionUpdatedTopic = "track.billing.subscription.v1"

const SubscriptionUpdatedType = "subscription_updated"

type SubscriptionUpdatedEvent struct {
	EventType  string    `json:"event_type"`
	CompanyID  string    `json:"company_id"`
	Plan       string    `json:"plan"`
	Status     string    `json:"status"`
	SourceType string    `json:"source_type"`
	OccurredAt time.Time `json:"occurred_at"`
}
