package emailsuppression

import "encoding/json"

// snsMessage is the envelope Amazon SNS posts to HTTP endpoints. For
// Notification messages the Message field carries the SES event as a
// JSON string.
type snsMessage struct {
	Type         string `json:"Type"`
	MessageID    string `json:"MessageId"`
	TopicArn     string `json:"TopicArn"`
	Message      string `json:"Message"`
	SubscribeURL string `json:"SubscribeURL"`
}

type sesNotification struct {
	NotificationType string        `json:"notificationType"`
	Bounce           *sesBounce    `json:"bounce"`
	Complaint        *sesComplaint `json:"complaint"`
}

type sesBounce struct {
	BounceType        string         `json:"bounceType"`
	BouncedRecipients []sesRecipient `json:"bouncedRecipients"`
}

type sesComplaint struct {
	ComplainedRecipients []sesRecipient `json:"complainedRecipients"`
}

type sesRecipient struct {
	EmailAddress string `json:"emailAddress"`
}

type NotificationResponse struct {
	Type       string `json:"type"`
	Suppressed int    `json:"suppressed"`
}

func decodeSESNotification(message string) (*sesNotification, error) {
	var n sesNotification
	if err := json.Unmarshal([]byte(message), &n); err != nil {
		return nil, err
	}
	return &n, nil
}
