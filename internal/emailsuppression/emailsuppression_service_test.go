package emailsuppression_test

import (
	"context"
	"encoding/json"
	"testing"

	"go-timetrack/internal/emailsuppression"
	emailsuppressionerrors "go-timetrack/internal/emailsuppression/errors"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	created          []emailsuppression.SuppressedEmail
	existing         map[string]bool
	createIfAbsentFn func(ctx context.Context, s *emailsuppression.SuppressedEmail) (bool, error)
}

func (f *fakeRepo) CreateIfAbsent(ctx context.Context, s *emailsuppression.SuppressedEmail) (bool, error) {
	if f.createIfAbsentFn != nil {
		return f.createIfAbsentFn(ctx, s)
	}
	if f.existing[s.Email] {
		return false, nil
	}
	f.created = append(f.created, *s)
	return true, nil
}

func (f *fakeRepo) IsSuppressed(ctx context.Context, email string) (bool, error) {
	return f.existing[email], nil
}

func snsNotification(t *testing.T, sesPayload any) []byte {
	t.Helper()
	message, err := json.Marshal(sesPayload)
	assert.NoError(t, err)
	envelope, err := json.Marshal(map[string]any{
		"Type":      "Notification",
		"MessageId": "msg-1",
		"TopicArn":  "arn:aws:sns:us-east-1:123456789012:ses-events",
		"Message":   string(message),
	})
	assert.NoError(t, err)
	return envelope
}

func TestService_HandleNotification_PermanentBounce(t *testing.T) {
	repo := &fakeRepo{}
	svc := emailsuppression.NewService(repo)

	payload := snsNotification(t, map[string]any{
		"notificationType": "Bounce",
		"bounce": map[string]any{
			"bounceType": "Permanent",
			"bouncedRecipients": []map[string]any{
				{"emailAddress": "Dead.Inbox@Example.com"},
				{"emailAddress": "gone@example.com"},
			},
		},
	})

	resp, err := svc.HandleNotification(context.Background(), payload)

	assert.NoError(t, err)
	assert.Equal(t, "Bounce", resp.Type)
	assert.Equal(t, 2, resp.Suppressed)
	assert.Len(t, repo.created, 2)
	assert.Equal(t, "dead.inbox@example.com", repo.created[0].Email)
	assert.Equal(t, emailsuppression.ReasonBounce, repo.created[0].Reason)
	assert.Equal(t, "Permanent", repo.created[0].BounceType)
}

func TestService_HandleNotification_TransientBounceIgnored(t *testing.T) {
	repo := &fakeRepo{}
	svc := emailsuppression.NewService(repo)

	payload := snsNotification(t, map[string]any{
		"notificationType": "Bounce",
		"bounce": map[string]any{
			"bounceType": "Transient",
			"bouncedRecipients": []map[string]any{
				{"emailAddress": "full.mailbox@example.com"},
			},
		},
	})

	resp, err := svc.HandleNotification(context.Background(), payload)

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.Suppressed)
	assert.Empty(t, repo.created)
}

func TestService_HandleNotification_Complaint(t *testing.T) {
	repo := &fakeRepo{}
	svc := emailsuppression.NewService(repo)

	payload := snsNotification(t, map[string]any{
		"notificationType": "Complaint",
		"complaint": map[string]any{
			"complainedRecipients": []map[string]any{
				{"emailAddress": "annoyed@example.com"},
			},
		},
	})

	resp, err := svc.HandleNotification(context.Background(), payload)

	assert.NoError(t, err)
	assert.Equal(t, "Complaint", resp.Type)
	assert.Equal(t, 1, resp.Suppressed)
	assert.Equal(t, emailsuppression.ReasonComplaint, repo.created[0].Reason)
}

func TestService_HandleNotification_RedeliveryIsIdempotent(t *testing.T) {
	repo := &fakeRepo{existing: map[string]bool{"gone@example.com": true}}
	svc := emailsuppression.NewService(repo)

	payload := snsNotification(t, map[string]any{
		"notificationType": "Bounce",
		"bounce": map[string]any{
			"bounceType": "Permanent",
			"bouncedRecipients": []map[string]any{
				{"emailAddress": "gone@example.com"},
			},
		},
	})

	resp, err := svc.HandleNotification(context.Background(), payload)

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.Suppressed)
	assert.Empty(t, repo.created)
}

func TestService_HandleNotification_SubscriptionConfirmation(t *testing.T) {
	svc := emailsuppression.NewService(&fakeRepo{})

	payload, _ := json.Marshal(map[string]any{
		"Type":         "SubscriptionConfirmation",
		"TopicArn":     "arn:aws:sns:us-east-1:123456789012:ses-events",
		"SubscribeURL": "https://sns.us-east-1.amazonaws.com/confirm",
	})

	resp, err := svc.HandleNotification(context.Background(), payload)

	assert.NoError(t, err)
	assert.Equal(t, "SubscriptionConfirmation", resp.Type)
}

func TestService_HandleNotification_Malformed(t *testing.T) {
	svc := emailsuppression.NewService(&fakeRepo{})

	_, err := svc.HandleNotification(context.Background(), []byte("not json"))
	assert.ErrorIs(t, err, emailsuppressionerrors.ErrMalformedNotification)

	_, err = svc.HandleNotification(context.Background(), snsNotification(t, map[string]any{
		"notificationType": "Bounce",
	}))
	assert.ErrorIs(t, err, emailsuppressionerrors.ErrMalformedNotification)
}
