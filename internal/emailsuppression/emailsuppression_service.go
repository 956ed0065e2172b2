package emailsuppression

import (
	"context"
	"encoding/json"
	"strings"

	emailsuppressionerrors "go-timetrack/internal/emailsuppression/errors"

	"go.uber.org/zap"
)

const (
	snsTypeNotification             = "Notification"
	snsTypeSubscriptionConfirmation = "SubscriptionConfirmation"

	notificationTypeBounce    = "Bounce"
	notificationTypeComplaint = "Complaint"
)

type Service interface {
	HandleNotification(ctx context.Context, payload []byte) (NotificationResponse, error)
	IsSuppressed(ctx context.Context, email string) (bool, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo:   repo,
		logger: zap.L().Named("emailsuppression.service"),
	}
}

func (s *service) HandleNotification(ctx context.Context, payload []byte) (NotificationResponse, error) {
	var msg snsMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return NotificationResponse{}, emailsuppressionerrors.ErrMalformedNotification
	}

	switch msg.Type {
	case snsTypeSubscriptionConfirmation:
		// Confirmation is done out of band by an operator visiting the URL.
		s.logger.Info("sns subscription confirmation received",
			zap.String("topic_arn", msg.TopicArn),
			zap.String("subscribe_url", msg.SubscribeURL))
		return NotificationResponse{Type: msg.Type}, nil
	case snsTypeNotification:
		return s.handleSESNotification(ctx, msg)
	default:
		return NotificationResponse{}, emailsuppressionerrors.ErrUnknownMessageType
	}
}

func (s *service) handleSESNotification(ctx context.Context, msg snsMessage) (NotificationResponse, error) {
	n, err := decodeSESNotification(msg.Message)
	if err != nil {
		return NotificationResponse{}, emailsuppressionerrors.ErrMalformedNotification
	}

	var recipients []sesRecipient
	var reason, bounceType string

	switch n.NotificationType {
	case notificationTypeBounce:
		if n.Bounce == nil {
			return NotificationResponse{}, emailsuppressionerrors.ErrMalformedNotification
		}
		// Transient bounces (mailbox full, greylisting) are delivery hiccups,
		// not dead addresses.
		if !strings.EqualFold(n.Bounce.BounceType, "Permanent") {
			s.logger.Info("transient bounce ignored",
				zap.String("bounce_type", n.Bounce.BounceType),
				zap.String("message_id", msg.MessageID))
			return NotificationResponse{Type: n.NotificationType}, nil
		}
		recipients = n.Bounce.BouncedRecipients
		reason = ReasonBounce
		bounceType = n.Bounce.BounceType
	case notificationTypeComplaint:
		if n.Complaint == nil {
			return NotificationResponse{}, emailsuppressionerrors.ErrMalformedNotification
		}
		recipients = n.Complaint.ComplainedRecipients
		reason = ReasonComplaint
	default:
		s.logger.Info("ses notification type ignored",
			zap.String("notification_type", n.NotificationType))
		return NotificationResponse{Type: n.NotificationType}, nil
	}

	suppressed := 0
	for _, r := range recipients {
		email := strings.ToLower(strings.TrimSpace(r.EmailAddress))
		if email == "" {
			continue
		}
		inserted, err := s.repo.CreateIfAbsent(ctx, &SuppressedEmail{
			Email:      email,
			Reason:     reason,
			BounceType: bounceType,
		})
		if err != nil {
			return NotificationResponse{}, err
		}
		if inserted {
			suppressed++
			s.logger.Info("email suppressed",
				zap.String("email", email),
				zap.String("reason", reason))
		}
	}

	return NotificationResponse{Type: n.NotificationType, Suppressed: suppressed}, nil
}

func (s *service) IsSuppressed(ctx context.Context, email string) (bool, error) {
	return s.repo.IsSuppressed(ctx, strings.ToLower(strings.TrimSpace(email)))
}
