package billing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	billingerrors "go-timetrack/internal/billing/errors"
	"go-timetrack/internal/company"
	"go-timetrack/internal/events"
	"go-timetrack/internal/messaging/kafka"
	"go-timetrack/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	eventInvoicePaid         = "invoice.paid"
	eventInvoicePaymentFail  = "invoice.payment_failed"
	eventSubscriptionDeleted = "customer.subscription.deleted"
	eventSubscriptionUpdated = "customer.subscription.updated"
)

type Service interface {
	HandleWebhook(ctx context.Context, event WebhookEvent) (WebhookResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	companyRepo company.Repository
	outboxRepo  kafka.OutboxRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewService(db *sql.DB, repo Repository, companyRepo company.Repository, outboxRepo kafka.OutboxRepository) Service {
	return &service{
		db:          db,
		repo:        repo,
		companyRepo: companyRepo,
		outboxRepo:  outboxRepo,
		logger:      zap.L().Named("billing.service"),
		now:         time.Now,
	}
}

func (s *service) HandleWebhook(ctx context.Context, event WebhookEvent) (WebhookResponse, error) {
	switch event.Type {
	case eventInvoicePaid:
		return s.handleInvoicePaid(ctx, event)
	case eventInvoicePaymentFail:
		return s.handlePaymentFailed(ctx, event)
	case eventSubscriptionDeleted:
		return s.handleSubscriptionDeleted(ctx, event)
	case eventSubscriptionUpdated:
		return s.handleSubscriptionUpdated(ctx, event)
	default:
		return WebhookResponse{}, billingerrors.ErrUnhandledEventType
	}
}

// handleInvoicePaid records the payment and upgrades the company. The payment
// insert ignores duplicates, so a redelivered event settles to the same state
// without a second row.
func (s *service) handleInvoicePaid(ctx context.Context, event WebhookEvent) (WebhookResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	var obj invoiceObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		return WebhookResponse{}, billingerrors.ErrMalformedPayload
	}

	c, err := s.findCompany(ctx, obj.Customer)
	if err != nil {
		return WebhookResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WebhookResponse{}, err
	}
	defer tx.Rollback()

	paidAt := time.Unix(obj.Created, 0).UTC()
	if obj.Created == 0 {
		paidAt = s.now().UTC()
	}

	payment := &SubscriptionPayment{
		ID:              uuid.New(),
		CompanyID:       c.ID,
		StripeInvoiceID: obj.ID,
		Amount:          float64(obj.AmountPaid) / 100,
		Currency:        obj.Currency,
		Status:          PaymentStatusPaid,
		PaidAt:          paidAt,
	}

	inserted, err := s.repo.WithTx(tx).CreatePaymentIfAbsent(ctx, payment)
	if err != nil {
		s.logger.Error("record subscription payment failed", zap.String("request_id", rid), zap.Error(err))
		return WebhookResponse{}, err
	}
	if !inserted {
		s.logger.Info("duplicate invoice.paid delivery ignored",
			zap.String("stripe_invoice_id", obj.ID),
			zap.String("company_id", c.ID.String()),
		)
	}

	plan := company.PlanProfessional
	status := company.SubscriptionStatusActive
	err = s.companyRepo.WithTx(tx).UpdateSubscription(ctx, c.ID.String(), company.SubscriptionFields{
		Plan:               &plan,
		SubscriptionStatus: &status,
	})
	if err != nil {
		return WebhookResponse{}, err
	}

	if err := s.enqueueSubscriptionEvent(ctx, tx, c.ID.String(), plan, status, event.Type, rid); err != nil {
		return WebhookResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return WebhookResponse{}, err
	}
	return WebhookResponse{Received: true, Type: event.Type}, nil
}

func (s *service) handlePaymentFailed(ctx context.Context, event WebhookEvent) (WebhookResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	var obj invoiceObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		return WebhookResponse{}, billingerrors.ErrMalformedPayload
	}

	c, err := s.findCompany(ctx, obj.Customer)
	if err != nil {
		return WebhookResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WebhookResponse{}, err
	}
	defer tx.Rollback()

	status := company.SubscriptionStatusPastDue
	err = s.companyRepo.WithTx(tx).UpdateSubscription(ctx, c.ID.String(), company.SubscriptionFields{
		SubscriptionStatus: &status,
	})
	if err != nil {
		return WebhookResponse{}, err
	}

	if err := s.enqueueSubscriptionEvent(ctx, tx, c.ID.String(), c.Plan, status, event.Type, rid); err != nil {
		return WebhookResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return WebhookResponse{}, err
	}
	return WebhookResponse{Received: true, Type: event.Type}, nil
}

func (s *service) handleSubscriptionDeleted(ctx context.Context, event WebhookEvent) (WebhookResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	var obj subscriptionObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		return WebhookResponse{}, billingerrors.ErrMalformedPayload
	}

	c, err := s.findCompany(ctx, obj.Customer)
	if err != nil {
		return WebhookResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WebhookResponse{}, err
	}
	defer tx.Rollback()

	plan := company.PlanStarter
	status := company.SubscriptionStatusCanceled
	err = s.companyRepo.WithTx(tx).UpdateSubscription(ctx, c.ID.String(), company.SubscriptionFields{
		Plan:               &plan,
		SubscriptionStatus: &status,
	})
	if err != nil {
		return WebhookResponse{}, err
	}

	if err := s.enqueueSubscriptionEvent(ctx, tx, c.ID.String(), plan, status, event.Type, rid); err != nil {
		return WebhookResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return WebhookResponse{}, err
	}
	return WebhookResponse{Received: true, Type: event.Type}, nil
}

func (s *service) handleSubscriptionUpdated(ctx context.Context, event WebhookEvent) (WebhookResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	var obj subscriptionObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		return WebhookResponse{}, billingerrors.ErrMalformedPayload
	}

	c, err := s.findCompany(ctx, obj.Customer)
	if err != nil {
		return WebhookResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WebhookResponse{}, err
	}
	defer tx.Rollback()

	fields := company.SubscriptionFields{}
	if obj.ID != "" {
		fields.SubscriptionID = &obj.ID
	}
	status := c.SubscriptionStatus
	if obj.Status != "" {
		status = obj.Status
		fields.SubscriptionStatus = &status
	}
	if obj.TrialEnd > 0 {
		fields.TrialEndsAt = sql.NullTime{Time: time.Unix(obj.TrialEnd, 0).UTC(), Valid: true}
	}

	if err := s.companyRepo.WithTx(tx).UpdateSubscription(ctx, c.ID.String(), fields); err != nil {
		return WebhookResponse{}, err
	}

	if err := s.enqueueSubscriptionEvent(ctx, tx, c.ID.String(), c.Plan, status, event.Type, rid); err != nil {
		return WebhookResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return WebhookResponse{}, err
	}
	return WebhookResponse{Received: true, Type: event.Type}, nil
}

func (s *service) findCompany(ctx context.Context, stripeCustomerID string) (*company.Company, error) {
	if stripeCustomerID == "" {
		return nil, billingerrors.ErrMalformedPayload
	}
	c, err := s.companyRepo.FindByStripeCustomerID(ctx, stripeCustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billingerrors.ErrUnknownCustomer
		}
		return nil, err
	}
	return c, nil
}

func (s *service) enqueueSubscriptionEvent(ctx context.Context, tx *sql.Tx, companyID, plan, status, sourceType, rid string) error {
	payload, err := json.Marshal(events.SubscriptionUpdatedEvent{
		EventType:  events.SubscriptionUpdatedType,
		CompanyID:  companyID,
		Plan:       plan,
		Status:     status,
		SourceType: sourceType,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "company",
		AggregateID:   companyID,
		EventType:     events.SubscriptionUpdatedType,
		Topic:         events.SubscriptionUpdatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
