package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"github.com/wekeepgrowing/semo-billing/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// SubscriptionPublisher announces subscription flag changes to other services
type SubscriptionPublisher interface {
	PublishSubscriptionChange(ctx context.Context, change *entity.SubscriptionChange) error
}

// WebhookOutcome describes how a verified event was handled
type WebhookOutcome string

const (
	OutcomeApplied        WebhookOutcome = "applied"
	OutcomeStale          WebhookOutcome = "stale"
	OutcomeDuplicate      WebhookOutcome = "duplicate"
	OutcomeIgnored        WebhookOutcome = "ignored"
	OutcomeAccountMissing WebhookOutcome = "account_missing"
)

// WebhookSynchronizer keeps the accounts' subscription flag in line with provider events
type WebhookSynchronizer struct {
	billing   provider.BillingProvider
	events    repository.WebhookEventRepository
	accounts  repository.AccountRepository
	publisher SubscriptionPublisher
	logger    *zap.Logger
}

// NewWebhookSynchronizer creates a new webhook synchronizer. publisher may be nil.
func NewWebhookSynchronizer(
	billing provider.BillingProvider,
	events repository.WebhookEventRepository,
	accounts repository.AccountRepository,
	publisher SubscriptionPublisher,
	logger *zap.Logger,
) *WebhookSynchronizer {
	return &WebhookSynchronizer{
		billing:   billing,
		events:    events,
		accounts:  accounts,
		publisher: publisher,
		logger:    logger,
	}
}

// Verify checks the delivery signature. Nothing is stored for a delivery that fails verification.
func (s *WebhookSynchronizer) Verify(payload []byte, signature string) (*entity.BillingEvent, error) {
	return s.billing.ConstructEvent(payload, signature)
}

// Apply records a verified event and applies it to the matching account.
// A returned error means the provider should retry the delivery.
func (s *WebhookSynchronizer) Apply(ctx context.Context, event *entity.BillingEvent) (WebhookOutcome, error) {
	if err := s.events.SaveEvent(ctx, event.ID, event.Type, event.Raw, event.Created); err != nil {
		return "", fmt.Errorf("failed to record event: %w", err)
	}

	stored, err := s.events.GetEvent(ctx, event.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load event: %w", err)
	}
	if stored != nil && stored.Status.Done() {
		s.logger.Info("Webhook event already handled",
			zap.String("event_id", event.ID),
			zap.String("status", string(stored.Status)))
		return OutcomeDuplicate, nil
	}

	var subscribed bool
	switch event.Type {
	case entity.EventSubscriptionCreated:
		subscribed = true
	case entity.EventSubscriptionDeleted:
		subscribed = false
	case entity.EventSubscriptionUpdated:
		if event.Subscription != nil {
			subscribed = entity.SubscribedStatus(event.Subscription.Status)
		}
	default:
		s.logger.Info("Unhandled event type",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type))
		if err := s.events.MarkIgnored(ctx, event.ID); err != nil {
			return "", err
		}
		return OutcomeIgnored, nil
	}

	if event.Subscription == nil || event.Subscription.CustomerID == "" {
		s.logger.Warn("Subscription event without customer",
			zap.String("event_id", event.ID))
		s.markFailed(ctx, event.ID, errors.New("subscription event without customer"))
		return OutcomeAccountMissing, nil
	}

	customerID := event.Subscription.CustomerID
	status := event.Subscription.Status

	applied, err := s.accounts.ApplySubscriptionState(ctx, customerID, subscribed, status, event.Created)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAccountNotFound) {
			metrics.SubscriptionUpdatesTotal.WithLabelValues(string(OutcomeAccountMissing)).Inc()
			s.logger.Warn("No account for subscription customer",
				zap.String("event_id", event.ID),
				zap.String("customer_id", customerID))
			s.markFailed(ctx, event.ID, err)
			return OutcomeAccountMissing, nil
		}
		s.markFailed(ctx, event.ID, err)
		return "", fmt.Errorf("failed to apply subscription state: %w", err)
	}

	if !applied {
		metrics.SubscriptionUpdatesTotal.WithLabelValues(string(OutcomeStale)).Inc()
		s.logger.Info("Skipped stale subscription event",
			zap.String("event_id", event.ID),
			zap.String("customer_id", customerID),
			zap.Time("event_created", event.Created))
		if err := s.events.MarkProcessed(ctx, event.ID); err != nil {
			return "", err
		}
		return OutcomeStale, nil
	}

	metrics.SubscriptionUpdatesTotal.WithLabelValues(string(OutcomeApplied)).Inc()
	s.logger.Info("Subscription state applied",
		zap.String("event_id", event.ID),
		zap.String("customer_id", customerID),
		zap.Bool("is_subscribed", subscribed),
		zap.String("status", status))

	if err := s.events.MarkProcessed(ctx, event.ID); err != nil {
		return "", err
	}

	s.publish(ctx, event, customerID, subscribed, status)

	return OutcomeApplied, nil
}

func (s *WebhookSynchronizer) markFailed(ctx context.Context, eventID string, cause error) {
	if err := s.events.MarkFailed(ctx, eventID, cause); err != nil {
		s.logger.Error("Failed to mark webhook event as failed",
			zap.String("event_id", eventID),
			zap.NamedError("cause", cause),
			zap.Error(err))
	}
}

// publish is best effort; the flag is already persisted.
func (s *WebhookSynchronizer) publish(ctx context.Context, event *entity.BillingEvent, customerID string, subscribed bool, status string) {
	if s.publisher == nil {
		return
	}

	change := &entity.SubscriptionChange{
		CustomerID:   customerID,
		IsSubscribed: subscribed,
		Status:       status,
		EventID:      event.ID,
		EventType:    event.Type,
		OccurredAt:   event.Created,
	}

	account, err := s.accounts.GetByStripeCustomerID(ctx, customerID)
	if err != nil {
		s.logger.Warn("Failed to load account for subscription change",
			zap.String("customer_id", customerID),
			zap.Error(err))
	} else if account != nil {
		change.AccountID = account.ID.String()
		change.UserID = account.UserID.String()
	}

	if err := s.publisher.PublishSubscriptionChange(ctx, change); err != nil {
		s.logger.Warn("Failed to publish subscription change",
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}
