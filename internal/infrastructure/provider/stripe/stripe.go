package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"go.uber.org/zap"
)

const subscriptionEventPrefix = "customer.subscription."

// StripeProvider implements the BillingProvider interface for Stripe
type StripeProvider struct {
	api           *client.API
	webhookSecret string
	logger        *zap.Logger
}

// NewStripeProvider creates a new Stripe provider. A nil backends value uses
// the default Stripe API backends.
func NewStripeProvider(secretKey, webhookSecret string, backends *stripe.Backends, logger *zap.Logger) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, backends)

	return &StripeProvider{
		api:           api,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// GetProviderName returns the provider name
func (s *StripeProvider) GetProviderName() string {
	return string(provider.ProviderTypeStripe)
}

// CreateCustomer creates a Stripe customer keyed by email
func (s *StripeProvider) CreateCustomer(ctx context.Context, req *provider.CreateCustomerRequest) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(req.Email),
	}
	if req.Name != "" {
		params.Name = stripe.String(req.Name)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	c, err := s.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}

	s.logger.Info("Stripe customer created",
		zap.String("customer_id", c.ID))

	return c.ID, nil
}

// DeleteCustomer deletes a Stripe customer
func (s *StripeProvider) DeleteCustomer(ctx context.Context, customerID string) error {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	if _, err := s.api.Customers.Del(customerID, params); err != nil {
		return fmt.Errorf("stripe delete customer: %w", err)
	}

	s.logger.Info("Stripe customer deleted",
		zap.String("customer_id", customerID))

	return nil
}

// FindPriceByLookupKey lists prices by lookup key with the product expanded
func (s *StripeProvider) FindPriceByLookupKey(ctx context.Context, lookupKey string) (*entity.Price, error) {
	params := &stripe.PriceListParams{
		LookupKeys: stripe.StringSlice([]string{lookupKey}),
	}
	params.AddExpand("data.product")
	params.Context = ctx

	iter := s.api.Prices.List(params)
	if !iter.Next() {
		if err := iter.Err(); err != nil {
			return nil, fmt.Errorf("stripe list prices: %w", err)
		}
		return nil, nil
	}

	return priceToEntity(iter.Price()), nil
}

// CreateCheckoutSession creates a subscription Checkout session for an existing customer
func (s *StripeProvider) CreateCheckoutSession(ctx context.Context, req *provider.CheckoutSessionRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:                 stripe.String(req.CustomerID),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create checkout session: %w", err)
	}

	s.logger.Info("Checkout session created",
		zap.String("session_id", sess.ID),
		zap.String("customer_id", req.CustomerID))

	return sess.URL, nil
}

// CreatePortalSession creates a Customer Portal session
func (s *StripeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	ps, err := s.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create portal session: %w", err)
	}

	s.logger.Info("Portal session created",
		zap.String("portal_session_id", ps.ID),
		zap.String("customer_id", customerID))

	return ps.URL, nil
}

// ConstructEvent verifies the Stripe-Signature header and decodes the event
func (s *StripeProvider) ConstructEvent(payload []byte, signature string) (*entity.BillingEvent, error) {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		s.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    provider.ErrCodeSignatureInvalid,
			Message: err.Error(),
		}
	}

	billingEvent := &entity.BillingEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Created: time.Unix(event.Created, 0).UTC(),
		Raw:     payload,
	}

	if strings.HasPrefix(billingEvent.Type, subscriptionEventPrefix) && event.Data != nil {
		// The signature is already verified, so a body that does not decode
		// leaves Subscription nil and the event is recorded as failed.
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			s.logger.Warn("Failed to decode subscription object",
				zap.String("event_id", event.ID),
				zap.String("type", billingEvent.Type),
				zap.Error(err))
			return billingEvent, nil
		}
		billingEvent.Subscription = subscriptionToEntity(&sub)
	}

	return billingEvent, nil
}

// subscriptionToEntity reads the customer id whether or not the customer was expanded
func subscriptionToEntity(sub *stripe.Subscription) *entity.SubscriptionObject {
	obj := &entity.SubscriptionObject{
		ID:     sub.ID,
		Status: string(sub.Status),
	}
	if sub.Customer != nil {
		obj.CustomerID = sub.Customer.ID
	}
	return obj
}

func priceToEntity(p *stripe.Price) *entity.Price {
	price := &entity.Price{
		ID:         p.ID,
		LookupKey:  p.LookupKey,
		Currency:   string(p.Currency),
		UnitAmount: p.UnitAmount,
	}
	if p.Recurring != nil {
		price.Interval = string(p.Recurring.Interval)
	}
	if p.Product != nil {
		price.ProductName = p.Product.Name
	}
	return price
}
