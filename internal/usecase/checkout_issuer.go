package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"github.com/wekeepgrowing/semo-billing/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// CheckoutIssuer creates hosted subscription checkout sessions for linked accounts
type CheckoutIssuer struct {
	accounts repository.AccountRepository
	billing  provider.BillingProvider
	baseURL  string
	logger   *zap.Logger
}

// NewCheckoutIssuer creates a new checkout issuer
func NewCheckoutIssuer(
	accounts repository.AccountRepository,
	billing provider.BillingProvider,
	baseURL string,
	logger *zap.Logger,
) *CheckoutIssuer {
	return &CheckoutIssuer{
		accounts: accounts,
		billing:  billing,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

// Issue returns a checkout URL, or the reason none was created. Errors are
// reserved for store and provider failures.
func (i *CheckoutIssuer) Issue(ctx context.Context, email, lookupKey string) (*entity.SessionResult, error) {
	result, err := i.issue(ctx, email, lookupKey)
	recordSession("checkout", result, err)
	return result, err
}

func (i *CheckoutIssuer) issue(ctx context.Context, email, lookupKey string) (*entity.SessionResult, error) {
	if email == "" {
		return entity.Refused(entity.ReasonUnauthenticated), nil
	}

	account, err := i.accounts.FindFirstByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return entity.Refused(entity.ReasonAccountNotFound), nil
	}
	if !account.HasCustomer() {
		return entity.Refused(entity.ReasonCustomerNotFound), nil
	}
	if account.IsSubscribed {
		i.logger.Info("Checkout refused for subscribed account",
			zap.String("account_id", account.ID.String()))
		return entity.Refused(entity.ReasonAlreadySubscribed), nil
	}
	if lookupKey == "" {
		return entity.Refused(entity.ReasonInvalidRequest), nil
	}

	price, err := i.billing.FindPriceByLookupKey(ctx, lookupKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve price: %w", err)
	}
	if price == nil {
		i.logger.Warn("No price for lookup key",
			zap.String("lookup_key", lookupKey))
		return entity.Refused(entity.ReasonPriceNotFound), nil
	}

	url, err := i.billing.CreateCheckoutSession(ctx, &provider.CheckoutSessionRequest{
		CustomerID: account.StripeCustomerID,
		PriceID:    price.ID,
		SuccessURL: i.baseURL + "/success",
		CancelURL:  i.baseURL + "/cancelled",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	if url == "" {
		return entity.Refused(entity.ReasonSessionUnavailable), nil
	}

	return entity.Issued(url), nil
}

// recordSession counts one issuer call by its outcome.
func recordSession(kind string, result *entity.SessionResult, err error) {
	outcome := "issued"
	switch {
	case err != nil:
		outcome = "error"
	case !result.OK():
		outcome = string(result.Reason)
	}
	metrics.SessionsTotal.WithLabelValues(kind, outcome).Inc()
}
