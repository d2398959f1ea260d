package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"go.uber.org/zap"
)

// PortalIssuer creates billing portal sessions for linked accounts
type PortalIssuer struct {
	accounts repository.AccountRepository
	billing  provider.BillingProvider
	baseURL  string
	logger   *zap.Logger
}

// NewPortalIssuer creates a new portal issuer
func NewPortalIssuer(
	accounts repository.AccountRepository,
	billing provider.BillingProvider,
	baseURL string,
	logger *zap.Logger,
) *PortalIssuer {
	return &PortalIssuer{
		accounts: accounts,
		billing:  billing,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

// Issue returns a portal URL, or the reason none was created.
func (i *PortalIssuer) Issue(ctx context.Context, email string) (*entity.SessionResult, error) {
	result, err := i.issue(ctx, email)
	recordSession("portal", result, err)
	return result, err
}

func (i *PortalIssuer) issue(ctx context.Context, email string) (*entity.SessionResult, error) {
	if email == "" {
		return entity.Refused(entity.ReasonUnauthenticated), nil
	}

	account, err := i.accounts.FindFirstByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !account.HasCustomer() {
		return entity.Refused(entity.ReasonCustomerNotFound), nil
	}

	url, err := i.billing.CreatePortalSession(ctx, account.StripeCustomerID, i.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create portal session: %w", err)
	}
	if url == "" {
		return entity.Refused(entity.ReasonSessionUnavailable), nil
	}

	i.logger.Debug("Portal session issued",
		zap.String("account_id", account.ID.String()))

	return entity.Issued(url), nil
}
