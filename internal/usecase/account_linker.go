package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"github.com/wekeepgrowing/semo-billing/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

const compensationTimeout = 10 * time.Second

// AccountLinker provisions a billing customer whenever an external identity is linked to a user
type AccountLinker struct {
	users    repository.UserRepository
	accounts repository.AccountRepository
	billing  provider.BillingProvider
	logger   *zap.Logger
}

// NewAccountLinker creates a new account linker
func NewAccountLinker(
	users repository.UserRepository,
	accounts repository.AccountRepository,
	billing provider.BillingProvider,
	logger *zap.Logger,
) *AccountLinker {
	return &AccountLinker{
		users:    users,
		accounts: accounts,
		billing:  billing,
		logger:   logger,
	}
}

// LinkAccount creates one customer for the owning user's email and persists
// the account with that customer id. No account row exists without a customer.
func (l *AccountLinker) LinkAccount(ctx context.Context, req *entity.LinkRequest) (*entity.Account, error) {
	account, err := l.linkAccount(ctx, req)
	if err != nil {
		metrics.AccountLinksTotal.WithLabelValues(linkOutcome(err)).Inc()
		return nil, err
	}
	metrics.AccountLinksTotal.WithLabelValues("linked").Inc()
	return account, nil
}

func (l *AccountLinker) linkAccount(ctx context.Context, req *entity.LinkRequest) (*entity.Account, error) {
	user, err := l.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || user.Email == "" {
		l.logger.Warn("Refusing to link account without email",
			zap.String("user_id", req.UserID.String()),
			zap.String("provider", req.Provider))
		return nil, &domainErrors.MissingEmailError{UserID: req.UserID.String()}
	}

	existing, err := l.accounts.GetByProviderAccount(ctx, req.Provider, req.ProviderAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing link: %w", err)
	}
	if existing != nil {
		return nil, domainErrors.ErrAccountAlreadyLinked
	}

	customerID, err := l.billing.CreateCustomer(ctx, &provider.CreateCustomerRequest{
		Email:          user.Email,
		Name:           user.Name,
		IdempotencyKey: linkIdempotencyKey(req.Provider, req.ProviderAccountID),
		Metadata: map[string]string{
			"user_id":  user.ID.String(),
			"provider": req.Provider,
		},
	})
	if err != nil {
		l.logger.Error("Failed to create billing customer",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create billing customer: %w", err)
	}

	account := &entity.Account{
		UserID:            user.ID,
		Type:              req.Type,
		Provider:          req.Provider,
		ProviderAccountID: req.ProviderAccountID,
		AccessToken:       req.AccessToken,
		RefreshToken:      req.RefreshToken,
		IDToken:           req.IDToken,
		ExpiresAt:         req.ExpiresAt,
		Scope:             req.Scope,
		TokenType:         req.TokenType,
		StripeCustomerID:  customerID,
		IsSubscribed:      false,
	}

	if err := l.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domainErrors.ErrAccountAlreadyLinked) {
			// A concurrent link with the same idempotency key received the same
			// customer; it now belongs to the winning row.
			if winner, lookupErr := l.accounts.GetByProviderAccount(ctx, req.Provider, req.ProviderAccountID); lookupErr == nil &&
				winner != nil && winner.StripeCustomerID == customerID {
				return nil, err
			}
			l.compensate(ctx, customerID, err)
			return nil, err
		}
		l.compensate(ctx, customerID, err)
		return nil, fmt.Errorf("failed to persist account: %w", err)
	}

	l.logger.Info("Account linked",
		zap.String("user_id", user.ID.String()),
		zap.String("provider", req.Provider),
		zap.String("customer_id", customerID))

	return account, nil
}

// compensate deletes the customer created for a link whose row could not be written.
func (l *AccountLinker) compensate(ctx context.Context, customerID string, cause error) {
	// Cleanup must run even when the request context is already cancelled.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if err := l.billing.DeleteCustomer(ctx, customerID); err != nil {
		l.logger.Error("Failed to delete orphaned billing customer",
			zap.String("customer_id", customerID),
			zap.NamedError("cause", cause),
			zap.Error(err))
		return
	}
	l.logger.Warn("Deleted billing customer after failed account insert",
		zap.String("customer_id", customerID),
		zap.NamedError("cause", cause))
}

func linkIdempotencyKey(provider, providerAccountID string) string {
	return fmt.Sprintf("link-%s-%s", provider, providerAccountID)
}

func linkOutcome(err error) string {
	switch {
	case domainErrors.IsMissingEmail(err):
		return "missing_email"
	case errors.Is(err, domainErrors.ErrAccountAlreadyLinked):
		return "already_linked"
	default:
		return "error"
	}
}
