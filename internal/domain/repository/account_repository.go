package repository

import (
	"context"
	"time"

	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
)

type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*entity.Account, error)
	// FindFirstByEmail returns the oldest account owned by the user with this email.
	FindFirstByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByStripeCustomerID(ctx context.Context, customerID string) (*entity.Account, error)
	// ApplySubscriptionState writes the flag unless a newer event was already applied.
	// applied is false when the write was skipped as stale.
	ApplySubscriptionState(ctx context.Context, customerID string, subscribed bool, status string, eventAt time.Time) (applied bool, err error)
}
