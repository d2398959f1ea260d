package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/domain/model"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const canceledStatus = "canceled"

type accountRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAccountRepository(db *gorm.DB, logger *zap.Logger) repository.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// accountToEntity converts a model.Account to entity.Account
func accountToEntity(m *model.Account) *entity.Account {
	if m == nil {
		return nil
	}
	return &entity.Account{
		ID:                  m.ID,
		UserID:              m.UserID,
		Type:                m.Type,
		Provider:            m.Provider,
		ProviderAccountID:   m.ProviderAccountID,
		AccessToken:         deref(m.AccessToken),
		RefreshToken:        deref(m.RefreshToken),
		IDToken:             deref(m.IDToken),
		ExpiresAt:           m.ExpiresAt,
		Scope:               deref(m.Scope),
		TokenType:           deref(m.TokenType),
		StripeCustomerID:    deref(m.StripeCustomerID),
		IsSubscribed:        m.IsSubscribed,
		SubscriptionStatus:  deref(m.SubscriptionStatus),
		SubscriptionEventAt: m.SubscriptionEventAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// accountToModel converts an entity.Account to model.Account
func accountToModel(e *entity.Account) *model.Account {
	return &model.Account{
		ID:                  e.ID,
		UserID:              e.UserID,
		Type:                e.Type,
		Provider:            e.Provider,
		ProviderAccountID:   e.ProviderAccountID,
		AccessToken:         ref(e.AccessToken),
		RefreshToken:        ref(e.RefreshToken),
		IDToken:             ref(e.IDToken),
		ExpiresAt:           e.ExpiresAt,
		Scope:               ref(e.Scope),
		TokenType:           ref(e.TokenType),
		StripeCustomerID:    ref(e.StripeCustomerID),
		IsSubscribed:        e.IsSubscribed,
		SubscriptionStatus:  ref(e.SubscriptionStatus),
		SubscriptionEventAt: e.SubscriptionEventAt,
	}
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	row := accountToModel(account)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainErrors.ErrAccountAlreadyLinked
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	account.ID = row.ID
	account.CreatedAt = row.CreatedAt
	account.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *accountRepository) GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*entity.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return accountToEntity(&account), nil
}

func (r *accountRepository) FindFirstByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = accounts.user_id").
		Where("users.email = ?", email).
		Order("accounts.created_at ASC").
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}
	return accountToEntity(&account), nil
}

func (r *accountRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*entity.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by customer: %w", err)
	}
	return accountToEntity(&account), nil
}

func (r *accountRepository) ApplySubscriptionState(ctx context.Context, customerID string, subscribed bool, status string, eventAt time.Time) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("stripe_customer_id = ?", customerID)

	// Event timestamps have one-second resolution. On a tie a cancellation wins.
	if subscribed {
		query = query.Where("(subscription_event_at IS NULL OR subscription_event_at < ? OR (subscription_event_at = ? AND COALESCE(subscription_status, '') <> ?))",
			eventAt, eventAt, canceledStatus)
	} else {
		query = query.Where("(subscription_event_at IS NULL OR subscription_event_at <= ?)", eventAt)
	}

	result := query.Updates(map[string]interface{}{
		"is_subscribed":         subscribed,
		"subscription_status":   status,
		"subscription_event_at": eventAt,
		"updated_at":            time.Now(),
	})
	if result.Error != nil {
		r.logger.Error("Failed to apply subscription state",
			zap.String("customer_id", customerID),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to apply subscription state: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		return true, nil
	}

	// Nothing updated: either the customer is unknown or a newer event already won.
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("stripe_customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	if count == 0 {
		return false, domainErrors.ErrAccountNotFound
	}

	return false, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
