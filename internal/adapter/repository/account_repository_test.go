package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestAccountMapping_RoundTrip(t *testing.T) {
	expires := int64(1700003600)
	eventAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	account := &entity.Account{
		ID:                  uuid.New(),
		UserID:              uuid.New(),
		Type:                "oauth",
		Provider:            "github",
		ProviderAccountID:   "42",
		AccessToken:         "gho_token",
		ExpiresAt:           &expires,
		Scope:               "read:user,user:email",
		StripeCustomerID:    "cus_123",
		IsSubscribed:        true,
		SubscriptionStatus:  "active",
		SubscriptionEventAt: &eventAt,
	}

	row := accountToModel(account)

	assert.Equal(t, "cus_123", *row.StripeCustomerID)
	assert.Nil(t, row.RefreshToken)
	assert.Nil(t, row.IDToken)
	assert.Equal(t, account, accountToEntity(row))
}

func TestAccountMapping_EmptyCustomerIsNull(t *testing.T) {
	row := accountToModel(&entity.Account{Provider: "github", ProviderAccountID: "42"})

	// A NULL customer id keeps the unique index satisfied for unlinked rows.
	assert.Nil(t, row.StripeCustomerID)
	assert.False(t, accountToEntity(row).HasCustomer())
}

func TestUserToEntity(t *testing.T) {
	assert.Nil(t, userToEntity(nil))
}

func seedLinkedAccount(t *testing.T, db *gorm.DB, email, providerAccountID, customerID string) *entity.Account {
	t.Helper()
	ctx := context.Background()

	user, err := NewUserRepository(db, zap.NewNop()).Upsert(ctx, &entity.User{Name: "Test", Email: email})
	require.NoError(t, err)

	account := &entity.Account{
		UserID:            user.ID,
		Type:              "oauth",
		Provider:          "github",
		ProviderAccountID: providerAccountID,
		StripeCustomerID:  customerID,
	}
	require.NoError(t, NewAccountRepository(db, zap.NewNop()).Create(ctx, account))
	return account
}

func TestAccountRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db, zap.NewNop())
	ctx := context.Background()

	account := seedLinkedAccount(t, db, "test@example.com", "42", "cus_1")
	assert.NotEqual(t, uuid.Nil, account.ID)

	found, err := repo.GetByProviderAccount(ctx, "github", "42")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, account.ID, found.ID)
	assert.Equal(t, "cus_1", found.StripeCustomerID)
	assert.False(t, found.IsSubscribed)

	t.Run("same identity twice", func(t *testing.T) {
		err := repo.Create(ctx, &entity.Account{
			UserID:            account.UserID,
			Type:              "oauth",
			Provider:          "github",
			ProviderAccountID: "42",
		})
		assert.ErrorIs(t, err, domainErrors.ErrAccountAlreadyLinked)
	})

	t.Run("customer id already taken", func(t *testing.T) {
		err := repo.Create(ctx, &entity.Account{
			UserID:            account.UserID,
			Type:              "oauth",
			Provider:          "github",
			ProviderAccountID: "43",
			StripeCustomerID:  "cus_1",
		})
		assert.ErrorIs(t, err, domainErrors.ErrAccountAlreadyLinked)
	})

	t.Run("unknown identity", func(t *testing.T) {
		found, err := repo.GetByProviderAccount(ctx, "github", "missing")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestAccountRepository_FindFirstByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db, zap.NewNop())
	ctx := context.Background()

	user, err := NewUserRepository(db, zap.NewNop()).Upsert(ctx, &entity.User{Email: "test@example.com"})
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	newer := &model.Account{
		ID: uuid.New(), UserID: user.ID, Type: "oauth", Provider: "github", ProviderAccountID: "2",
		StripeCustomerID: ref("cus_new"), CreatedAt: base.Add(time.Hour),
	}
	older := &model.Account{
		ID: uuid.New(), UserID: user.ID, Type: "oauth", Provider: "google", ProviderAccountID: "1",
		StripeCustomerID: ref("cus_old"), IsSubscribed: true, CreatedAt: base,
	}
	require.NoError(t, db.Create(newer).Error)
	require.NoError(t, db.Create(older).Error)

	account, err := repo.FindFirstByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, older.ID, account.ID)
	assert.True(t, account.Subscribed())

	account, err = repo.FindFirstByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, account)
}

func TestAccountRepository_ApplySubscriptionState(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	type write struct {
		subscribed bool
		status     string
		at         time.Time
		applied    bool
	}

	tests := []struct {
		name             string
		writes           []write
		expectSubscribed bool
		expectStatus     string
		expectEventAt    time.Time
	}{
		{
			name:             "first event on a fresh account",
			writes:           []write{{true, "active", t0, true}},
			expectSubscribed: true,
			expectStatus:     "active",
			expectEventAt:    t0,
		},
		{
			name: "created delivered after deleted is stale",
			writes: []write{
				{false, "canceled", t0.Add(10 * time.Second), true},
				{true, "active", t0, false},
			},
			expectSubscribed: false,
			expectStatus:     "canceled",
			expectEventAt:    t0.Add(10 * time.Second),
		},
		{
			name: "newer event replaces older",
			writes: []write{
				{true, "active", t0, true},
				{false, "canceled", t0.Add(time.Minute), true},
			},
			expectSubscribed: false,
			expectStatus:     "canceled",
			expectEventAt:    t0.Add(time.Minute),
		},
		{
			name: "cancellation wins a same-second tie",
			writes: []write{
				{false, "canceled", t0, true},
				{true, "active", t0, false},
			},
			expectSubscribed: false,
			expectStatus:     "canceled",
			expectEventAt:    t0,
		},
		{
			name: "same-second update over an active row applies",
			writes: []write{
				{true, "active", t0, true},
				{true, "past_due", t0, true},
			},
			expectSubscribed: true,
			expectStatus:     "past_due",
			expectEventAt:    t0,
		},
		{
			name: "redelivered cancellation is idempotent",
			writes: []write{
				{true, "active", t0, true},
				{false, "canceled", t0.Add(time.Second), true},
				{false, "canceled", t0.Add(time.Second), true},
			},
			expectSubscribed: false,
			expectStatus:     "canceled",
			expectEventAt:    t0.Add(time.Second),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			repo := NewAccountRepository(db, zap.NewNop())
			seedLinkedAccount(t, db, "test@example.com", "42", "cus_1")

			for i, w := range tt.writes {
				applied, err := repo.ApplySubscriptionState(ctx, "cus_1", w.subscribed, w.status, w.at)
				require.NoError(t, err)
				assert.Equal(t, w.applied, applied, "write %d", i)
			}

			account, err := repo.GetByStripeCustomerID(ctx, "cus_1")
			require.NoError(t, err)
			require.NotNil(t, account)
			assert.Equal(t, tt.expectSubscribed, account.IsSubscribed)
			assert.Equal(t, tt.expectStatus, account.SubscriptionStatus)
			require.NotNil(t, account.SubscriptionEventAt)
			assert.True(t, tt.expectEventAt.Equal(*account.SubscriptionEventAt))
		})
	}
}

func TestAccountRepository_ApplySubscriptionState_UnknownCustomer(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db, zap.NewNop())
	seedLinkedAccount(t, db, "test@example.com", "42", "cus_1")

	applied, err := repo.ApplySubscriptionState(context.Background(), "cus_unknown", true, "active", time.Now().UTC())

	assert.ErrorIs(t, err, domainErrors.ErrAccountNotFound)
	assert.False(t, applied)

	account, err := repo.GetByStripeCustomerID(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.False(t, account.IsSubscribed)
	assert.Nil(t, account.SubscriptionEventAt)
}
