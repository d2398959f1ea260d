package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	"github.com/wekeepgrowing/semo-billing/internal/domain/model"
	"github.com/wekeepgrowing/semo-billing/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-billing/internal/usecase"
)

type MockCheckoutIssuer struct {
	mock.Mock
}

func (m *MockCheckoutIssuer) Issue(ctx context.Context, email, lookupKey string) (*entity.SessionResult, error) {
	args := m.Called(ctx, email, lookupKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SessionResult), args.Error(1)
}

type MockPortalIssuer struct {
	mock.Mock
}

func (m *MockPortalIssuer) Issue(ctx context.Context, email string) (*entity.SessionResult, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SessionResult), args.Error(1)
}

type MockWebhookProcessor struct {
	mock.Mock
}

func (m *MockWebhookProcessor) Verify(payload []byte, signature string) (*entity.BillingEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BillingEvent), args.Error(1)
}

func (m *MockWebhookProcessor) Apply(ctx context.Context, event *entity.BillingEvent) (usecase.WebhookOutcome, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(usecase.WebhookOutcome), args.Error(1)
}

type MockSubscriptionReader struct {
	mock.Mock
}

func (m *MockSubscriptionReader) IsSubscribed(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockPriceLookup struct {
	mock.Mock
}

func (m *MockPriceLookup) GetByLookupKey(ctx context.Context, lookupKey string) (*entity.PriceView, error) {
	args := m.Called(ctx, lookupKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PriceView), args.Error(1)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, code string) (*entity.ExternalIdentity, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExternalIdentity), args.Error(1)
}

type MockStateIssuer struct {
	mock.Mock
}

func (m *MockStateIssuer) IssueState() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockStateIssuer) VerifyState(state string) error {
	return m.Called(state).Error(0)
}

type MockSignInCompleter struct {
	mock.Mock
}

func (m *MockSignInCompleter) SignIn(ctx context.Context, identity *entity.ExternalIdentity) (*usecase.SignInResult, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SignInResult), args.Error(1)
}

type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) SaveEvent(ctx context.Context, eventID, eventType string, data []byte, createdAt time.Time) error {
	args := m.Called(ctx, eventID, eventType, data, createdAt)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) GetEvent(ctx context.Context, eventID string) (*model.StripeWebhookEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StripeWebhookEvent), args.Error(1)
}

func (m *MockWebhookEventRepository) MarkProcessed(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

func (m *MockWebhookEventRepository) MarkIgnored(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

func (m *MockWebhookEventRepository) MarkFailed(ctx context.Context, eventID string, err error) error {
	return m.Called(ctx, eventID, err).Error(0)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*entity.Account, error) {
	args := m.Called(ctx, provider, providerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindFirstByEmail(ctx context.Context, email string) (*entity.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*entity.Account, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplySubscriptionState(ctx context.Context, customerID string, subscribed bool, status string, eventAt time.Time) (bool, error) {
	args := m.Called(ctx, customerID, subscribed, status, eventAt)
	return args.Bool(0), args.Error(1)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	return e
}

// withSession attaches an authenticated user to the request as the JWT middleware would.
func withSession(c echo.Context, email string) {
	user := &auth.AuthUser{
		UserID: "550e8400-e29b-41d4-a716-446655440000",
		Email:  email,
		Name:   "Test User",
	}
	c.SetRequest(c.Request().WithContext(auth.WithUser(c.Request().Context(), user)))
}
