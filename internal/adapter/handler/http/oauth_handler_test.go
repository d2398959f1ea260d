package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/usecase"
	"go.uber.org/zap"
)

func TestOAuthHandler_Login(t *testing.T) {
	provider := new(MockIdentityProvider)
	states := new(MockStateIssuer)
	states.On("IssueState").Return("signed-state", nil)
	provider.On("AuthCodeURL", "signed-state").Return("https://github.com/login/oauth/authorize?state=signed-state")
	handler := NewOAuthHandler(zap.NewNop(), provider, states, new(MockSignInCompleter))

	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/github/login", nil), rec)

	require.NoError(t, handler.Login(c))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://github.com/login/oauth/authorize?state=signed-state", rec.Header().Get("Location"))
}

func TestOAuthHandler_Callback(t *testing.T) {
	identity := &entity.ExternalIdentity{
		Provider:          "github",
		ProviderAccountID: "42",
		Email:             "test@example.com",
	}
	expires := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		mockSetup      func(*MockIdentityProvider, *MockStateIssuer, *MockSignInCompleter)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "signed in",
			query: "?code=abc&state=good",
			mockSetup: func(p *MockIdentityProvider, s *MockStateIssuer, signIn *MockSignInCompleter) {
				s.On("VerifyState", "good").Return(nil)
				p.On("Exchange", mock.Anything, "abc").Return(identity, nil)
				signIn.On("SignIn", mock.Anything, identity).Return(&usecase.SignInResult{
					Token:        "jwt",
					ExpiresAt:    expires,
					IsSubscribed: true,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"token":"jwt","expires":"2026-04-01T00:00:00Z","isSubscribed":true}`,
		},
		{
			name:  "bad state",
			query: "?code=abc&state=forged",
			mockSetup: func(p *MockIdentityProvider, s *MockStateIssuer, signIn *MockSignInCompleter) {
				s.On("VerifyState", "forged").Return(errors.New("token signature is invalid"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid state","code":"INVALID_STATE"}`,
		},
		{
			name:           "denied by user",
			query:          "?error=access_denied&state=good",
			mockSetup:      func(*MockIdentityProvider, *MockStateIssuer, *MockSignInCompleter) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"Sign-in was cancelled","code":"ACCESS_DENIED"}`,
		},
		{
			name:  "missing code",
			query: "?state=good",
			mockSetup: func(p *MockIdentityProvider, s *MockStateIssuer, signIn *MockSignInCompleter) {
				s.On("VerifyState", "good").Return(nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Missing authorization code","code":"INVALID_REQUEST"}`,
		},
		{
			name:  "exchange failure",
			query: "?code=abc&state=good",
			mockSetup: func(p *MockIdentityProvider, s *MockStateIssuer, signIn *MockSignInCompleter) {
				s.On("VerifyState", "good").Return(nil)
				p.On("Exchange", mock.Anything, "abc").Return(nil, errors.New("bad_verification_code"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"Sign-in with provider failed"}`,
		},
		{
			name:  "no verified email",
			query: "?code=abc&state=good",
			mockSetup: func(p *MockIdentityProvider, s *MockStateIssuer, signIn *MockSignInCompleter) {
				s.On("VerifyState", "good").Return(nil)
				p.On("Exchange", mock.Anything, "abc").Return(identity, nil)
				signIn.On("SignIn", mock.Anything, identity).Return(nil, &domainErrors.MissingEmailError{UserID: "github:42"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"A verified email address is required","code":"MISSING_EMAIL"}`,
		},
		{
			name:  "link failure",
			query: "?code=abc&state=good",
			mockSetup: func(p *MockIdentityProvider, s *MockStateIssuer, signIn *MockSignInCompleter) {
				s.On("VerifyState", "good").Return(nil)
				p.On("Exchange", mock.Anything, "abc").Return(identity, nil)
				signIn.On("SignIn", mock.Anything, identity).Return(nil, errors.New("stripe unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Sign-in failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockIdentityProvider)
			states := new(MockStateIssuer)
			signIn := new(MockSignInCompleter)
			tt.mockSetup(provider, states, signIn)
			handler := NewOAuthHandler(zap.NewNop(), provider, states, signIn)

			e := newTestEcho()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/github/callback"+tt.query, nil), rec)

			require.NoError(t, handler.Callback(c))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			provider.AssertExpectations(t)
			states.AssertExpectations(t)
			signIn.AssertExpectations(t)
		})
	}
}
