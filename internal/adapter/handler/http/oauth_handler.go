package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/usecase"
	"go.uber.org/zap"
)

// IdentityProvider performs the OAuth code flow against an external provider
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*entity.ExternalIdentity, error)
}

// StateIssuer signs and verifies the OAuth state parameter
type StateIssuer interface {
	IssueState() (string, error)
	VerifyState(state string) error
}

// SignInCompleter finishes a sign-in for a resolved external identity
type SignInCompleter interface {
	SignIn(ctx context.Context, identity *entity.ExternalIdentity) (*usecase.SignInResult, error)
}

type OAuthHandler struct {
	logger   *zap.Logger
	provider IdentityProvider
	states   StateIssuer
	signIn   SignInCompleter
}

func NewOAuthHandler(logger *zap.Logger, provider IdentityProvider, states StateIssuer, signIn SignInCompleter) *OAuthHandler {
	return &OAuthHandler{
		logger:   logger,
		provider: provider,
		states:   states,
		signIn:   signIn,
	}
}

type SignInResponse struct {
	Token        string    `json:"token"`
	Expires      time.Time `json:"expires"`
	IsSubscribed bool      `json:"isSubscribed"`
}

// Login redirects to the provider's consent page.
func (h *OAuthHandler) Login(c echo.Context) error {
	state, err := h.states.IssueState()
	if err != nil {
		return internalError(c, h.logger, err, "Failed to start sign-in")
	}

	return c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// Callback completes the code flow and returns a session token.
func (h *OAuthHandler) Callback(c echo.Context) error {
	if reason := c.QueryParam("error"); reason != "" {
		h.logger.Info("Sign-in denied by provider", zap.String("reason", reason))
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Sign-in was cancelled",
			"code":  "ACCESS_DENIED",
		})
	}

	if err := h.states.VerifyState(c.QueryParam("state")); err != nil {
		h.logger.Warn("Invalid oauth state", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid state",
			"code":  "INVALID_STATE",
		})
	}

	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Missing authorization code",
			"code":  "INVALID_REQUEST",
		})
	}

	ctx := c.Request().Context()

	identity, err := h.provider.Exchange(ctx, code)
	if err != nil {
		h.logger.Warn("OAuth code exchange failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": "Sign-in with provider failed",
		})
	}

	result, err := h.signIn.SignIn(ctx, identity)
	if err != nil {
		if domainErrors.IsMissingEmail(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "A verified email address is required",
				"code":  "MISSING_EMAIL",
			})
		}
		return internalError(c, h.logger, err, "Sign-in failed",
			zap.String("provider", identity.Provider),
			zap.String("provider_account_id", identity.ProviderAccountID),
		)
	}

	return c.JSON(http.StatusOK, SignInResponse{
		Token:        result.Token,
		Expires:      result.ExpiresAt,
		IsSubscribed: result.IsSubscribed,
	})
}
