package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"go.uber.org/zap"
)

// AccountLinkHook is invoked for every identity that is not linked yet
type AccountLinkHook interface {
	LinkAccount(ctx context.Context, req *entity.LinkRequest) (*entity.Account, error)
}

// SessionTokenIssuer signs the bearer token handed to the client after sign-in
type SessionTokenIssuer interface {
	Issue(userID, email, name string) (string, time.Time, error)
}

// SignInResult is the outcome of a completed OAuth sign-in
type SignInResult struct {
	Token        string
	ExpiresAt    time.Time
	User         *entity.User
	IsSubscribed bool
}

// SignInService turns an external identity into a local user, account and session token
type SignInService struct {
	users    repository.UserRepository
	accounts repository.AccountRepository
	linker   AccountLinkHook
	tokens   SessionTokenIssuer
	logger   *zap.Logger
}

// NewSignInService creates a new sign-in service
func NewSignInService(
	users repository.UserRepository,
	accounts repository.AccountRepository,
	linker AccountLinkHook,
	tokens SessionTokenIssuer,
	logger *zap.Logger,
) *SignInService {
	return &SignInService{
		users:    users,
		accounts: accounts,
		linker:   linker,
		tokens:   tokens,
		logger:   logger,
	}
}

// SignIn upserts the user by email, links the identity on first sight and issues a session token.
func (s *SignInService) SignIn(ctx context.Context, identity *entity.ExternalIdentity) (*SignInResult, error) {
	if identity.Email == "" {
		return nil, &domainErrors.MissingEmailError{UserID: identity.Provider + ":" + identity.ProviderAccountID}
	}

	user, err := s.users.Upsert(ctx, &entity.User{
		Email: identity.Email,
		Name:  identity.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	existing, err := s.accounts.GetByProviderAccount(ctx, identity.Provider, identity.ProviderAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if existing == nil {
		_, err := s.linker.LinkAccount(ctx, &entity.LinkRequest{
			UserID:            user.ID,
			Type:              "oauth",
			Provider:          identity.Provider,
			ProviderAccountID: identity.ProviderAccountID,
			AccessToken:       identity.AccessToken,
			RefreshToken:      identity.RefreshToken,
			ExpiresAt:         identity.ExpiresAt,
			Scope:             identity.Scope,
			TokenType:         identity.TokenType,
		})
		// A concurrent sign-in may have linked the identity first.
		if err != nil && !errors.Is(err, domainErrors.ErrAccountAlreadyLinked) {
			return nil, fmt.Errorf("failed to link account: %w", err)
		}
	}

	account, err := s.accounts.FindFirstByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	token, expires, err := s.tokens.Issue(user.ID.String(), user.Email, user.Name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User signed in",
		zap.String("user_id", user.ID.String()),
		zap.String("provider", identity.Provider))

	return &SignInResult{
		Token:        token,
		ExpiresAt:    expires,
		User:         user,
		IsSubscribed: account.Subscribed(),
	}, nil
}
