package usecase

import (
	"context"
	"fmt"

	"github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"go.uber.org/zap"
)

// SessionService derives the subscription flag exposed on the user session
type SessionService struct {
	accounts repository.AccountRepository
	logger   *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(accounts repository.AccountRepository, logger *zap.Logger) *SessionService {
	return &SessionService{
		accounts: accounts,
		logger:   logger,
	}
}

// IsSubscribed reads the flag of the user's first account. A user without
// accounts is not subscribed.
func (s *SessionService) IsSubscribed(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}

	account, err := s.accounts.FindFirstByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to load account: %w", err)
	}

	return account.Subscribed(), nil
}
