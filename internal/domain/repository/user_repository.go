package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Upsert creates the user or refreshes its name, keyed by email.
	Upsert(ctx context.Context, user *entity.User) (*entity.User, error)
}
