package database

import (
	"github.com/wekeepgrowing/semo-billing/internal/adapter/repository"
	domainRepo "github.com/wekeepgrowing/semo-billing/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Users         domainRepo.UserRepository
	Accounts      domainRepo.AccountRepository
	WebhookEvents domainRepo.WebhookEventRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Users:         repository.NewUserRepository(db, logger),
		Accounts:      repository.NewAccountRepository(db, logger),
		WebhookEvents: repository.NewWebhookRepository(db, logger),
	}
}
