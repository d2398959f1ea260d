package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is one linked external identity of a user together with its
// Stripe customer and subscription flag
type Account struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Type              string    `gorm:"size:32;not null"`
	Provider          string    `gorm:"size:64;not null;uniqueIndex:idx_accounts_provider_account"`
	ProviderAccountID string    `gorm:"column:provider_account_id;size:255;not null;uniqueIndex:idx_accounts_provider_account"`

	AccessToken  *string `gorm:"type:text"`
	RefreshToken *string `gorm:"type:text"`
	IDToken      *string `gorm:"column:id_token;type:text"`
	ExpiresAt    *int64
	Scope        *string `gorm:"size:255"`
	TokenType    *string `gorm:"size:32"`

	StripeCustomerID    *string    `gorm:"column:stripe_customer_id;size:100;uniqueIndex"`
	IsSubscribed        bool       `gorm:"column:is_subscribed;not null;default:false"`
	SubscriptionStatus  *string    `gorm:"column:subscription_status;size:32"`
	SubscriptionEventAt *time.Time `gorm:"column:subscription_event_at"`

	CreatedAt time.Time `gorm:"default:now()"`
	UpdatedAt time.Time `gorm:"default:now()"`

	User *User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (Account) TableName() string {
	return "accounts"
}
