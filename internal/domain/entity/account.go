package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account links one external identity of a user to one billing customer.
type Account struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Type              string    `json:"type"`
	Provider          string    `json:"provider"`
	ProviderAccountID string    `json:"provider_account_id"`

	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
	IDToken      string `json:"-"`
	ExpiresAt    *int64 `json:"expires_at,omitempty"`
	Scope        string `json:"scope,omitempty"`
	TokenType    string `json:"token_type,omitempty"`

	// StripeCustomerID is empty until linking completes and never changes afterwards.
	StripeCustomerID    string     `json:"stripe_customer_id,omitempty"`
	IsSubscribed        bool       `json:"is_subscribed"`
	SubscriptionStatus  string     `json:"subscription_status,omitempty"`
	SubscriptionEventAt *time.Time `json:"subscription_event_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasCustomer reports whether a billing customer was provisioned for the account.
func (a *Account) HasCustomer() bool {
	return a != nil && a.StripeCustomerID != ""
}

// Subscribed is IsSubscribed guarded by the customer invariant.
func (a *Account) Subscribed() bool {
	return a.HasCustomer() && a.IsSubscribed
}

// LinkRequest is the pending link record handed over by the identity provider.
type LinkRequest struct {
	UserID            uuid.UUID
	Type              string
	Provider          string
	ProviderAccountID string
	AccessToken       string
	RefreshToken      string
	IDToken           string
	ExpiresAt         *int64
	Scope             string
	TokenType         string
}
