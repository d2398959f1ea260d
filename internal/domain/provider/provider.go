package provider

import (
	"context"

	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
)

// BillingProvider defines the operations this service needs from the billing provider
type BillingProvider interface {
	// CreateCustomer provisions a customer. Calls sharing an idempotency key return the same customer.
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (string, error)

	// DeleteCustomer removes a customer created by a link that could not be persisted
	DeleteCustomer(ctx context.Context, customerID string) error

	// FindPriceByLookupKey returns nil, nil when no active price carries the key
	FindPriceByLookupKey(ctx context.Context, lookupKey string) (*entity.Price, error)

	// CreateCheckoutSession opens a hosted subscription checkout and returns its URL
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (string, error)

	// CreatePortalSession opens a billing portal session and returns its URL
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)

	// ConstructEvent verifies the signature of a webhook delivery and decodes it
	ConstructEvent(payload []byte, signature string) (*entity.BillingEvent, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// CreateCustomerRequest represents a customer provisioning request
type CreateCustomerRequest struct {
	Email          string            `json:"email"`
	Name           string            `json:"name,omitempty"`
	IdempotencyKey string            `json:"-"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// CheckoutSessionRequest represents a subscription checkout request
type CheckoutSessionRequest struct {
	CustomerID string `json:"customer_id"`
	PriceID    string `json:"price_id"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// ProviderType represents the type of billing provider
type ProviderType string

const (
	ProviderTypeStripe ProviderType = "stripe"
)

// Error types for provider operations
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

const (
	ErrCodeSignatureInvalid = "SIGNATURE_INVALID"
	ErrCodeProviderRequest  = "PROVIDER_REQUEST_FAILED"
)
