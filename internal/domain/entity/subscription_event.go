package entity

import "time"

// Subscription event types delivered by the billing provider.
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// BillingEvent is a verified webhook delivery.
type BillingEvent struct {
	ID      string
	Type    string
	Created time.Time
	// Raw is the event payload as delivered, stored for auditing.
	Raw []byte
	// Subscription is set for customer.subscription.* events.
	Subscription *SubscriptionObject
}

// SubscriptionObject is the subset of a provider subscription this service reads.
type SubscriptionObject struct {
	ID         string
	CustomerID string
	Status     string
}

// SubscriptionChange is published after an account's subscription flag was written.
type SubscriptionChange struct {
	AccountID    string    `json:"account_id"`
	UserID       string    `json:"user_id"`
	CustomerID   string    `json:"customer_id"`
	IsSubscribed bool      `json:"is_subscribed"`
	Status       string    `json:"status"`
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// SubscribedStatus reports whether a subscription in this status grants access.
func SubscribedStatus(status string) bool {
	switch status {
	case "active", "trialing", "past_due":
		return true
	default:
		return false
	}
}
