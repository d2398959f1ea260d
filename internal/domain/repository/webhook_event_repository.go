package repository

import (
	"context"
	"time"

	"github.com/wekeepgrowing/semo-billing/internal/domain/model"
)

// WebhookEventRepository records verified Stripe deliveries
type WebhookEventRepository interface {
	// SaveEvent inserts the event once; a repeated delivery leaves the stored row untouched.
	SaveEvent(ctx context.Context, eventID, eventType string, data []byte, createdAt time.Time) error
	GetEvent(ctx context.Context, eventID string) (*model.StripeWebhookEvent, error)
	MarkProcessed(ctx context.Context, eventID string) error
	MarkIgnored(ctx context.Context, eventID string) error
	MarkFailed(ctx context.Context, eventID string, err error) error
}
