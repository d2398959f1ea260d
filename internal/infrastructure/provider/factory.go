package provider

import (
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/wekeepgrowing/semo-billing/internal/config"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	stripeProvider "github.com/wekeepgrowing/semo-billing/internal/infrastructure/provider/stripe"
	"go.uber.org/zap"
)

// Factory creates billing providers based on the provider type
type Factory struct {
	config   *config.Config
	logger   *zap.Logger
	backends *stripe.Backends
}

// NewFactory creates a new provider factory
func NewFactory(config *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// WithBackends overrides the Stripe API backends, e.g. to point at a local mock server.
func (f *Factory) WithBackends(backends *stripe.Backends) *Factory {
	f.backends = backends
	return f
}

// GetProvider returns a billing provider based on the provider type
func (f *Factory) GetProvider(providerType provider.ProviderType) (provider.BillingProvider, error) {
	switch providerType {
	case provider.ProviderTypeStripe:
		return f.createStripeProvider()
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// createStripeProvider creates a new Stripe provider instance
func (f *Factory) createStripeProvider() (provider.BillingProvider, error) {
	if f.config.Stripe.SecretKey == "" {
		return nil, fmt.Errorf("Stripe secret key not configured")
	}
	if f.config.Stripe.WebhookSecret == "" {
		return nil, fmt.Errorf("Stripe webhook secret not configured")
	}

	return stripeProvider.NewStripeProvider(
		f.config.Stripe.SecretKey,
		f.config.Stripe.WebhookSecret,
		f.backends,
		f.logger.Named("stripe"),
	), nil
}
