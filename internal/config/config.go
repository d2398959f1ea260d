package config

import (
	"fmt"

	pkgconfig "github.com/wekeepgrowing/semo-billing/pkg/config"
	"github.com/wekeepgrowing/semo-billing/pkg/logger"
)

const serviceName = "billing"

type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      logger.Config  `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// envAliases binds the unprefixed variable names used by the hosting
// environment next to the BILLING_* overrides.
var envAliases = map[string]string{
	"auth.secret":               "AUTH_SECRET",
	"auth.github.client_id":     "GITHUB_CLIENT_ID",
	"auth.github.client_secret": "GITHUB_CLIENT_SECRET",
	"stripe.publishable_key":    "STRIPE_PUBLISHABLE_KEY",
	"stripe.secret_key":         "STRIPE_SECRET_KEY",
	"stripe.webhook_secret":     "STRIPE_WEBHOOK_SECRET_KEY",
	"service.base_url":          "BASE_URL",
}

func LoadConfig() (*Config, error) {
	raw, err := pkgconfig.Load(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	for key, env := range envAliases {
		if err := raw.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := raw.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate fails fast on settings the service cannot start without.
func (c *Config) Validate() error {
	switch {
	case c.Stripe.SecretKey == "":
		return fmt.Errorf("stripe.secret_key is required")
	case c.Stripe.WebhookSecret == "":
		return fmt.Errorf("stripe.webhook_secret is required")
	case c.Auth.Secret == "":
		return fmt.Errorf("auth.secret is required")
	case c.Service.BaseURL == "":
		return fmt.Errorf("service.base_url is required")
	}
	return nil
}
