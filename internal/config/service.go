package config

import "time"

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	// BaseURL is the public origin used for checkout and portal redirects.
	BaseURL string `mapstructure:"base_url"`
	// ClientURL is the browser origin allowed by CORS. Defaults to BaseURL.
	ClientURL string `mapstructure:"client_url"`
}

// AllowedOrigin returns the CORS origin for the web client.
func (s ServiceConfig) AllowedOrigin() string {
	if s.ClientURL != "" {
		return s.ClientURL
	}
	return s.BaseURL
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	GitHub   OAuthConfig   `mapstructure:"github"`
}

type OAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type StripeConfig struct {
	PublishableKey string `mapstructure:"publishable_key"`
	SecretKey      string `mapstructure:"secret_key"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// Enabled reports whether subscription changes should be published.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}
