package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/wekeepgrowing/semo-billing/internal/config"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	githubOAuth "golang.org/x/oauth2/github"
)

const (
	providerName      = "github"
	defaultAPIBaseURL = "https://api.github.com"
)

// Provider signs users in with GitHub OAuth
type Provider struct {
	oauth      *oauth2.Config
	apiBaseURL string
	logger     *zap.Logger
}

// NewProvider creates a new GitHub identity provider
func NewProvider(cfg config.OAuthConfig, logger *zap.Logger) *Provider {
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     githubOAuth.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		apiBaseURL: defaultAPIBaseURL,
		logger:     logger,
	}
}

// WithEndpoint points token exchange and profile lookups at another host.
func (p *Provider) WithEndpoint(endpoint oauth2.Endpoint, apiBaseURL string) *Provider {
	p.oauth.Endpoint = endpoint
	p.apiBaseURL = strings.TrimRight(apiBaseURL, "/")
	return p
}

// Name returns the provider identifier stored on accounts.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL returns the consent page URL carrying the given state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Exchange trades the authorization code for a token and loads the user's profile.
// Email is left empty when the user has no verified primary address.
func (p *Provider) Exchange(ctx context.Context, code string) (*entity.ExternalIdentity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := p.oauth.Client(ctx, token)

	var user githubUser
	if err := p.getJSON(ctx, client, "/user", &user); err != nil {
		return nil, err
	}

	email := user.Email
	if email == "" {
		email, err = p.primaryEmail(ctx, client)
		if err != nil {
			return nil, err
		}
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	identity := &entity.ExternalIdentity{
		Provider:          providerName,
		ProviderAccountID: strconv.FormatInt(user.ID, 10),
		Email:             email,
		Name:              name,
		AccessToken:       token.AccessToken,
		RefreshToken:      token.RefreshToken,
		TokenType:         token.TokenType,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		identity.Scope = scope
	}
	if !token.Expiry.IsZero() {
		expiresAt := token.Expiry.Unix()
		identity.ExpiresAt = &expiresAt
	}

	p.logger.Debug("GitHub identity resolved",
		zap.String("provider_account_id", identity.ProviderAccountID),
		zap.Bool("has_email", email != ""))

	return identity, nil
}

func (p *Provider) primaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []githubEmail
	if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}

func (p *Provider) getJSON(ctx context.Context, client *http.Client, path string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call github %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode github %s: %w", path, err)
	}
	return nil
}
