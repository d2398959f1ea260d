package entity

// ExternalIdentity is the profile and token set returned by an OAuth provider
// after a successful code exchange.
type ExternalIdentity struct {
	Provider          string
	ProviderAccountID string
	Email             string
	Name              string
	AccessToken       string
	RefreshToken      string
	TokenType         string
	Scope             string
	ExpiresAt         *int64
}
