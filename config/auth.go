package config

import (
	"fmt"
	"strings"
)

// AuthMode represents how the console obtains and verifies credentials.
type AuthMode string

const (
	// AuthModePassword uses the API's OAuth2 password grant.
	AuthModePassword AuthMode = "password"
	// AuthModeOIDC uses the password grant of an OIDC provider and its UserInfo endpoint.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock uses an in-memory API (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "password", "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oidc, mock)", v)
	}
}

// OIDCConfig contains OIDC provider configuration.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"appconsole"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`

	// Claims are JMESPath expressions mapping UserInfo claims onto the user profile.
	// Empty values use the provider defaults.
	Claims OIDCClaimsConfig `envPrefix:"CLAIM_"`
}

// OIDCClaimsConfig holds the claim mapping expressions.
type OIDCClaimsConfig struct {
	ID          string `env:"ID"`
	Email       string `env:"EMAIL"`
	FullName    string `env:"FULL_NAME"`
	IsActive    string `env:"IS_ACTIVE"`
	IsSuperuser string `env:"IS_SUPERUSER"`
}

// DevAuthConfig controls the mock API's seeded user.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Email       string `env:"EMAIL"        envDefault:"admin@example.com"`
	Password    string `env:"PASSWORD"     envDefault:"changethis"`
	FullName    string `env:"FULL_NAME"    envDefault:"Dev Admin"`
	RegularUser bool   `env:"REGULAR_USER" envDefault:"false"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which API implementation the console talks to.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize trims provider settings.
func (a *AuthConfig) Sanitize() {
	if a.Mode == "" {
		a.Mode = AuthModePassword
	}
	a.OIDC.DiscoveryURL = strings.TrimSpace(a.OIDC.DiscoveryURL)
	a.OIDC.ClientID = strings.TrimSpace(a.OIDC.ClientID)
	a.DevAuth.Email = strings.TrimSpace(a.DevAuth.Email)
}
