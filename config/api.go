package config

import (
	"strings"
	"time"
)

const (
	defaultAPIURL     = "http://localhost"
	defaultAPITimeout = 10 * time.Second
	maxAPITimeout     = 5 * time.Minute
)

// APIConfig contains the REST API client configuration.
type APIConfig struct {
	// URL is the base URL of the API (e.g., "https://api.example.com"); the /api/v1 prefix is added by the client.
	URL string `env:"API_URL" envDefault:"http://localhost"`

	// Timeout bounds every API request.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	// ClientID is sent with the password grant when the API expects one.
	ClientID string `env:"API_CLIENT_ID" envDefault:""`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	a.URL = strings.TrimRight(strings.TrimSpace(a.URL), "/")
	if a.URL == "" {
		a.URL = defaultAPIURL
	}
	if a.Timeout <= 0 {
		a.Timeout = defaultAPITimeout
	}
	if a.Timeout > maxAPITimeout {
		a.Timeout = maxAPITimeout
	}
	a.ClientID = strings.TrimSpace(a.ClientID)
}
