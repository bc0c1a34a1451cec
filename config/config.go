package config

import (
	"os"
	"strings"
)

// AppConfig is the main console configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: REST API client configuration
//   - auth.go: Authentication mode and provider configuration
//   - storage.go: Token persistence and Redis configuration
//   - ui.go: Routes and notification behavior
//   - log.go: Logging configuration
type AppConfig struct {
	// IsDev controls development mode behavior (text logs, mock auth allowed).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// API client configuration
	API APIConfig

	// Authentication configuration
	Auth AuthConfig

	// Token persistence configuration
	TokenStore TokenStoreConfig
	Redis      RedisConfig `envPrefix:"REDIS_"`

	// Console routes and notifications
	UI UIConfig

	// Logging configuration
	Log LogConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Auth.Sanitize()
	c.TokenStore.Sanitize()
	c.UI.Sanitize()
	c.Log.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// UsesRedis reports whether the console needs a Redis connection.
func (c *AppConfig) UsesRedis() bool {
	return c.TokenStore.Kind == TokenStoreRedis
}
