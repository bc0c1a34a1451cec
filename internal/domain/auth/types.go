// Package auth contains domain-level types for console authentication and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"fmt"
	"strings"
	"time"
)

// LoginState is the session's position in the login lifecycle.
// Unknown is the initial value before any login check has completed.
type LoginState int

const (
	StateUnknown LoginState = iota
	StateLoggedIn
	StateLoggedOut
)

// String implements fmt.Stringer.
func (s LoginState) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateLoggedIn:
		return "logged_in"
	case StateLoggedOut:
		return "logged_out"
	default:
		return fmt.Sprintf("LoginState(%d)", int(s))
	}
}

// IsLoggedIn reports whether the state is StateLoggedIn.
func (s LoginState) IsLoggedIn() bool { return s == StateLoggedIn }

// Token is the bearer credential returned by a credential exchange.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
}

// Valid reports whether the token carries a usable access token.
// A token without expiry never expires client-side.
func (t Token) Valid() bool {
	if strings.TrimSpace(t.AccessToken) == "" {
		return false
	}
	return t.ExpiresAt.IsZero() || time.Now().Before(t.ExpiresAt)
}

// Credentials is a username/password pair for the password grant.
type Credentials struct {
	Username string
	Password string
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
