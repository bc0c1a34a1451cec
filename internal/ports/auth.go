// Package ports defines interfaces (hexagonal ports) for the console's collaborators.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"

	domainauth "github.com/target/appconsole/internal/domain/auth"
	"github.com/target/appconsole/internal/domain/model"
)

// AuthAPI trades credentials for a bearer token.
type AuthAPI interface {
	// LogInGetToken performs the credential exchange for username and password.
	LogInGetToken(ctx context.Context, username, password string) (domainauth.Token, error)
}

// UserAPI exposes the user resources of the remote API. All calls carry the bearer token.
type UserAPI interface {
	GetMe(ctx context.Context, token string) (model.UserProfile, error)
	UpdateMe(ctx context.Context, token string, update model.UserProfileUpdate) (model.UserProfile, error)
	GetUsers(ctx context.Context, token string) ([]model.UserProfile, error)
	UpdateUser(ctx context.Context, token string, id int, update model.UserProfileUpdate) (model.UserProfile, error)
	CreateUser(ctx context.Context, token string, create model.UserProfileCreate) (model.UserProfile, error)
	PasswordRecovery(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, newPassword, resetToken string) error
}

// API is the full remote API surface consumed by the console.
type API interface {
	AuthAPI
	UserAPI
}

// Navigator moves the console between named routes.
type Navigator interface {
	Navigate(route string)
	CurrentRoute() string
}

// TokenStore persists the bearer token across console runs.
// Load returns an empty string and no error when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}
