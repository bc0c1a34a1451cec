// Package testutil provides testing utilities and helpers for the console packages.
package testutil

import (
	"fmt"

	"github.com/target/appconsole/internal/domain/model"
)

// UserBuilder provides a fluent interface for building UserProfile values for testing.
type UserBuilder struct {
	user model.UserProfile
}

// NewUser creates a UserBuilder for an active regular user with the given ID.
func NewUser(id int) *UserBuilder {
	return &UserBuilder{
		user: model.UserProfile{
			ID:       id,
			Email:    fmt.Sprintf("user%d@example.com", id),
			IsActive: true,
		},
	}
}

// WithEmail sets the email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// WithFullName sets the full name.
func (b *UserBuilder) WithFullName(name string) *UserBuilder {
	b.user.FullName = name
	return b
}

// Superuser marks the user as a superuser.
func (b *UserBuilder) Superuser() *UserBuilder {
	b.user.IsSuperuser = true
	return b
}

// Inactive marks the user as inactive.
func (b *UserBuilder) Inactive() *UserBuilder {
	b.user.IsActive = false
	return b
}

// Build returns the constructed UserProfile.
func (b *UserBuilder) Build() model.UserProfile {
	return b.user
}

// UserUpdateBuilder provides a fluent interface for building partial user updates.
type UserUpdateBuilder struct {
	update model.UserProfileUpdate
}

// NewUserUpdate creates an empty UserUpdateBuilder.
func NewUserUpdate() *UserUpdateBuilder {
	return &UserUpdateBuilder{}
}

// WithEmail sets the email.
func (b *UserUpdateBuilder) WithEmail(email string) *UserUpdateBuilder {
	b.update.Email = StringPtr(email)
	return b
}

// WithFullName sets the full name.
func (b *UserUpdateBuilder) WithFullName(name string) *UserUpdateBuilder {
	b.update.FullName = StringPtr(name)
	return b
}

// WithPassword sets the password.
func (b *UserUpdateBuilder) WithPassword(password string) *UserUpdateBuilder {
	b.update.Password = StringPtr(password)
	return b
}

// WithActive sets the active flag.
func (b *UserUpdateBuilder) WithActive(active bool) *UserUpdateBuilder {
	b.update.IsActive = BoolPtr(active)
	return b
}

// WithSuperuser sets the superuser flag.
func (b *UserUpdateBuilder) WithSuperuser(superuser bool) *UserUpdateBuilder {
	b.update.IsSuperuser = BoolPtr(superuser)
	return b
}

// Build returns the constructed UserProfileUpdate.
func (b *UserUpdateBuilder) Build() model.UserProfileUpdate {
	return b.update
}
