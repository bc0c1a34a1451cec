//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxFullNameLen  = 255
	minPasswordLen  = 8
	maxPasswordLen  = 128
	maxEmailAddrLen = 320
)

// UserProfile is the identity record returned by the users API.
type UserProfile struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// HasAdminAccess reports whether the profile may use admin views.
func (u *UserProfile) HasAdminAccess() bool {
	return u != nil && u.IsActive && u.IsSuperuser
}

// Clone returns a copy of the profile, or nil.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// UserProfileUpdate carries a partial update; nil fields are left untouched.
type UserProfileUpdate struct {
	Email       *string `json:"email,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	Password    *string `json:"password,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
}

// Normalize trims string fields in place.
func (r *UserProfileUpdate) Normalize() {
	if r.Email != nil {
		normalized := strings.TrimSpace(strings.ToLower(*r.Email))
		r.Email = &normalized
	}
	if r.FullName != nil {
		normalized := strings.TrimSpace(*r.FullName)
		r.FullName = &normalized
	}
}

// Validate validates the UserProfileUpdate fields.
func (r *UserProfileUpdate) Validate() error {
	hasUpdate := r.Email != nil || r.FullName != nil || r.Password != nil || r.IsActive != nil ||
		r.IsSuperuser != nil
	if !hasUpdate {
		return errors.New("at least one field must be updated")
	}
	if r.Email != nil {
		if err := validateEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.FullName != nil && utf8.RuneCountInString(*r.FullName) > maxFullNameLen {
		return errors.New("full_name cannot exceed 255 characters")
	}
	if r.Password != nil {
		if err := validatePassword(*r.Password); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns a copy of base with the update applied.
func (r *UserProfileUpdate) Apply(base UserProfile) UserProfile {
	if r.Email != nil {
		base.Email = *r.Email
	}
	if r.FullName != nil {
		base.FullName = *r.FullName
	}
	if r.IsActive != nil {
		base.IsActive = *r.IsActive
	}
	if r.IsSuperuser != nil {
		base.IsSuperuser = *r.IsSuperuser
	}
	return base
}

// UserProfileCreate is the payload for creating a user from the admin views.
type UserProfileCreate struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	Password    string `json:"password,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`   // Defaults to true
	IsSuperuser *bool  `json:"is_superuser,omitempty"` // Defaults to false
}

// Normalize trims fields and fills defaults.
func (r *UserProfileCreate) Normalize() {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
	if r.IsActive == nil {
		active := true
		r.IsActive = &active
	}
	if r.IsSuperuser == nil {
		superuser := false
		r.IsSuperuser = &superuser
	}
}

// Validate validates the UserProfileCreate fields.
func (r *UserProfileCreate) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if utf8.RuneCountInString(r.FullName) > maxFullNameLen {
		return errors.New("full_name cannot exceed 255 characters")
	}
	if r.Password != "" {
		return validatePassword(r.Password)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required and cannot be empty")
	}
	if len(email) > maxEmailAddrLen {
		return errors.New("email cannot exceed 320 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email must be a valid address")
	}
	return nil
}

func validatePassword(pw string) error {
	n := utf8.RuneCountInString(pw)
	if n < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	if n > maxPasswordLen {
		return errors.New("password cannot exceed 128 characters")
	}
	return nil
}
