package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/appconsole/internal/domain/model"
	apperrors "github.com/target/appconsole/internal/errors"
	"github.com/target/appconsole/internal/mocks/auth"
)

// newIdentityServer starts a fake identity provider serving discovery, token and userinfo.
func newIdentityServer(t *testing.T, userInfo map[string]any) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/auth",
			"token_endpoint":         srv.URL + "/token",
			"userinfo_endpoint":      srv.URL + "/userinfo",
			"jwks_uri":               srv.URL + "/jwks",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("grant_type") != "password" || r.PostForm.Get("password") != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid user credentials",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "oidc-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer oidc-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userInfo)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T, srv *httptest.Server, claims ClaimMapping) *Provider {
	t.Helper()
	p, err := NewProvider(context.Background(), ProviderConfig{
		ClientID:     "console",
		DiscoveryURL: srv.URL + "/.well-known/openid-configuration",
		Claims:       claims,
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_Discovery(t *testing.T) {
	srv := newIdentityServer(t, nil)
	p := newTestProvider(t, srv, ClaimMapping{})
	assert.Equal(t, srv.URL+"/token", p.TokenURL())
	assert.Equal(t, []string{"openid", "profile", "email"}, p.config.Scopes)
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
		errMsg string
	}{
		{
			name:   "missing client ID",
			config: ProviderConfig{DiscoveryURL: "http://example.com"},
			errMsg: "client ID is required",
		},
		{
			name:   "missing discovery URL",
			config: ProviderConfig{ClientID: "client"},
			errMsg: "discovery URL is required",
		},
		{
			name: "bad claim expression",
			config: ProviderConfig{
				ClientID:     "client",
				DiscoveryURL: "http://example.com",
				Claims:       ClaimMapping{Email: "email ||"},
			},
			errMsg: "invalid email claim expression",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_LogInGetToken(t *testing.T) {
	srv := newIdentityServer(t, nil)
	p := newTestProvider(t, srv, ClaimMapping{})

	tok, err := p.LogInGetToken(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "oidc-token", tok.AccessToken)
	assert.False(t, tok.ExpiresAt.IsZero())

	_, err = p.LogInGetToken(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "Invalid user credentials")
}

func TestProvider_GetMe_DefaultClaims(t *testing.T) {
	srv := newIdentityServer(t, map[string]any{
		"sub":            "abc",
		"id":             55,
		"email":          "alice@example.com",
		"given_name":     "Alice",
		"family_name":    "Smith",
		"email_verified": true,
		"groups":         []string{"users", "admins"},
	})
	p := newTestProvider(t, srv, ClaimMapping{})

	profile, err := p.GetMe(context.Background(), "oidc-token")
	require.NoError(t, err)
	assert.Equal(t, model.UserProfile{
		ID:          55,
		Email:       "alice@example.com",
		FullName:    "Alice Smith",
		IsActive:    true,
		IsSuperuser: true,
	}, profile)
}

func TestProvider_GetMe_CustomClaims(t *testing.T) {
	srv := newIdentityServer(t, map[string]any{
		"employee_id": "42",
		"mail":        "bob@example.com",
		"display":     "Bob",
		"disabled":    false,
		"roles":       []string{"viewer"},
	})
	p := newTestProvider(t, srv, ClaimMapping{
		ID:          "employee_id",
		Email:       "mail",
		FullName:    "display",
		IsActive:    "!disabled",
		IsSuperuser: "contains(roles, 'owner')",
	})

	profile, err := p.GetMe(context.Background(), "oidc-token")
	require.NoError(t, err)
	assert.Equal(t, 42, profile.ID)
	assert.Equal(t, "bob@example.com", profile.Email)
	assert.Equal(t, "Bob", profile.FullName)
	assert.True(t, profile.IsActive)
	assert.False(t, profile.IsSuperuser)
}

func TestProvider_GetMe_BadToken(t *testing.T) {
	srv := newIdentityServer(t, map[string]any{})
	p := newTestProvider(t, srv, ClaimMapping{})

	_, err := p.GetMe(context.Background(), "stale")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestProvider_DelegatesUserResources(t *testing.T) {
	srv := newIdentityServer(t, nil)

	users := &auth.MockAPI{
		GetUsersFunc: func(_ context.Context, token string) ([]model.UserProfile, error) {
			assert.Equal(t, "tok", token)
			return []model.UserProfile{{ID: 1}}, nil
		},
	}
	p, err := NewProvider(context.Background(), ProviderConfig{
		ClientID:     "console",
		DiscoveryURL: srv.URL,
		Users:        users,
	})
	require.NoError(t, err)

	got, err := p.GetUsers(context.Background(), "tok")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, users.Calls("GetUsers"))
}

func TestProvider_WithoutUsers(t *testing.T) {
	srv := newIdentityServer(t, nil)
	p := newTestProvider(t, srv, ClaimMapping{})
	ctx := context.Background()

	_, err := p.GetUsers(ctx, "tok")
	assert.True(t, apperrors.IsForbidden(err))
	_, err = p.UpdateMe(ctx, "tok", model.UserProfileUpdate{})
	assert.True(t, apperrors.IsForbidden(err))
	_, err = p.UpdateUser(ctx, "tok", 1, model.UserProfileUpdate{})
	assert.True(t, apperrors.IsForbidden(err))
	_, err = p.CreateUser(ctx, "tok", model.UserProfileCreate{})
	assert.True(t, apperrors.IsForbidden(err))
	assert.True(t, apperrors.IsForbidden(p.PasswordRecovery(ctx, "a@example.com")))
	assert.True(t, apperrors.IsForbidden(p.ResetPassword(ctx, "pw", "tok")))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Empty(t, firstNonEmpty("", ""))
}
