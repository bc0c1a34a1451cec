// Package oidc provides an OIDC-backed credential exchange and profile lookup for the console.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/target/appconsole/internal/domain/auth"
	"github.com/target/appconsole/internal/domain/model"
	apperrors "github.com/target/appconsole/internal/errors"
	"github.com/target/appconsole/internal/ports"
	"golang.org/x/oauth2"
)

// Default JMESPath expressions mapping UserInfo claims onto a UserProfile.
const (
	DefaultIDClaim          = "id || uid"
	DefaultEmailClaim       = "email || mail"
	DefaultFullNameClaim    = "name || join(' ', [given_name || '', family_name || ''])"
	DefaultIsActiveClaim    = "not_null(email_verified, `true`)"
	DefaultIsSuperuserClaim = "contains(groups || `[]`, 'admins')"
)

// ClaimMapping holds JMESPath expressions evaluated against the UserInfo claims.
// Empty fields fall back to the Default*Claim expressions.
type ClaimMapping struct {
	ID          string
	Email       string
	FullName    string
	IsActive    string
	IsSuperuser string
}

func (m ClaimMapping) withDefaults() ClaimMapping {
	m.ID = firstNonEmpty(strings.TrimSpace(m.ID), DefaultIDClaim)
	m.Email = firstNonEmpty(strings.TrimSpace(m.Email), DefaultEmailClaim)
	m.FullName = firstNonEmpty(strings.TrimSpace(m.FullName), DefaultFullNameClaim)
	m.IsActive = firstNonEmpty(strings.TrimSpace(m.IsActive), DefaultIsActiveClaim)
	m.IsSuperuser = firstNonEmpty(strings.TrimSpace(m.IsSuperuser), DefaultIsSuperuserClaim)
	return m
}

func (m ClaimMapping) validate() error {
	for name, expr := range map[string]string{
		"id":           m.ID,
		"email":        m.Email,
		"full_name":    m.FullName,
		"is_active":    m.IsActive,
		"is_superuser": m.IsSuperuser,
	} {
		if _, err := jmespath.Compile(expr); err != nil {
			return fmt.Errorf("invalid %s claim expression %q: %w", name, expr, err)
		}
	}
	return nil
}

// Provider implements ports.API on top of an OIDC provider: the password grant runs against the
// discovered token endpoint and GetMe reads the UserInfo endpoint. The remaining user resources
// are delegated to Users.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client
	claims     ClaimMapping
	users      ports.UserAPI

	oidcProvider *gooidc.Provider
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string
	Claims       ClaimMapping
	// Users serves the user resources the identity provider does not own (optional).
	Users      ports.UserAPI
	HTTPClient *http.Client // Optional, defaults to a client with a 30s timeout
}

var _ ports.API = (*Provider)(nil)

// NewProvider creates a new OIDC provider. It performs discovery once.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	claims := config.Claims.withDefaults()
	if err := claims.validate(); err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	scope := config.Scope
	if strings.TrimSpace(scope) == "" {
		scope = "openid profile email"
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scopes:       strings.Fields(scope),
			Endpoint:     op.Endpoint(),
		},
		httpClient:   httpClient,
		claims:       claims,
		users:        config.Users,
		oidcProvider: op,
	}, nil
}

// TokenURL returns the discovered token endpoint.
func (p *Provider) TokenURL() string { return p.config.Endpoint.TokenURL }

func (p *Provider) LogInGetToken(ctx context.Context, username, password string) (domainauth.Token, error) {
	creds := domainauth.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return domainauth.Token{}, apperrors.Validation(err.Error())
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.config.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			appErr := apperrors.FromHTTPStatus(re.Response.StatusCode, re.Body)
			if re.ErrorDescription != "" {
				appErr.Message = re.ErrorDescription
			}
			appErr.Cause = err
			return domainauth.Token{}, appErr
		}
		return domainauth.Token{}, apperrors.FromTransport(err)
	}

	return domainauth.Token{
		AccessToken: tok.AccessToken,
		TokenType:   firstNonEmpty(tok.TokenType, "bearer"),
		ExpiresAt:   tok.Expiry,
	}, nil
}

// GetMe fetches the UserInfo claims for token and maps them onto a profile.
func (p *Provider) GetMe(ctx context.Context, token string) (model.UserProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.UserProfile{}, apperrors.FromTransport(ctxErr)
		}
		return model.UserProfile{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "fetch user info")
	}

	var claims map[string]any
	if claimsErr := ui.Claims(&claims); claimsErr != nil {
		return model.UserProfile{}, apperrors.Wrap(claimsErr, apperrors.ErrCodeInternal, "decode user info")
	}
	return p.profileFromClaims(claims)
}

func (p *Provider) profileFromClaims(claims map[string]any) (model.UserProfile, error) {
	var (
		profile model.UserProfile
		err     error
	)
	if profile.ID, err = searchInt(p.claims.ID, claims); err != nil {
		return model.UserProfile{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "map id claim")
	}
	if profile.Email, err = searchString(p.claims.Email, claims); err != nil {
		return model.UserProfile{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "map email claim")
	}
	if profile.FullName, err = searchString(p.claims.FullName, claims); err != nil {
		return model.UserProfile{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "map full_name claim")
	}
	if profile.IsActive, err = searchBool(p.claims.IsActive, claims); err != nil {
		return model.UserProfile{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "map is_active claim")
	}
	if profile.IsSuperuser, err = searchBool(p.claims.IsSuperuser, claims); err != nil {
		return model.UserProfile{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "map is_superuser claim")
	}
	profile.FullName = strings.TrimSpace(profile.FullName)
	return profile, nil
}

func (p *Provider) UpdateMe(
	ctx context.Context,
	token string,
	update model.UserProfileUpdate,
) (model.UserProfile, error) {
	if p.users == nil {
		return model.UserProfile{}, errUnsupported("update profile")
	}
	return p.users.UpdateMe(ctx, token, update)
}

func (p *Provider) GetUsers(ctx context.Context, token string) ([]model.UserProfile, error) {
	if p.users == nil {
		return nil, errUnsupported("list users")
	}
	return p.users.GetUsers(ctx, token)
}

func (p *Provider) UpdateUser(
	ctx context.Context,
	token string,
	id int,
	update model.UserProfileUpdate,
) (model.UserProfile, error) {
	if p.users == nil {
		return model.UserProfile{}, errUnsupported("update user")
	}
	return p.users.UpdateUser(ctx, token, id, update)
}

func (p *Provider) CreateUser(
	ctx context.Context,
	token string,
	create model.UserProfileCreate,
) (model.UserProfile, error) {
	if p.users == nil {
		return model.UserProfile{}, errUnsupported("create user")
	}
	return p.users.CreateUser(ctx, token, create)
}

func (p *Provider) PasswordRecovery(ctx context.Context, email string) error {
	if p.users == nil {
		return errUnsupported("password recovery")
	}
	return p.users.PasswordRecovery(ctx, email)
}

func (p *Provider) ResetPassword(ctx context.Context, newPassword, resetToken string) error {
	if p.users == nil {
		return errUnsupported("password reset")
	}
	return p.users.ResetPassword(ctx, newPassword, resetToken)
}

func errUnsupported(op string) *apperrors.AppError {
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeForbidden,
		Message: op + " is not supported by the identity provider",
	}
}

func searchString(expr string, data any) (string, error) {
	v, err := jmespath.Search(expr, data)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return fmt.Sprint(t), nil
	}
}

func searchInt(expr string, data any) (int, error) {
	v, err := jmespath.Search(expr, data)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("value %v is not an integer", t)
		}
		return int(t), nil
	case string:
		n, convErr := strconv.Atoi(strings.TrimSpace(t))
		if convErr != nil {
			return 0, fmt.Errorf("value %q is not an integer", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected %T for integer claim", v)
	}
}

func searchBool(expr string, data any) (bool, error) {
	v, err := jmespath.Search(expr, data)
	if err != nil {
		return false, err
	}
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case string:
		b, convErr := strconv.ParseBool(strings.TrimSpace(t))
		if convErr != nil {
			return false, fmt.Errorf("value %q is not a boolean", t)
		}
		return b, nil
	default:
		return false, fmt.Errorf("unexpected %T for boolean claim", v)
	}
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
