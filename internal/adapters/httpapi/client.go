// Package httpapi implements the console's API ports against the application's REST API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/target/appconsole/internal/domain/auth"
	"github.com/target/appconsole/internal/domain/model"
	apperrors "github.com/target/appconsole/internal/errors"
	"github.com/target/appconsole/internal/ports"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"
)

const (
	apiPrefix       = "/api/v1"
	loginPath       = apiPrefix + "/login/access-token"
	usersPath       = apiPrefix + "/users/"
	mePath          = apiPrefix + "/users/me"
	recoveryPath    = apiPrefix + "/password-recovery/"
	resetPath       = apiPrefix + "/reset-password/"
	maxErrorBodyLen = 64 << 10
)

// Client talks to the REST API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	oauth      *oauth2.Config
}

// ClientConfig holds configuration for the API client.
type ClientConfig struct {
	BaseURL    string
	ClientID   string
	Timeout    time.Duration
	HTTPClient *http.Client // Optional; a client with a cookie jar is built when nil
}

var _ ports.API = (*Client)(nil)

// NewClient creates a new API client.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		jar, jarErr := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if jarErr != nil {
			return nil, fmt.Errorf("cookie jar: %w", jarErr)
		}
		httpClient = &http.Client{Timeout: timeout, Jar: jar}
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		oauth: &oauth2.Config{
			ClientID: cfg.ClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  base + loginPath,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}, nil
}

// LogInGetToken exchanges username and password for a bearer token using the OAuth2 password grant.
func (c *Client) LogInGetToken(ctx context.Context, username, password string) (domainauth.Token, error) {
	creds := domainauth.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return domainauth.Token{}, apperrors.Validation(err.Error())
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.oauth.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return domainauth.Token{}, tokenError(err)
	}
	return fromOAuthToken(tok), nil
}

func (c *Client) GetMe(ctx context.Context, token string) (model.UserProfile, error) {
	var out model.UserProfile
	err := c.do(ctx, token, http.MethodGet, mePath, nil, &out)
	return out, err
}

func (c *Client) UpdateMe(
	ctx context.Context,
	token string,
	update model.UserProfileUpdate,
) (model.UserProfile, error) {
	var out model.UserProfile
	err := c.do(ctx, token, http.MethodPut, mePath, update, &out)
	return out, err
}

func (c *Client) GetUsers(ctx context.Context, token string) ([]model.UserProfile, error) {
	var out []model.UserProfile
	if err := c.do(ctx, token, http.MethodGet, usersPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateUser(
	ctx context.Context,
	token string,
	id int,
	update model.UserProfileUpdate,
) (model.UserProfile, error) {
	var out model.UserProfile
	err := c.do(ctx, token, http.MethodPut, usersPath+strconv.Itoa(id), update, &out)
	return out, err
}

func (c *Client) CreateUser(
	ctx context.Context,
	token string,
	create model.UserProfileCreate,
) (model.UserProfile, error) {
	var out model.UserProfile
	err := c.do(ctx, token, http.MethodPost, usersPath, create, &out)
	return out, err
}

func (c *Client) PasswordRecovery(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	return c.do(ctx, "", http.MethodPost, recoveryPath+url.PathEscape(email), nil, nil)
}

func (c *Client) ResetPassword(ctx context.Context, newPassword, resetToken string) error {
	if resetToken == "" {
		return apperrors.ValidationField("token", "reset token is required")
	}
	body := struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}{Token: resetToken, NewPassword: newPassword}
	return c.do(ctx, "", http.MethodPost, resetPath, body, nil)
}

// do sends a JSON request and decodes a JSON response into out (when non-nil).
// A non-empty token is attached as a bearer credential.
func (c *Client) do(ctx context.Context, token, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.clientFor(ctx, token).Do(req)
	if err != nil {
		return apperrors.FromTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return apperrors.FromHTTPStatus(resp.StatusCode, raw)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode response")
	}
	return nil
}

// clientFor returns an http.Client that attaches token as a bearer credential.
func (c *Client) clientFor(ctx context.Context, token string) *http.Client {
	if token == "" {
		return c.httpClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	hc.Timeout = c.httpClient.Timeout
	hc.Jar = c.httpClient.Jar
	return hc
}

func fromOAuthToken(tok *oauth2.Token) domainauth.Token {
	tokenType := tok.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	return domainauth.Token{
		AccessToken: tok.AccessToken,
		TokenType:   tokenType,
		ExpiresAt:   tok.Expiry,
	}
}

// tokenError maps a failed credential exchange to an AppError, keeping the API's status and detail.
func tokenError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		appErr := apperrors.FromHTTPStatus(re.Response.StatusCode, re.Body)
		appErr.Cause = err
		return appErr
	}
	return apperrors.FromTransport(err)
}
