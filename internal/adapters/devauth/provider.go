// Package devauth provides a config-driven, in-memory API for local development and demos.
package devauth

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/appconsole/internal/domain/auth"
	"github.com/target/appconsole/internal/domain/model"
	apperrors "github.com/target/appconsole/internal/errors"
	"github.com/target/appconsole/internal/ports"
)

// Config controls the dev provider behavior.
// Email and Password are required; the configured user is always an active superuser
// unless Superuser is explicitly disabled with RegularUser.
type Config struct {
	Email         string
	Password      string
	FullName      string
	RegularUser   bool
	TokenDuration time.Duration // default 8h when zero
}

type devUser struct {
	profile  model.UserProfile
	password string
}

type issuedToken struct {
	userID    int
	expiresAt time.Time
}

// Provider implements ports.API without a server. It behaves like the real API closely enough
// for the console to be driven end to end: bad credentials and unknown tokens fail with the
// same error codes the API returns.
type Provider struct {
	mu            sync.Mutex
	users         map[int]*devUser
	nextID        int
	tokens        map[string]issuedToken
	resets        map[string]int
	tokenDuration time.Duration
	now           func() time.Time
}

var _ ports.API = (*Provider)(nil)

// NewProvider constructs a dev provider seeded with the configured user.
func NewProvider(cfg Config) (*Provider, error) {
	email := strings.TrimSpace(strings.ToLower(cfg.Email))
	if email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	if cfg.Password == "" {
		return nil, errors.New("dev auth: Password is required")
	}
	dur := cfg.TokenDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	p := &Provider{
		users:         make(map[int]*devUser),
		nextID:        1,
		tokens:        make(map[string]issuedToken),
		resets:        make(map[string]int),
		tokenDuration: dur,
		now:           time.Now,
	}
	p.addUser(model.UserProfile{
		Email:       email,
		FullName:    strings.TrimSpace(cfg.FullName),
		IsActive:    true,
		IsSuperuser: !cfg.RegularUser,
	}, cfg.Password)
	return p, nil
}

func (p *Provider) addUser(profile model.UserProfile, password string) model.UserProfile {
	profile.ID = p.nextID
	p.nextID++
	p.users[profile.ID] = &devUser{profile: profile, password: password}
	return profile
}

func (p *Provider) LogInGetToken(_ context.Context, username, password string) (domainauth.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	email := strings.TrimSpace(strings.ToLower(username))
	for _, u := range p.users {
		if u.profile.Email != email || u.password != password {
			continue
		}
		if !u.profile.IsActive {
			return domainauth.Token{}, apiError(http.StatusBadRequest, "Inactive user")
		}
		tok := domainauth.Token{
			AccessToken: uuid.NewString(),
			TokenType:   "bearer",
			ExpiresAt:   p.now().Add(p.tokenDuration),
		}
		p.tokens[tok.AccessToken] = issuedToken{userID: u.profile.ID, expiresAt: tok.ExpiresAt}
		return tok, nil
	}
	return domainauth.Token{}, apiError(http.StatusBadRequest, "Incorrect email or password")
}

// authenticate resolves token to its user; the caller holds p.mu.
func (p *Provider) authenticate(token string) (*devUser, error) {
	issued, ok := p.tokens[token]
	if !ok || !p.now().Before(issued.expiresAt) {
		delete(p.tokens, token)
		return nil, apiError(http.StatusForbidden, "Could not validate credentials")
	}
	u, ok := p.users[issued.userID]
	if !ok {
		return nil, apiError(http.StatusNotFound, "User not found")
	}
	if !u.profile.IsActive {
		return nil, apiError(http.StatusBadRequest, "Inactive user")
	}
	return u, nil
}

func (p *Provider) authenticateSuperuser(token string) error {
	u, err := p.authenticate(token)
	if err != nil {
		return err
	}
	if !u.profile.IsSuperuser {
		return apiError(http.StatusBadRequest, "The user doesn't have enough privileges")
	}
	return nil
}

func (p *Provider) GetMe(_ context.Context, token string) (model.UserProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, err := p.authenticate(token)
	if err != nil {
		return model.UserProfile{}, err
	}
	return u.profile, nil
}

func (p *Provider) UpdateMe(
	_ context.Context,
	token string,
	update model.UserProfileUpdate,
) (model.UserProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, err := p.authenticate(token)
	if err != nil {
		return model.UserProfile{}, err
	}
	// Privilege flags cannot be changed through the self-service endpoint.
	update.IsActive, update.IsSuperuser = nil, nil
	return p.applyUpdate(u, update)
}

func (p *Provider) GetUsers(_ context.Context, token string) ([]model.UserProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.authenticateSuperuser(token); err != nil {
		return nil, err
	}
	out := make([]model.UserProfile, 0, len(p.users))
	for _, u := range p.users {
		out = append(out, u.profile)
	}
	slices.SortFunc(out, func(a, b model.UserProfile) int { return a.ID - b.ID })
	return out, nil
}

func (p *Provider) UpdateUser(
	_ context.Context,
	token string,
	id int,
	update model.UserProfileUpdate,
) (model.UserProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.authenticateSuperuser(token); err != nil {
		return model.UserProfile{}, err
	}
	u, ok := p.users[id]
	if !ok {
		return model.UserProfile{}, apiError(http.StatusNotFound, "The user with this username does not exist in the system")
	}
	return p.applyUpdate(u, update)
}

// applyUpdate validates and applies update to u; the caller holds p.mu.
func (p *Provider) applyUpdate(u *devUser, update model.UserProfileUpdate) (model.UserProfile, error) {
	update.Normalize()
	if err := update.Validate(); err != nil {
		return model.UserProfile{}, apiError(http.StatusUnprocessableEntity, err.Error())
	}
	if update.Email != nil && p.emailTaken(*update.Email, u.profile.ID) {
		return model.UserProfile{}, apiError(http.StatusConflict, "User with this email already exists")
	}
	u.profile = update.Apply(u.profile)
	if update.Password != nil {
		u.password = *update.Password
	}
	return u.profile, nil
}

func (p *Provider) CreateUser(
	_ context.Context,
	token string,
	create model.UserProfileCreate,
) (model.UserProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.authenticateSuperuser(token); err != nil {
		return model.UserProfile{}, err
	}
	create.Normalize()
	if err := create.Validate(); err != nil {
		return model.UserProfile{}, apiError(http.StatusUnprocessableEntity, err.Error())
	}
	if p.emailTaken(create.Email, 0) {
		return model.UserProfile{}, apiError(http.StatusBadRequest, "The user with this username already exists in the system.")
	}
	return p.addUser(model.UserProfile{
		Email:       create.Email,
		FullName:    create.FullName,
		IsActive:    *create.IsActive,
		IsSuperuser: *create.IsSuperuser,
	}, create.Password), nil
}

func (p *Provider) emailTaken(email string, exceptID int) bool {
	for id, u := range p.users {
		if id != exceptID && u.profile.Email == email {
			return true
		}
	}
	return false
}

// PasswordRecovery issues a reset token for email. The token is only retrievable through
// ResetTokenFor since there is no mail delivery.
func (p *Provider) PasswordRecovery(_ context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	email = strings.TrimSpace(strings.ToLower(email))
	for _, u := range p.users {
		if u.profile.Email == email {
			p.resets[uuid.NewString()] = u.profile.ID
			return nil
		}
	}
	return apiError(http.StatusNotFound, "The user with this username does not exist in the system.")
}

// ResetTokenFor returns an outstanding reset token for email, if any.
func (p *Provider) ResetTokenFor(email string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	email = strings.TrimSpace(strings.ToLower(email))
	for tok, id := range p.resets {
		if u, ok := p.users[id]; ok && u.profile.Email == email {
			return tok, true
		}
	}
	return "", false
}

func (p *Provider) ResetPassword(_ context.Context, newPassword, resetToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.resets[resetToken]
	if !ok {
		return apiError(http.StatusBadRequest, "Invalid token")
	}
	u, ok := p.users[id]
	if !ok {
		return apiError(http.StatusNotFound, "The user with this username does not exist in the system.")
	}
	pw := newPassword
	check := model.UserProfileUpdate{Password: &pw}
	if err := check.Validate(); err != nil {
		return apiError(http.StatusUnprocessableEntity, err.Error())
	}
	u.password = newPassword
	delete(p.resets, resetToken)
	return nil
}

func apiError(status int, detail string) *apperrors.AppError {
	appErr := apperrors.FromHTTPStatus(status, nil)
	appErr.Message = detail
	return appErr
}
