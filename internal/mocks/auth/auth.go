// Package auth contains simple hand-written test doubles for the console's ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"slices"
	"sync"

	domainauth "github.com/target/appconsole/internal/domain/auth"
	"github.com/target/appconsole/internal/domain/model"
	"github.com/target/appconsole/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.API        = (*MockAPI)(nil)
	_ ports.Navigator  = (*RecordingNavigator)(nil)
	_ ports.TokenStore = (*MockTokenStore)(nil)
)

// MockAPI simulates the remote API. Each method calls its Func field when set and otherwise
// answers from the Default* fields. Calls are counted per method name.
type MockAPI struct {
	LogInGetTokenFunc    func(ctx context.Context, username, password string) (domainauth.Token, error)
	GetMeFunc            func(ctx context.Context, token string) (model.UserProfile, error)
	UpdateMeFunc         func(ctx context.Context, token string, update model.UserProfileUpdate) (model.UserProfile, error)
	GetUsersFunc         func(ctx context.Context, token string) ([]model.UserProfile, error)
	UpdateUserFunc       func(ctx context.Context, token string, id int, update model.UserProfileUpdate) (model.UserProfile, error)
	CreateUserFunc       func(ctx context.Context, token string, create model.UserProfileCreate) (model.UserProfile, error)
	PasswordRecoveryFunc func(ctx context.Context, email string) error
	ResetPasswordFunc    func(ctx context.Context, newPassword, resetToken string) error

	// Deterministic values for predictable testing
	DefaultToken   string
	DefaultProfile model.UserProfile
	DefaultUsers   []model.UserProfile

	mu    sync.Mutex
	calls map[string]int
}

// ErrNotConfigured is returned by MockAPI methods that have neither a Func nor a default.
var ErrNotConfigured = errors.New("mock: not configured")

// NewMockAPI creates a MockAPI with sensible defaults.
func NewMockAPI() *MockAPI {
	return &MockAPI{
		DefaultToken: "mock-token",
		DefaultProfile: model.UserProfile{
			ID:       1,
			Email:    "mock.user@example.com",
			FullName: "Mock User",
			IsActive: true,
		},
	}
}

func (m *MockAPI) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (m *MockAPI) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *MockAPI) LogInGetToken(ctx context.Context, username, password string) (domainauth.Token, error) {
	m.record("LogInGetToken")
	if m.LogInGetTokenFunc != nil {
		return m.LogInGetTokenFunc(ctx, username, password)
	}
	if m.DefaultToken == "" {
		return domainauth.Token{}, ErrNotConfigured
	}
	return domainauth.Token{AccessToken: m.DefaultToken, TokenType: "bearer"}, nil
}

func (m *MockAPI) GetMe(ctx context.Context, token string) (model.UserProfile, error) {
	m.record("GetMe")
	if m.GetMeFunc != nil {
		return m.GetMeFunc(ctx, token)
	}
	if m.DefaultProfile.ID == 0 {
		return model.UserProfile{}, ErrNotConfigured
	}
	return m.DefaultProfile, nil
}

func (m *MockAPI) UpdateMe(
	ctx context.Context,
	token string,
	update model.UserProfileUpdate,
) (model.UserProfile, error) {
	m.record("UpdateMe")
	if m.UpdateMeFunc != nil {
		return m.UpdateMeFunc(ctx, token, update)
	}
	return update.Apply(m.DefaultProfile), nil
}

func (m *MockAPI) GetUsers(ctx context.Context, token string) ([]model.UserProfile, error) {
	m.record("GetUsers")
	if m.GetUsersFunc != nil {
		return m.GetUsersFunc(ctx, token)
	}
	return slices.Clone(m.DefaultUsers), nil
}

func (m *MockAPI) UpdateUser(
	ctx context.Context,
	token string,
	id int,
	update model.UserProfileUpdate,
) (model.UserProfile, error) {
	m.record("UpdateUser")
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, token, id, update)
	}
	return update.Apply(model.UserProfile{ID: id}), nil
}

func (m *MockAPI) CreateUser(
	ctx context.Context,
	token string,
	create model.UserProfileCreate,
) (model.UserProfile, error) {
	m.record("CreateUser")
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, token, create)
	}
	out := model.UserProfile{ID: len(m.DefaultUsers) + 1, Email: create.Email, FullName: create.FullName}
	if create.IsActive != nil {
		out.IsActive = *create.IsActive
	}
	if create.IsSuperuser != nil {
		out.IsSuperuser = *create.IsSuperuser
	}
	return out, nil
}

func (m *MockAPI) PasswordRecovery(ctx context.Context, email string) error {
	m.record("PasswordRecovery")
	if m.PasswordRecoveryFunc != nil {
		return m.PasswordRecoveryFunc(ctx, email)
	}
	return nil
}

func (m *MockAPI) ResetPassword(ctx context.Context, newPassword, resetToken string) error {
	m.record("ResetPassword")
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, newPassword, resetToken)
	}
	return nil
}

// RecordingNavigator records every route it is asked to navigate to.
// Unlike the real router it does not skip navigation to the current route.
type RecordingNavigator struct {
	mu      sync.Mutex
	Current string
	routes  []string
}

func (n *RecordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
	n.Current = route
}

func (n *RecordingNavigator) CurrentRoute() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.Current
}

// SetCurrent sets the current route without recording a navigation.
func (n *RecordingNavigator) SetCurrent(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Current = route
}

// Routes returns the recorded navigations in call order.
func (n *RecordingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.routes)
}

// MockTokenStore is an in-memory TokenStore whose operations can be made to fail.
type MockTokenStore struct {
	mu      sync.Mutex
	Token   string
	LoadErr error
	SaveErr error
	DelErr  error
	Saves   int
	Deletes int
}

func (s *MockTokenStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return "", s.LoadErr
	}
	return s.Token, nil
}

func (s *MockTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Token = token
	return nil
}

func (s *MockTokenStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deletes++
	if s.DelErr != nil {
		return s.DelErr
	}
	s.Token = ""
	return nil
}

// Stored returns the currently held token.
func (s *MockTokenStore) Stored() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Token
}
