// Package state holds the console's in-process state container: the session slice,
// the admin slice and the Store that composes them.
//
// State is mutated only through the named mutation methods; accessors return copies
// so callers can never write through to the container.
package state

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	domainauth "github.com/target/appconsole/internal/domain/auth"
	"github.com/target/appconsole/internal/domain/model"
)

// Main is the session slice: credential, login lifecycle, cached profile, drawer flags
// and the notification queue.
type Main struct {
	mu sync.RWMutex

	loginState          domainauth.LoginState
	token               string
	logInError          bool
	userProfile         *model.UserProfile
	dashboardMiniDrawer bool
	dashboardShowDrawer bool
	notifications       []model.Notification
}

// MainSnapshot is a point-in-time copy of the session slice.
type MainSnapshot struct {
	LoginState          domainauth.LoginState
	Token               string
	LogInError          bool
	UserProfile         *model.UserProfile
	DashboardMiniDrawer bool
	DashboardShowDrawer bool
	Notifications       []model.Notification
}

// NewMain returns a session slice with application-start defaults.
func NewMain() *Main {
	return &Main{
		loginState:          domainauth.StateUnknown,
		dashboardShowDrawer: true,
	}
}

// SetToken replaces the held credential. An empty string clears it.
func (m *Main) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

// SetLoggedIn replaces the login state.
func (m *Main) SetLoggedIn(s domainauth.LoginState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginState = s
}

// SetLogInError replaces the login error flag.
func (m *Main) SetLogInError(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logInError = v
}

// SetUserProfile replaces the cached profile; nil means "not fetched".
func (m *Main) SetUserProfile(p *model.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userProfile = p.Clone()
}

// SetDashboardMiniDrawer toggles the compact navigation drawer.
func (m *Main) SetDashboardMiniDrawer(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dashboardMiniDrawer = v
}

// SetDashboardShowDrawer toggles navigation drawer visibility.
func (m *Main) SetDashboardShowDrawer(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dashboardShowDrawer = v
}

// AddNotification appends n to the queue and returns the queued entry.
// An entry without an ID is given one so it can be removed later.
func (m *Main) AddNotification(n model.Notification) model.Notification {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
	return n
}

// RemoveNotification removes the queued entry with n's ID. Unknown entries are ignored.
func (m *Main) RemoveNotification(n model.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = slices.DeleteFunc(m.notifications, func(q model.Notification) bool {
		return q.ID == n.ID
	})
}

// LoginState returns the current login state.
func (m *Main) LoginState() domainauth.LoginState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loginState
}

// IsLoggedIn reports whether a login check or login has completed successfully.
func (m *Main) IsLoggedIn() bool {
	return m.LoginState().IsLoggedIn()
}

// LoginError reports whether the last credential exchange failed.
func (m *Main) LoginError() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logInError
}

// Token returns the held credential, or "".
func (m *Main) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// UserProfile returns a copy of the cached profile, or nil.
func (m *Main) UserProfile() *model.UserProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userProfile.Clone()
}

// HasAdminAccess reports whether the cached profile is an active superuser.
func (m *Main) HasAdminAccess() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userProfile.HasAdminAccess()
}

// DashboardMiniDrawer returns the compact drawer flag.
func (m *Main) DashboardMiniDrawer() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dashboardMiniDrawer
}

// DashboardShowDrawer returns the drawer visibility flag.
func (m *Main) DashboardShowDrawer() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dashboardShowDrawer
}

// FirstNotification returns the current (oldest) notification.
func (m *Main) FirstNotification() (model.Notification, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.notifications) == 0 {
		return model.Notification{}, false
	}
	return m.notifications[0], true
}

// Notifications returns a copy of the queue in FIFO order.
func (m *Main) Notifications() []model.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.notifications)
}

// Snapshot returns a consistent copy of the whole slice.
func (m *Main) Snapshot() MainSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MainSnapshot{
		LoginState:          m.loginState,
		Token:               m.token,
		LogInError:          m.logInError,
		UserProfile:         m.userProfile.Clone(),
		DashboardMiniDrawer: m.dashboardMiniDrawer,
		DashboardShowDrawer: m.dashboardShowDrawer,
		Notifications:       slices.Clone(m.notifications),
	}
}
