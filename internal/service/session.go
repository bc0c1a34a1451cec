package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	domainauth "github.com/target/appconsole/internal/domain/auth"
	"github.com/target/appconsole/internal/domain/model"
	apperrors "github.com/target/appconsole/internal/errors"
	"github.com/target/appconsole/internal/ports"
	"github.com/target/appconsole/internal/state"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultMainRoute is where a successful login lands.
	DefaultMainRoute = "/main"
	// DefaultLoginRoute is where a logout lands.
	DefaultLoginRoute = "/login"
)

// Notification texts shown by the session actions.
const (
	MsgLoggedIn               = "Logged in"
	MsgLoggedOut              = "Logged out"
	MsgSaving                 = "saving"
	MsgProfileUpdated         = "Profile successfully updated"
	MsgSendingRecovery        = "Sending password recovery email"
	MsgRecoverySent           = "Password recovery email sent"
	MsgIncorrectUsername      = "Incorrect username"
	MsgResettingPassword      = "Resetting password"
	MsgPasswordReset          = "Password successfully reset"
	MsgErrorResettingPassword = "Error resetting password"
)

const checkLoggedInFlightKey = "check-logged-in"

var errInvalidAccessToken = errors.New("empty or expired access token")

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Store     *state.Store
	API       ports.API
	Navigator ports.Navigator
	Tokens    ports.TokenStore // Optional; the token is kept in memory only when nil
	Logger    *slog.Logger

	MainRoute  string // default "/main"
	LoginRoute string // default "/login"
}

// SessionService runs the session actions: log in, profile fetch, login check and log out.
// Failures of the remote API are absorbed into the session state; callers observe them
// through the state accessors.
//
// Actions that mutate the session are serialized, and concurrent CheckLoggedIn calls share
// one round-trip.
type SessionService struct {
	store      *state.Store
	api        ports.API
	navigator  ports.Navigator
	tokens     ports.TokenStore
	logger     *slog.Logger
	mainRoute  string
	loginRoute string

	mu     sync.Mutex
	checks singleflight.Group
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) (*SessionService, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.API == nil {
		return nil, errors.New("API is required")
	}
	if opts.Navigator == nil {
		return nil, errors.New("navigator is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &SessionService{
		store:      opts.Store,
		api:        opts.API,
		navigator:  opts.Navigator,
		tokens:     opts.Tokens,
		logger:     opts.Logger,
		mainRoute:  routeOrDefault(opts.MainRoute, DefaultMainRoute),
		loginRoute: routeOrDefault(opts.LoginRoute, DefaultLoginRoute),
	}, nil
}

func routeOrDefault(route, def string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return def
	}
	return route
}

// Store returns the state container the service mutates.
func (s *SessionService) Store() *state.Store { return s.store }

// LogIn exchanges username and password for a token, fetches the profile and, when both
// succeed, announces the login and navigates to the main route.
// A failed profile fetch after a good exchange ends in the same logged-out state as a
// failed exchange.
func (s *SessionService) LogIn(ctx context.Context, username, password string) domainauth.LoginState {
	s.mu.Lock()
	defer s.mu.Unlock()

	main := s.store.Main
	tok, err := s.api.LogInGetToken(ctx, username, password)
	if err == nil && !tok.Valid() {
		err = errInvalidAccessToken
	}
	if err != nil {
		s.logger.WarnContext(ctx, "session: log in failed", "error", apperrors.CredentialExchange(err))
		// A previously held token must not let a later check log back in past the error.
		s.removeLogIn(ctx)
		main.SetLogInError(true)
		return domainauth.StateLoggedOut
	}

	main.SetToken(tok.AccessToken)
	s.saveToken(ctx, tok.AccessToken)
	main.SetLogInError(false)

	if !s.fetchProfile(ctx) {
		return main.LoginState()
	}
	main.SetLoggedIn(domainauth.StateLoggedIn)
	main.AddNotification(model.NewNotification(MsgLoggedIn, model.ColorSuccess))
	s.navigator.Navigate(s.mainRoute)

	s.logger.InfoContext(ctx, "session: logged in", "user_id", main.UserProfile().ID)
	return domainauth.StateLoggedIn
}

// FetchProfile loads the profile for the held token. On failure the session is marked
// logged out and the cached profile dropped; the token is left in place. A canceled fetch
// changes nothing.
func (s *SessionService) FetchProfile(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchProfile(ctx)
}

func (s *SessionService) fetchProfile(ctx context.Context) bool {
	main := s.store.Main
	profile, err := s.api.GetMe(ctx, main.Token())
	if err != nil && isCanceled(err) {
		// The caller gave up; the API said nothing about the credential.
		s.logger.DebugContext(ctx, "session: profile fetch canceled", "error", err)
		return false
	}
	if err != nil {
		s.logger.WarnContext(ctx, "session: profile fetch failed", "error", apperrors.ProfileFetch(err))
		main.SetLoggedIn(domainauth.StateLoggedOut)
		main.SetUserProfile(nil)
		return false
	}
	main.SetUserProfile(&profile)
	return true
}

// CheckLoggedIn restores a session from the held or persisted token. It does nothing when
// the session is already logged in or when no token is available. Concurrent calls share
// one check; the shared check outlives any single caller, and a caller whose ctx ends first
// gets the state as it stands.
func (s *SessionService) CheckLoggedIn(ctx context.Context) domainauth.LoginState {
	flightCtx := context.WithoutCancel(ctx)
	ch := s.checks.DoChan(checkLoggedInFlightKey, func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.checkLoggedIn(flightCtx), nil
	})

	select {
	case <-ctx.Done():
		return s.store.Main.LoginState()
	case res := <-ch:
		ls, ok := res.Val.(domainauth.LoginState)
		if !ok {
			return s.store.Main.LoginState()
		}
		return ls
	}
}

func (s *SessionService) checkLoggedIn(ctx context.Context) domainauth.LoginState {
	main := s.store.Main
	if main.IsLoggedIn() {
		return domainauth.StateLoggedIn
	}

	token := main.Token()
	if token == "" {
		token = s.loadToken(ctx)
		if token == "" {
			return main.LoginState()
		}
		main.SetToken(token)
	}

	if !s.fetchProfile(ctx) {
		return main.LoginState()
	}
	main.SetLogInError(false)
	main.SetLoggedIn(domainauth.StateLoggedIn)
	return domainauth.StateLoggedIn
}

// LogOut forgets the token, marks the session logged out and routes to the login page.
func (s *SessionService) LogOut(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logOut(ctx)
}

func (s *SessionService) logOut(ctx context.Context) {
	s.removeLogIn(ctx)
	s.routeLogOut()
}

func (s *SessionService) removeLogIn(ctx context.Context) {
	main := s.store.Main
	main.SetToken("")
	main.SetLoggedIn(domainauth.StateLoggedOut)
	main.SetUserProfile(nil)
	s.store.Admin.Reset()
	if s.tokens == nil {
		return
	}
	if err := s.tokens.Delete(ctx); err != nil {
		s.logger.WarnContext(ctx, "session: delete persisted token failed", "error", err)
	}
}

// UserLogOut is LogOut initiated by the user; it also announces the logout.
func (s *SessionService) UserLogOut(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logOut(ctx)
	s.store.Main.AddNotification(model.NewNotification(MsgLoggedOut, model.ColorSuccess))
}

// UpdateUserProfile saves update for the logged-in user and caches the result.
func (s *SessionService) UpdateUserProfile(ctx context.Context, update model.UserProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	update.Normalize()
	if err := update.Validate(); err != nil {
		return apperrors.Validation(err.Error())
	}

	main := s.store.Main
	progress := main.AddNotification(model.NewProgressNotification(MsgSaving))
	profile, err := s.api.UpdateMe(ctx, main.Token(), update)
	main.RemoveNotification(progress)
	if err != nil {
		s.checkAPIError(ctx, err)
		return err
	}

	main.SetUserProfile(&profile)
	main.AddNotification(model.NewNotification(MsgProfileUpdated, model.ColorSuccess))
	return nil
}

// CheckAPIError logs the session out when err reports a rejected credential.
// It reports whether a logout happened.
func (s *SessionService) CheckAPIError(ctx context.Context, err error) bool {
	if !apperrors.IsUnauthorized(err) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkAPIError(ctx, err)
}

func (s *SessionService) checkAPIError(ctx context.Context, err error) bool {
	if !apperrors.IsUnauthorized(err) {
		return false
	}
	s.logger.InfoContext(ctx, "session: credential rejected, logging out", "error", err)
	s.logOut(ctx)
	return true
}

// RouteLoggedIn moves a logged-in user off the login and root pages.
func (s *SessionService) RouteLoggedIn() {
	switch s.navigator.CurrentRoute() {
	case s.loginRoute, "/":
		s.navigator.Navigate(s.mainRoute)
	}
}

// RouteLogOut routes to the login page unless already there.
func (s *SessionService) RouteLogOut() {
	s.routeLogOut()
}

func (s *SessionService) routeLogOut() {
	if s.navigator.CurrentRoute() != s.loginRoute {
		s.navigator.Navigate(s.loginRoute)
	}
}

// RemoveNotification removes n once after has elapsed. It blocks; run it in a goroutine to
// dismiss in the background. The notification stays queued when ctx ends first.
func (s *SessionService) RemoveNotification(ctx context.Context, n model.Notification, after time.Duration) error {
	if after > 0 {
		timer := time.NewTimer(after)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	s.store.Main.RemoveNotification(n)
	return nil
}

// PasswordRecovery asks the API to send a recovery email for email.
func (s *SessionService) PasswordRecovery(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	main := s.store.Main
	progress := main.AddNotification(model.NewProgressNotification(MsgSendingRecovery))
	err := s.api.PasswordRecovery(ctx, email)
	main.RemoveNotification(progress)
	if err != nil {
		s.logger.WarnContext(ctx, "session: password recovery failed", "error", err)
		main.AddNotification(model.NewNotification(MsgIncorrectUsername, model.ColorError))
		return err
	}

	main.AddNotification(model.NewNotification(MsgRecoverySent, model.ColorSuccess))
	s.logOut(ctx)
	return nil
}

// ResetPassword sets newPassword using a reset token from a recovery email.
func (s *SessionService) ResetPassword(ctx context.Context, newPassword, resetToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	main := s.store.Main
	progress := main.AddNotification(model.NewProgressNotification(MsgResettingPassword))
	err := s.api.ResetPassword(ctx, newPassword, resetToken)
	main.RemoveNotification(progress)
	if err != nil {
		s.logger.WarnContext(ctx, "session: password reset failed", "error", err)
		main.AddNotification(model.NewNotification(MsgErrorResettingPassword, model.ColorError))
		return err
	}

	main.AddNotification(model.NewNotification(MsgPasswordReset, model.ColorSuccess))
	s.logOut(ctx)
	return nil
}

func (s *SessionService) saveToken(ctx context.Context, token string) {
	if s.tokens == nil {
		return
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "session: persist token failed", "error", err)
	}
}

func (s *SessionService) loadToken(ctx context.Context) string {
	if s.tokens == nil {
		return ""
	}
	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "session: load persisted token failed", "error", err)
		return ""
	}
	return token
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || apperrors.IsCanceled(err)
}
