package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/target/appconsole/internal/domain/model"
	apperrors "github.com/target/appconsole/internal/errors"
	"github.com/target/appconsole/internal/ports"
	"github.com/target/appconsole/internal/state"
)

// Notification texts shown by the admin actions.
const (
	MsgUserUpdated = "User successfully updated"
	MsgUserCreated = "User successfully created"
)

// AdminServiceOptions groups dependencies for AdminService.
type AdminServiceOptions struct {
	Store   *state.Store
	API     ports.UserAPI
	Session *SessionService // receives API errors so a rejected credential logs the session out
	Logger  *slog.Logger
}

// AdminService runs the user-management actions behind the admin views.
// With a Session, actions hold the session's action lock so a logout cannot interleave
// with a write to the admin slice.
type AdminService struct {
	store   *state.Store
	api     ports.UserAPI
	session *SessionService
	logger  *slog.Logger

	mu sync.Mutex // used when there is no Session
}

// NewAdminService constructs a new AdminService.
func NewAdminService(opts AdminServiceOptions) (*AdminService, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.API == nil {
		return nil, errors.New("API is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &AdminService{
		store:   opts.Store,
		api:     opts.API,
		session: opts.Session,
		logger:  opts.Logger,
	}, nil
}

// GetUsers replaces the cached user list with the API's.
func (s *AdminService) GetUsers(ctx context.Context) error {
	unlock := s.lock()
	defer unlock()

	users, err := s.api.GetUsers(ctx, s.store.Main.Token())
	if err != nil {
		return s.fail(ctx, "get users", err)
	}
	s.store.Admin.SetUsers(users)
	return nil
}

// UpdateUser saves update for the user with id and refreshes its cached record.
func (s *AdminService) UpdateUser(ctx context.Context, id int, update model.UserProfileUpdate) error {
	update.Normalize()
	if err := update.Validate(); err != nil {
		return apperrors.Validation(err.Error())
	}

	unlock := s.lock()
	defer unlock()

	main := s.store.Main
	progress := main.AddNotification(model.NewProgressNotification(MsgSaving))
	user, err := s.api.UpdateUser(ctx, main.Token(), id, update)
	main.RemoveNotification(progress)
	if err != nil {
		return s.fail(ctx, "update user", err)
	}

	s.store.Admin.SetUser(user)
	main.AddNotification(model.NewNotification(MsgUserUpdated, model.ColorSuccess))
	return nil
}

// CreateUser creates a user and adds it to the cached list.
func (s *AdminService) CreateUser(ctx context.Context, create model.UserProfileCreate) error {
	create.Normalize()
	if err := create.Validate(); err != nil {
		return apperrors.Validation(err.Error())
	}

	unlock := s.lock()
	defer unlock()

	main := s.store.Main
	progress := main.AddNotification(model.NewProgressNotification(MsgSaving))
	user, err := s.api.CreateUser(ctx, main.Token(), create)
	main.RemoveNotification(progress)
	if err != nil {
		return s.fail(ctx, "create user", err)
	}

	s.store.Admin.SetUser(user)
	main.AddNotification(model.NewNotification(MsgUserCreated, model.ColorSuccess))
	return nil
}

func (s *AdminService) fail(ctx context.Context, op string, err error) error {
	s.logger.WarnContext(ctx, "admin: "+op+" failed", "error", err)
	if s.session != nil {
		s.session.checkAPIError(ctx, err)
	}
	return err
}

// lock serializes the action with the session's actions; the caller must hold it while
// calling fail.
func (s *AdminService) lock() func() {
	if s.session != nil {
		s.session.mu.Lock()
		return s.session.mu.Unlock
	}
	s.mu.Lock()
	return s.mu.Unlock
}
