package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/appconsole/config"
	"github.com/target/appconsole/internal/adapters/router"
	"github.com/target/appconsole/internal/domain/model"
	"github.com/target/appconsole/internal/ports"
	"github.com/target/appconsole/internal/service"
	"github.com/target/appconsole/internal/state"
)

// ConsoleOptions contains everything needed to assemble a Console.
type ConsoleOptions struct {
	Config config.AppConfig
	Logger *slog.Logger

	// Optional overrides, mainly for tests.
	API        ports.API
	Tokens     ports.TokenStore
	HTTPClient *http.Client
}

// Console is the composition root: one state store plus the services that act on it.
// UI and CLI code reach the session only through a Console.
type Console struct {
	Store   *state.Store
	Session *service.SessionService
	Admin   *service.AdminService
	Router  *router.Router

	logger       *slog.Logger
	dismissAfter time.Duration
	redisClient  redis.UniversalClient
}

// NewConsole wires the API adapter, token store, router and services for cfg.
func NewConsole(ctx context.Context, opts ConsoleOptions) (*Console, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Console{
		Store:        state.NewStore(),
		Router:       router.New(router.Options{Initial: "/", Logger: logger}),
		logger:       logger,
		dismissAfter: cfg.UI.NotificationDismissAfter,
	}

	api := opts.API
	if api == nil {
		built, err := BuildAPI(ctx, APIOptions{
			API:        cfg.API,
			Auth:       cfg.Auth,
			HTTPClient: opts.HTTPClient,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		api = built
	}

	tokens := opts.Tokens
	if tokens == nil {
		if cfg.UsesRedis() {
			client, err := ConnectRedis(ctx, RedisOptions{Redis: cfg.Redis, Logger: logger})
			if err != nil {
				return nil, fmt.Errorf("connect token store: %w", err)
			}
			c.redisClient = client
		}
		built, err := BuildTokenStore(TokenStoreOptions{TokenStore: cfg.TokenStore, RedisClient: c.redisClient})
		if err != nil {
			return nil, errors.Join(err, c.Close())
		}
		tokens = built
	}

	session, err := service.NewSessionService(service.SessionServiceOptions{
		Store:      c.Store,
		API:        api,
		Navigator:  c.Router,
		Tokens:     tokens,
		Logger:     logger,
		MainRoute:  cfg.UI.MainRoute,
		LoginRoute: cfg.UI.LoginRoute,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("build session service: %w", err), c.Close())
	}
	c.Session = session

	admin, err := service.NewAdminService(service.AdminServiceOptions{
		Store:   c.Store,
		API:     api,
		Session: session,
		Logger:  logger,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("build admin service: %w", err), c.Close())
	}
	c.Admin = admin

	return c, nil
}

// DismissAfterDelay removes the currently queued notifications once the configured delay
// has elapsed. It blocks until then or until ctx ends.
func (c *Console) DismissAfterDelay(ctx context.Context) error {
	queued := c.Store.Main.Notifications()
	for i, n := range queued {
		after := time.Duration(0)
		if i == 0 {
			after = c.dismissAfter
		}
		if err := c.Session.RemoveNotification(ctx, n, after); err != nil {
			return err
		}
	}
	return nil
}

// TakeNotifications removes and returns the queued notifications in FIFO order.
func (c *Console) TakeNotifications() []model.Notification {
	queued := c.Store.Main.Notifications()
	for _, n := range queued {
		c.Store.Main.RemoveNotification(n)
	}
	return queued
}

// Close releases the Redis connection, if any.
func (c *Console) Close() error {
	if c.redisClient == nil {
		return nil
	}
	err := c.redisClient.Close()
	c.redisClient = nil
	if err != nil {
		return fmt.Errorf("close redis client: %w", err)
	}
	return nil
}
