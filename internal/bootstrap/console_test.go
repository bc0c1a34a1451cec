package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/appconsole/config"
	"github.com/target/appconsole/internal/adapters/memstore"
	domainauth "github.com/target/appconsole/internal/domain/auth"
	"github.com/target/appconsole/internal/domain/model"
)

func mockConsoleConfig() config.AppConfig {
	cfg := config.AppConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeMock,
			DevAuth: config.DevAuthConfig{
				Email:    "admin@example.com",
				Password: "changethis",
				FullName: "Dev Admin",
			},
		},
		TokenStore: config.TokenStoreConfig{Kind: config.TokenStoreMemory},
	}
	cfg.Sanitize()
	return cfg
}

func newTestConsole(t *testing.T, tokens *memstore.TokenStore) *Console {
	t.Helper()
	opts := ConsoleOptions{
		Config: mockConsoleConfig(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if tokens != nil {
		opts.Tokens = tokens
	}
	c, err := NewConsole(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewConsole_LogInFlow(t *testing.T) {
	c := newTestConsole(t, nil)
	ctx := context.Background()

	assert.Equal(t, "/", c.Router.CurrentRoute())
	assert.Equal(t, domainauth.StateUnknown, c.Store.Main.LoginState())

	state := c.Session.LogIn(ctx, "admin@example.com", "changethis")
	assert.Equal(t, domainauth.StateLoggedIn, state)
	assert.Equal(t, "/main", c.Router.CurrentRoute())

	profile := c.Store.Main.UserProfile()
	require.NotNil(t, profile)
	assert.Equal(t, "admin@example.com", profile.Email)
	assert.True(t, c.Store.Main.HasAdminAccess())

	notes := c.TakeNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "Logged in", notes[0].Content)
	assert.Equal(t, model.ColorSuccess, notes[0].Color)
	assert.Empty(t, c.Store.Main.Notifications())

	require.NoError(t, c.Admin.GetUsers(ctx))
	assert.Len(t, c.Store.Admin.Users(), 1)
}

func TestNewConsole_LogInFailure(t *testing.T) {
	c := newTestConsole(t, nil)

	state := c.Session.LogIn(context.Background(), "admin@example.com", "wrong")
	assert.Equal(t, domainauth.StateLoggedOut, state)
	assert.True(t, c.Store.Main.LoginError())
	assert.Equal(t, "/", c.Router.CurrentRoute())
	assert.Empty(t, c.TakeNotifications())
}

func TestNewConsole_TokenSurvivesRestart(t *testing.T) {
	tokens := memstore.NewTokenStore()
	ctx := context.Background()
	cfg := mockConsoleConfig()
	api, err := BuildAPI(ctx, APIOptions{API: cfg.API, Auth: cfg.Auth})
	require.NoError(t, err)

	first, err := NewConsole(ctx, ConsoleOptions{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		API:    api,
		Tokens: tokens,
	})
	require.NoError(t, err)
	require.Equal(t, domainauth.StateLoggedIn, first.Session.LogIn(ctx, "admin@example.com", "changethis"))

	stored, err := tokens.Load(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, stored)

	// A second console sharing the API picks the token up from the store.
	second, err := NewConsole(ctx, ConsoleOptions{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		API:    api,
		Tokens: tokens,
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.StateLoggedIn, second.Session.CheckLoggedIn(ctx))
	assert.Equal(t, stored, second.Store.Main.Token())

	second.Session.LogOut(ctx)
	stored, err = tokens.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Equal(t, "/login", second.Router.CurrentRoute())
}

func TestNewConsole_CheckLoggedInWithoutToken(t *testing.T) {
	c := newTestConsole(t, nil)
	assert.Equal(t, domainauth.StateUnknown, c.Session.CheckLoggedIn(context.Background()))
}

func TestNewConsole_RedisConnectFailure(t *testing.T) {
	cfg := mockConsoleConfig()
	cfg.TokenStore.Kind = config.TokenStoreRedis
	cfg.Redis = config.RedisConfig{URI: "127.0.0.1:1"}

	_, err := NewConsole(context.Background(), ConsoleOptions{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect token store")
}

func TestConsole_DismissAfterDelay(t *testing.T) {
	c := newTestConsole(t, nil)
	c.dismissAfter = 10 * time.Millisecond

	c.Store.Main.AddNotification(model.NewNotification("one", model.ColorInfo))
	c.Store.Main.AddNotification(model.NewNotification("two", model.ColorInfo))

	require.NoError(t, c.DismissAfterDelay(context.Background()))
	assert.Empty(t, c.Store.Main.Notifications())
}

func TestConsole_DismissAfterDelayCanceled(t *testing.T) {
	c := newTestConsole(t, nil)
	c.dismissAfter = time.Hour
	c.Store.Main.AddNotification(model.NewNotification("stays", model.ColorInfo))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, c.DismissAfterDelay(ctx), context.Canceled)
	assert.Len(t, c.Store.Main.Notifications(), 1)
}
