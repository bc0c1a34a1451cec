package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/target/appconsole/config"
	"github.com/target/appconsole/internal/adapters/devauth"
	"github.com/target/appconsole/internal/adapters/httpapi"
	"github.com/target/appconsole/internal/adapters/memstore"
	"github.com/target/appconsole/internal/adapters/oidc"
	redisadapter "github.com/target/appconsole/internal/adapters/redis"
	"github.com/target/appconsole/internal/ports"
)

// APIOptions contains configuration for building the API adapter.
type APIOptions struct {
	API        config.APIConfig
	Auth       config.AuthConfig
	HTTPClient *http.Client // Optional; adapters build their own when nil
	Logger     *slog.Logger
}

// BuildAPI creates the API adapter for the configured auth mode.
//
//nolint:ireturn // the concrete adapter depends on the auth mode.
func BuildAPI(ctx context.Context, cfg APIOptions) (ports.API, error) {
	var (
		api ports.API
		err error
	)
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		api, err = buildDevAPI(cfg)
	case config.AuthModeOIDC:
		api, err = buildOIDCAPI(ctx, cfg)
	case config.AuthModePassword, "":
		api, err = buildHTTPAPI(cfg)
	default:
		err = fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
	if err != nil {
		return nil, err
	}
	return api, nil
}

func buildHTTPAPI(cfg APIOptions) (*httpapi.Client, error) {
	client, err := httpapi.NewClient(httpapi.ClientConfig{
		BaseURL:    cfg.API.URL,
		ClientID:   cfg.API.ClientID,
		Timeout:    cfg.API.Timeout,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}
	return client, nil
}

func buildOIDCAPI(ctx context.Context, cfg APIOptions) (*oidc.Provider, error) {
	// User resources still live on the API; the identity provider only issues tokens and profiles.
	users, err := buildHTTPAPI(cfg)
	if err != nil {
		return nil, err
	}

	oc := cfg.Auth.OIDC
	prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
		ClientID:     oc.ClientID,
		ClientSecret: oc.ClientSecret,
		Scope:        oc.Scope,
		DiscoveryURL: oc.DiscoveryURL,
		Claims: oidc.ClaimMapping{
			ID:          oc.Claims.ID,
			Email:       oc.Claims.Email,
			FullName:    oc.Claims.FullName,
			IsActive:    oc.Claims.IsActive,
			IsSuperuser: oc.Claims.IsSuperuser,
		},
		Users:      users,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("build oidc provider: %w", err)
	}
	return prov, nil
}

func buildDevAPI(cfg APIOptions) (*devauth.Provider, error) {
	dc := cfg.Auth.DevAuth
	prov, err := devauth.NewProvider(devauth.Config{
		Email:       dc.Email,
		Password:    dc.Password,
		FullName:    dc.FullName,
		RegularUser: dc.RegularUser,
	})
	if err != nil {
		return nil, fmt.Errorf("build dev api: %w", err)
	}
	if cfg.Logger != nil {
		cfg.Logger.Warn("using in-memory dev API; do not use in production", "email", dc.Email)
	}
	return prov, nil
}

// TokenStoreOptions contains configuration for building the token store.
type TokenStoreOptions struct {
	TokenStore  config.TokenStoreConfig
	RedisClient redis.UniversalClient
}

// BuildTokenStore creates the token store for the configured kind.
//
//nolint:ireturn // the concrete store depends on configuration.
func BuildTokenStore(cfg TokenStoreOptions) (ports.TokenStore, error) {
	switch cfg.TokenStore.Kind {
	case config.TokenStoreRedis:
		if cfg.RedisClient == nil {
			return nil, fmt.Errorf("token store %q requires a redis client", cfg.TokenStore.Kind)
		}
		return redisadapter.NewTokenStore(cfg.RedisClient, redisadapter.TokenStoreOptions{
			Prefix:  cfg.TokenStore.KeyPrefix,
			Profile: cfg.TokenStore.Profile,
			TTL:     cfg.TokenStore.TTL,
		}), nil
	case config.TokenStoreMemory, "":
		return memstore.NewTokenStore(), nil
	default:
		return nil, fmt.Errorf("unsupported token store %q", cfg.TokenStore.Kind)
	}
}
