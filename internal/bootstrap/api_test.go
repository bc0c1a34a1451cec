package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/appconsole/config"
	"github.com/target/appconsole/internal/adapters/devauth"
	"github.com/target/appconsole/internal/adapters/httpapi"
	"github.com/target/appconsole/internal/adapters/memstore"
	"github.com/target/appconsole/internal/adapters/oidc"
	redisadapter "github.com/target/appconsole/internal/adapters/redis"
)

func TestBuildAPI_Password(t *testing.T) {
	api, err := BuildAPI(context.Background(), APIOptions{
		API:  config.APIConfig{URL: "http://localhost:8000", Timeout: time.Second},
		Auth: config.AuthConfig{Mode: config.AuthModePassword},
	})
	require.NoError(t, err)
	assert.IsType(t, &httpapi.Client{}, api)
}

func TestBuildAPI_PasswordInvalidURL(t *testing.T) {
	api, err := BuildAPI(context.Background(), APIOptions{
		API:  config.APIConfig{URL: "localhost"},
		Auth: config.AuthConfig{Mode: config.AuthModePassword},
	})
	require.Error(t, err)
	assert.Nil(t, api)
}

func TestBuildAPI_Mock(t *testing.T) {
	api, err := BuildAPI(context.Background(), APIOptions{
		Auth: config.AuthConfig{
			Mode:    config.AuthModeMock,
			DevAuth: config.DevAuthConfig{Email: "dev@example.com", Password: "changethis"},
		},
	})
	require.NoError(t, err)
	assert.IsType(t, &devauth.Provider{}, api)

	_, err = BuildAPI(context.Background(), APIOptions{
		Auth: config.AuthConfig{Mode: config.AuthModeMock},
	})
	require.Error(t, err)
}

func TestBuildAPI_OIDC(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/auth",
			"token_endpoint":         srv.URL + "/token",
			"userinfo_endpoint":      srv.URL + "/userinfo",
			"jwks_uri":               srv.URL + "/jwks",
		})
	}))
	defer srv.Close()

	api, err := BuildAPI(context.Background(), APIOptions{
		API: config.APIConfig{URL: "http://localhost:8000"},
		Auth: config.AuthConfig{
			Mode: config.AuthModeOIDC,
			OIDC: config.OIDCConfig{ClientID: "console", DiscoveryURL: srv.URL},
		},
	})
	require.NoError(t, err)
	prov, ok := api.(*oidc.Provider)
	require.True(t, ok)
	assert.Equal(t, srv.URL+"/token", prov.TokenURL())
}

func TestBuildAPI_Unsupported(t *testing.T) {
	_, err := BuildAPI(context.Background(), APIOptions{Auth: config.AuthConfig{Mode: "saml"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported auth mode")
}

func TestBuildTokenStore(t *testing.T) {
	store, err := BuildTokenStore(TokenStoreOptions{TokenStore: config.TokenStoreConfig{Kind: config.TokenStoreMemory}})
	require.NoError(t, err)
	assert.IsType(t, &memstore.TokenStore{}, store)

	_, err = BuildTokenStore(TokenStoreOptions{TokenStore: config.TokenStoreConfig{Kind: config.TokenStoreRedis}})
	require.Error(t, err)

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()
	store, err = BuildTokenStore(TokenStoreOptions{
		TokenStore:  config.TokenStoreConfig{Kind: config.TokenStoreRedis, KeyPrefix: "t:", Profile: "p"},
		RedisClient: client,
	})
	require.NoError(t, err)
	rs, ok := store.(*redisadapter.TokenStore)
	require.True(t, ok)
	assert.Equal(t, "t:p", rs.Key())

	_, err = BuildTokenStore(TokenStoreOptions{TokenStore: config.TokenStoreConfig{Kind: "disk"}})
	require.Error(t, err)
}
