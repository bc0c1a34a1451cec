package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/appconsole/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestTokenStore_SaveAndLoad(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewTokenStore(client, TokenStoreOptions{Profile: "test"})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "authtoken33"))

	tok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "authtoken33", tok)
}

func TestTokenStore_LoadMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewTokenStore(client, TokenStoreOptions{Profile: "missing"})

	tok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestTokenStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewTokenStore(client, TokenStoreOptions{Profile: "delete"})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok"))
	require.NoError(t, store.Delete(ctx))

	tok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	// Deleting twice is fine.
	require.NoError(t, store.Delete(ctx))
}

func TestTokenStore_TTL(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewTokenStore(client, TokenStoreOptions{Profile: "ttl", TTL: time.Hour})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok"))

	ttl, err := client.TTL(ctx, store.Key()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestTokenStore_SaveEmptyToken(t *testing.T) {
	store := NewTokenStore(nil, TokenStoreOptions{})
	err := store.Save(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token cannot be empty")
}

func TestNewTokenStore_Key(t *testing.T) {
	assert.Equal(t, "console:token:default", NewTokenStore(nil, TokenStoreOptions{}).Key())
	assert.Equal(t, "x:work", NewTokenStore(nil, TokenStoreOptions{Prefix: "x:", Profile: " work "}).Key())
}
