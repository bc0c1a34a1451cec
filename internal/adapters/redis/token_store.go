// Package redis provides Redis-based adapters for the console.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "console:token:"

// TokenStore persists the console's bearer token in Redis so later runs can resume the session.
// The record expires after the configured TTL; zero keeps it until deleted.
type TokenStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	now    func() time.Time
}

// TokenStoreOptions configures a TokenStore.
type TokenStoreOptions struct {
	// Prefix is prepended to Profile to build the key; defaults to "console:token:".
	Prefix string
	// Profile separates tokens of several consoles sharing one Redis; defaults to "default".
	Profile string
	TTL     time.Duration
}

type tokenRecord struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// NewTokenStore creates a new Redis-based token store.
func NewTokenStore(client redis.UniversalClient, opts TokenStoreOptions) *TokenStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	profile := strings.TrimSpace(opts.Profile)
	if profile == "" {
		profile = "default"
	}
	return &TokenStore{
		client: client,
		key:    prefix + profile,
		ttl:    opts.TTL,
		now:    time.Now,
	}
}

// Key returns the Redis key holding the token.
func (s *TokenStore) Key() string { return s.key }

func (s *TokenStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}

	data, err := json.Marshal(tokenRecord{Token: token, SavedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *TokenStore) Load(ctx context.Context) (string, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get: %w", err)
	}

	var rec tokenRecord
	if unmarshalErr := json.Unmarshal([]byte(data), &rec); unmarshalErr != nil {
		return "", fmt.Errorf("unmarshal token: %w", unmarshalErr)
	}
	return rec.Token, nil
}

func (s *TokenStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
