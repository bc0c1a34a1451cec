// Package memstore provides process-local adapters used when no shared store is configured.
package memstore

import (
	"context"
	"sync"
)

// TokenStore keeps the bearer token in memory for the lifetime of the process.
type TokenStore struct {
	mu    sync.Mutex
	token string
}

// NewTokenStore returns an empty in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (s *TokenStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *TokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *TokenStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
