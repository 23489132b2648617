// Package stores persists the two pieces of client state that outlive the
// process: the bearer token and the guest-cart session identifier.
//
// Storage failures never reach callers. They are logged and the stores fall
// back to "absent" (token) or to an in-memory value (session id).
package stores

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/vamazon/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/logging"
)

// TokenStore keeps the bearer token under common.AccessTokenKey.
type TokenStore struct {
	repo metadata.Repository
	log  logging.Logger
}

func NewTokenStore(repo metadata.Repository, log logging.Logger) *TokenStore {
	return &TokenStore{repo: repo, log: log}
}

// Get returns the stored token, ok is false when none is present or the
// store cannot be read.
func (s *TokenStore) Get(ctx context.Context) (string, bool) {
	v, err := s.repo.Get(ctx, common.AccessTokenKey)
	if err != nil {
		s.log.Warn(ctx, "token read failed", "error", err)
		return "", false
	}
	if len(v) == 0 {
		return "", false
	}
	return string(v), true
}

func (s *TokenStore) Set(ctx context.Context, token string) {
	if err := s.repo.Set(ctx, common.AccessTokenKey, []byte(token)); err != nil {
		s.log.Warn(ctx, "token write failed", "error", err)
	}
}

func (s *TokenStore) Remove(ctx context.Context) {
	if err := s.repo.Delete(ctx, common.AccessTokenKey); err != nil {
		s.log.Warn(ctx, "token delete failed", "error", err)
	}
}

// MemoryRepository is a metadata.Repository kept in process memory. The CLI
// uses it when the data directory cannot be opened; tests use it as a fake.
type MemoryRepository struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

func (m *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryRepository) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
