package stores

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/vamazon/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/vamazon/internal/common"
	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/oklog/ulid/v2"
)

const sessionPrefix = "session_"

// SessionStore hands out the guest-cart session identifier.
type SessionStore struct {
	repo metadata.Repository
	log  logging.Logger

	mu sync.Mutex
	// fallback holds an id generated while storage was failing.
	fallback string
}

func NewSessionStore(repo metadata.Repository, log logging.Logger) *SessionStore {
	return &SessionStore{repo: repo, log: log}
}

func NewSessionID() string {
	return sessionPrefix + ulid.Make().String()
}

// GetOrCreate returns the stored id, creating and persisting one if absent.
// Repeated calls return the same id until Reset.
func (s *SessionStore) GetOrCreate(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fallback != "" {
		return s.fallback
	}

	v, err := s.repo.Get(ctx, common.SessionIDKey)
	if err != nil {
		s.log.Warn(ctx, "session id read failed", "error", err)
	} else if len(v) > 0 {
		return string(v)
	}

	id := NewSessionID()
	if err == nil {
		if err = s.repo.Set(ctx, common.SessionIDKey, []byte(id)); err != nil {
			s.log.Warn(ctx, "session id write failed", "error", err)
		}
	}
	if err != nil {
		s.fallback = id
	}
	return id
}

// Reset discards the stored id. The next GetOrCreate generates a new one.
func (s *SessionStore) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fallback = ""
	if err := s.repo.Delete(ctx, common.SessionIDKey); err != nil {
		s.log.Warn(ctx, "session id delete failed", "error", err)
	}
}
