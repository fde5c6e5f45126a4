package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/emarket/emarket-api/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
}

type session struct {
	userID    int64
	expiresAt time.Time
}

// NewSessionStore builds a store whose tokens expire after ttl. A
// non-positive ttl means tokens never expire.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{sessions: map[string]session{}, ttl: ttl}
}

func (s *SessionStore) Save(_ context.Context, token string, userID int64) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ports.ErrSessionNotFound
	}
	entry := session{userID: userID}
	if s.ttl > 0 {
		entry.expiresAt = time.Now().Add(s.ttl)
	}
	s.mu.Lock()
	s.sessions[token] = entry
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Resolve(_ context.Context, token string) (int64, error) {
	s.mu.RLock()
	entry, ok := s.sessions[strings.TrimSpace(token)]
	s.mu.RUnlock()
	if !ok {
		return 0, ports.ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return 0, ports.ErrSessionNotFound
	}
	return entry.userID, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, strings.TrimSpace(token))
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context) error {
	now := time.Now()
	s.mu.Lock()
	for token, entry := range s.sessions {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(s.sessions, token)
		}
	}
	s.mu.Unlock()
	return nil
}
