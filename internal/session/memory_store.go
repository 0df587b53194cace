package session

import (
	"context"
	"sync"
	"time"

	"github.com/mouradf/it-asset-tracker/internal/utils"
)

// MemoryStore is the fallback when Redis is unreachable and the store used
// by tests. Sessions do not survive a restart; expiry is checked on read.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	id      Identity
	expires time.Time
}

// NewMemoryStore builds an in-memory session store with the given fixed TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

// Create stores the identity under a fresh token. Expired entries are swept
// here so abandoned sessions cannot accumulate without bound.
func (s *MemoryStore) Create(_ context.Context, id Identity) (string, error) {
	token, err := utils.NewSessionToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	now := s.now()
	for t, sess := range s.sessions {
		if now.After(sess.expires) {
			delete(s.sessions, t)
		}
	}
	s.sessions[token] = memorySession{id: id, expires: now.Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

// Get resolves a token, dropping the entry when it has expired.
func (s *MemoryStore) Get(_ context.Context, token string) (Identity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return Identity{}, false, nil
	}
	if s.now().After(sess.expires) {
		delete(s.sessions, token)
		return Identity{}, false, nil
	}
	return sess.id, true, nil
}

// Destroy removes a session; absent tokens are ignored.
func (s *MemoryStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
