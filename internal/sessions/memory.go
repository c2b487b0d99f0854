package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type memorySession struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore is the default in-process Store. Expired sessions are evicted
// lazily on Resolve and by a background sweep, so the map does not grow with
// abandoned logins.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a MemoryStore whose sessions live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Create registers a new session for userID and returns its opaque token.
func (s *MemoryStore) Create(userID string) (string, error) {
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = memorySession{
		userID:    userID,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return token, nil
}

// Resolve returns the user ID behind token, or ErrNoSession if the token is
// unknown or expired.
func (s *MemoryStore) Resolve(token string) (string, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", ErrNoSession
	}
	if time.Now().After(sess.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return "", ErrNoSession
	}
	return sess.userID, nil
}

// Destroy invalidates token immediately. Destroying an unknown token is a no-op.
func (s *MemoryStore) Destroy(token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// Close stops the background sweep.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, sess := range s.sessions {
				if now.After(sess.expiresAt) {
					delete(s.sessions, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
