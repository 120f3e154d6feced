package store

import (
	"sync"
	"time"

	"github.com/veilcall/core/internal/models"
)

// SessionStore holds the single active session per user id. A new login for
// the same user replaces the prior entry.
type SessionStore struct {
	mu     sync.RWMutex
	byUser map[string]*models.Session
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{byUser: make(map[string]*models.Session)}
}

// Put records the active session for a user, replacing any prior one.
func (s *SessionStore) Put(sess *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[sess.UserID] = sess
}

// Get returns the active session for the user, or nil if absent.
func (s *SessionStore) Get(userID string) *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.byUser[userID]
	if !ok {
		return nil
	}
	out := *sess
	return &out
}

// Delete removes the active session. Idempotent.
func (s *SessionStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
}

// PurgeExpired removes every session past its expiry and returns the count.
func (s *SessionStore) PurgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for userID, sess := range s.byUser {
		if sess.Expired(now) {
			delete(s.byUser, userID)
			purged++
		}
	}
	return purged
}

// Len returns the number of active sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUser)
}
