package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/veilcall/core/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the rest of the platform hashes with.
const bcryptCost = 12

// UserStore is the process-owned registry of accounts, keyed by email with a
// secondary id index. All access is mutex-guarded; bcrypt work happens outside
// the lock.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
	byID    map[string]string // id -> email
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]string),
	}
}

// Register creates a new account. Fails with ErrConflict if the email is taken.
func (s *UserStore) Register(email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)

	s.mu.RLock()
	_, exists := s.byEmail[email]
	s.mu.RUnlock()
	if exists {
		return nil, ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  string(hash),
		Name:      name,
		Roles:     []string{"user"},
		IsActive:  true,
		CreatedAt: now,
		LastLogin: now,
		Settings:  models.DefaultSettings(),
		Profile:   models.DefaultProfile(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[email]; exists {
		// lost the race between the unlocked hash and this insert
		return nil, ErrConflict
	}
	s.byEmail[email] = u
	s.byID[u.ID] = email
	return u.Clone(), nil
}

// Authenticate verifies an email/password pair and records the login time.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserStore) Authenticate(email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	s.mu.RLock()
	u, ok := s.byEmail[email]
	var hash string
	if ok {
		hash = u.Password
	}
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok = s.byEmail[email]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	u.LastLogin = time.Now()
	return u.Clone(), nil
}

// GetByID returns the user with the given id, or ErrNotFound.
func (s *UserStore) GetByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(id)
}

// GetByEmail returns the user with the given email, or ErrNotFound.
func (s *UserStore) GetByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

// UpdateProfile applies a partial update of name, profile and settings.
// Profile and settings maps are merged key-by-key, not replaced.
func (s *UserStore) UpdateProfile(id string, name *string, profile, settings map[string]interface{}) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.liveLocked(id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		u.Name = *name
	}
	mergeInto(u.Profile, profile)
	mergeInto(u.Settings, settings)
	return u.Clone(), nil
}

// UpdateSettings merges the given settings into the user's settings blob.
func (s *UserStore) UpdateSettings(id string, settings map[string]interface{}) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.liveLocked(id)
	if err != nil {
		return nil, err
	}
	mergeInto(u.Settings, settings)
	return u.Clone().Settings, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *UserStore) ChangePassword(id, currentPassword, newPassword string) error {
	s.mu.RLock()
	u, err := s.liveLocked(id)
	var currentHash string
	if err == nil {
		currentHash = u.Password
	}
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, err = s.liveLocked(id)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// Delete removes the account entirely. Fails with ErrNotFound if absent.
func (s *UserStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byEmail, email)
	delete(s.byID, id)
	return nil
}

// Len returns the number of registered accounts.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}

func (s *UserStore) lookupLocked(id string) (*models.User, error) {
	u, err := s.liveLocked(id)
	if err != nil {
		return nil, err
	}
	return u.Clone(), nil
}

func (s *UserStore) liveLocked(id string) (*models.User, error) {
	email, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func mergeInto(dst, src map[string]interface{}) {
	for k, v := range src {
		dst[k] = v
	}
}
