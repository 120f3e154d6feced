package user

import (
	"time"

	"github.com/veilcall/core/internal/models"
	jwtpkg "github.com/veilcall/core/internal/pkg/jwt"
	"github.com/veilcall/core/internal/store"
	"go.uber.org/zap"
)

// Service owns account and session operations over the in-memory stores.
type Service struct {
	users    *store.UserStore
	sessions *store.SessionStore
	ttl      time.Duration
	logger   *zap.Logger
}

func NewService(users *store.UserStore, sessions *store.SessionStore, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{users: users, sessions: sessions, ttl: ttl, logger: logger}
}

// Register creates an account and returns it. store.ErrConflict if email taken.
func (s *Service) Register(dto *RegisterDTO) (*models.User, error) {
	u, err := s.users.Register(dto.Email, dto.Password, dto.Name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("new user registered", zap.String("email", u.Email))
	return u, nil
}

// Login verifies credentials and issues a fresh token, replacing any prior
// session for the user.
func (s *Service) Login(email, password string) (string, *models.User, error) {
	u, err := s.users.Authenticate(email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := jwtpkg.Sign(u.ID, u.Email, u.Name, u.Roles, s.ttl)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	s.sessions.Put(&models.Session{
		UserID:    u.ID,
		Token:     token,
		LoginTime: now,
		ExpiresAt: now.Add(s.ttl),
	})

	s.logger.Info("user logged in", zap.String("email", u.Email))
	return token, u, nil
}

// Validate checks signature, session presence and expiry. An expired session
// is purged as a side effect. This is the strict check used by the HTTP layer.
func (s *Service) Validate(token string) (*jwtpkg.Claims, error) {
	claims, err := jwtpkg.Parse(token)
	if err != nil {
		return nil, store.ErrInvalidSession
	}

	sess := s.sessions.Get(claims.UserID)
	if sess == nil || sess.Token != token {
		return nil, store.ErrInvalidSession
	}
	if sess.Expired(time.Now()) {
		s.sessions.Delete(claims.UserID)
		return nil, store.ErrSessionExpired
	}
	return claims, nil
}

// VerifyToken checks the token's signature and structural validity only,
// without requiring an active session entry. The signaling handshake trusts
// the token's cryptographic validity alone.
func (s *Service) VerifyToken(token string) (*jwtpkg.Claims, error) {
	return jwtpkg.Parse(token)
}

// Logout drops the active session. Idempotent.
func (s *Service) Logout(userID string) {
	s.sessions.Delete(userID)
	s.logger.Info("user logged out", zap.String("userId", userID))
}

// Profile returns the full profile view of an account.
func (s *Service) Profile(userID string) (*models.User, error) {
	return s.users.GetByID(userID)
}

// UpdateProfile applies a partial name/profile/settings update.
func (s *Service) UpdateProfile(userID string, dto *UpdateProfileDTO) (*models.User, error) {
	return s.users.UpdateProfile(userID, dto.Name, dto.Profile, dto.Settings)
}

// UpdateSettings merges settings and returns the resulting blob.
func (s *Service) UpdateSettings(userID string, settings map[string]interface{}) (map[string]interface{}, error) {
	return s.users.UpdateSettings(userID, settings)
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(userID, currentPassword, newPassword string) error {
	return s.users.ChangePassword(userID, currentPassword, newPassword)
}

// DeleteAccount removes the account and invalidates its session.
func (s *Service) DeleteAccount(userID string) error {
	if err := s.users.Delete(userID); err != nil {
		return err
	}
	s.sessions.Delete(userID)
	s.logger.Info("user account deleted", zap.String("userId", userID))
	return nil
}

// SweepExpired purges sessions past expiry; returns how many were removed.
func (s *Service) SweepExpired(now time.Time) int {
	return s.sessions.PurgeExpired(now)
}

// ActiveSessions returns the number of live sessions.
func (s *Service) ActiveSessions() int { return s.sessions.Len() }

// RegisteredUsers returns the number of accounts.
func (s *Service) RegisteredUsers() int { return s.users.Len() }
