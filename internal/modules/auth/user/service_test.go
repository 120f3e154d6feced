package user

import (
	"errors"
	"testing"
	"time"

	"github.com/veilcall/core/internal/models"
	"github.com/veilcall/core/internal/store"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *store.SessionStore) {
	t.Helper()
	sessions := store.NewSessionStore()
	svc := NewService(store.NewUserStore(), sessions, 24*time.Hour, zap.NewNop())
	return svc, sessions
}

func register(t *testing.T, svc *Service, email, name string) {
	t.Helper()
	_, err := svc.Register(&RegisterDTO{Email: email, Password: "correct-horse", Name: name})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
}

func TestLoginIssuesValidatableToken(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "alice@example.com", "Alice")

	token, u, err := svc.Login("alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != u.ID || claims.Email != "alice@example.com" || claims.Name != "Alice" {
		t.Errorf("claims must round-trip the user summary: %+v", claims)
	}
}

func TestSecondLoginInvalidatesFirstSession(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "alice@example.com", "Alice")

	first, _, err := svc.Login("alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	// tokens embed issued-at with second precision; make sure the second
	// login produces a distinct token
	time.Sleep(1100 * time.Millisecond)
	second, _, err := svc.Login("alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct tokens")
	}

	if _, err := svc.Validate(first); !errors.Is(err, store.ErrInvalidSession) {
		t.Errorf("first token must be invalid after re-login, got %v", err)
	}
	if _, err := svc.Validate(second); err != nil {
		t.Errorf("second token must stay valid: %v", err)
	}
}

func TestValidateExpiredSessionPurges(t *testing.T) {
	svc, sessions := newTestService(t)
	register(t, svc, "alice@example.com", "Alice")

	token, u, err := svc.Login("alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	// age the session past its expiry without touching the token itself
	sessions.Put(&models.Session{
		UserID:    u.ID,
		Token:     token,
		LoginTime: time.Now().Add(-25 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	})

	if _, err := svc.Validate(token); !errors.Is(err, store.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if sessions.Get(u.ID) != nil {
		t.Error("expired session must be purged as a side effect of validate")
	}
}

func TestValidateRejectsGarbageToken(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Validate("not-a-token"); !errors.Is(err, store.ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
}

func TestVerifyTokenIgnoresSessionState(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "alice@example.com", "Alice")

	token, u, err := svc.Login("alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	svc.Logout(u.ID)

	// the handshake check trusts the signature alone
	if _, err := svc.VerifyToken(token); err != nil {
		t.Errorf("signature-only verification must still pass: %v", err)
	}
	if _, err := svc.Validate(token); !errors.Is(err, store.ErrInvalidSession) {
		t.Errorf("strict validation must fail after logout, got %v", err)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "alice@example.com", "Alice")
	_, u, _ := svc.Login("alice@example.com", "correct-horse")

	svc.Logout(u.ID)
	svc.Logout(u.ID)
	svc.Logout("never-logged-in")

	if svc.ActiveSessions() != 0 {
		t.Errorf("expected no active sessions, got %d", svc.ActiveSessions())
	}
}

func TestSweepExpired(t *testing.T) {
	svc, sessions := newTestService(t)
	now := time.Now()
	sessions.Put(&models.Session{UserID: "u1", Token: "t1", ExpiresAt: now.Add(-time.Minute)})
	sessions.Put(&models.Session{UserID: "u2", Token: "t2", ExpiresAt: now.Add(time.Hour)})

	if purged := svc.SweepExpired(now); purged != 1 {
		t.Errorf("expected 1 purged, got %d", purged)
	}
	if svc.ActiveSessions() != 1 {
		t.Errorf("expected 1 surviving session, got %d", svc.ActiveSessions())
	}
}

func TestDeleteAccountInvalidatesSession(t *testing.T) {
	svc, sessions := newTestService(t)
	register(t, svc, "alice@example.com", "Alice")
	_, u, _ := svc.Login("alice@example.com", "correct-horse")

	if err := svc.DeleteAccount(u.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if sessions.Get(u.ID) != nil {
		t.Error("deleting the account must drop its session")
	}
	if _, err := svc.Profile(u.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
