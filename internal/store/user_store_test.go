package store

import (
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	s := NewUserStore()

	u, err := s.Register("alice@example.com", "s3cret-pass", "Alice")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if u.ID == "" {
		t.Error("expected generated id")
	}
	if u.Password == "s3cret-pass" {
		t.Fatal("password must never be stored in plaintext")
	}
	if u.Settings["theme"] != "light" {
		t.Errorf("expected default settings, got %v", u.Settings)
	}

	got, err := s.Authenticate("alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("expected user %s, got %s", u.ID, got.ID)
	}
}

func TestRegisterConflict(t *testing.T) {
	s := NewUserStore()
	if _, err := s.Register("alice@example.com", "s3cret-pass", "Alice"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := s.Register("Alice@Example.com", "other-pass", "Alice2")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	s := NewUserStore()
	s.Register("alice@example.com", "s3cret-pass", "Alice")

	_, errUnknown := s.Authenticate("nobody@example.com", "whatever")
	_, errWrongPw := s.Authenticate("alice@example.com", "wrong")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Error("failure modes must be indistinguishable to the caller")
	}
}

func TestChangePassword(t *testing.T) {
	s := NewUserStore()
	u, _ := s.Register("alice@example.com", "old-password", "Alice")

	if err := s.ChangePassword(u.ID, "wrong", "new-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}
	if err := s.ChangePassword(u.ID, "old-password", "new-password"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, err := s.Authenticate("alice@example.com", "old-password"); err == nil {
		t.Error("old password must no longer verify")
	}
	if _, err := s.Authenticate("alice@example.com", "new-password"); err != nil {
		t.Errorf("new password must verify: %v", err)
	}
	if err := s.ChangePassword("missing-id", "x", "y"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfileMerges(t *testing.T) {
	s := NewUserStore()
	u, _ := s.Register("alice@example.com", "s3cret-pass", "Alice")

	name := "Alice B"
	updated, err := s.UpdateProfile(u.ID, &name,
		map[string]interface{}{"bio": "hello"},
		map[string]interface{}{"theme": "dark"},
	)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Alice B" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if updated.Profile["bio"] != "hello" || updated.Profile["title"] != "" {
		t.Errorf("profile must merge, not replace: %v", updated.Profile)
	}
	if updated.Settings["theme"] != "dark" || updated.Settings["language"] != "en" {
		t.Errorf("settings must merge, not replace: %v", updated.Settings)
	}

	if _, err := s.UpdateProfile("missing-id", nil, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	s := NewUserStore()
	u, _ := s.Register("alice@example.com", "s3cret-pass", "Alice")

	if err := s.Delete(u.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.GetByID(u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}
