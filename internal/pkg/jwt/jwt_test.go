package jwt

import (
	"strings"
	"testing"
	"time"
)

func TestSignParseRoundTrip(t *testing.T) {
	token, err := Sign("u1", "alice@example.com", "Alice", []string{"user"}, time.Hour)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	claims, err := Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "alice@example.com" || claims.Name != "Alice" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "user" {
		t.Errorf("unexpected roles: %v", claims.Roles)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := Sign("u1", "alice@example.com", "Alice", nil, -time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := Parse(token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseRejectsTampered(t *testing.T) {
	token, err := Sign("u1", "alice@example.com", "Alice", nil, time.Hour)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)
	if _, err := Parse(tampered); err == nil {
		t.Fatal("expected tampered token to fail")
	}

	if _, err := Parse("garbage"); err == nil {
		t.Fatal("expected garbage to fail")
	}
}
