// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestHashIP(t *testing.T) {
	h1 := HashIP("192.168.1.1", "salt")
	h2 := HashIP("192.168.1.1", "salt")
	if h1 != h2 {
		t.Error("HashIP() should be deterministic")
	}
	if len(h1) != 16 {
		t.Errorf("HashIP() length = %d, want 16", len(h1))
	}
	if HashIP("192.168.1.2", "salt") == h1 {
		t.Error("different IPs should hash differently")
	}
	if HashIP("192.168.1.1", "other-salt") == h1 {
		t.Error("different salts should hash differently")
	}
}

func newTestChecker(t *testing.T) *StaticChecker {
	t.Helper()
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	checker, err := NewStaticChecker("admin", hash, "989464")
	if err != nil {
		t.Fatalf("NewStaticChecker() error = %v", err)
	}
	return checker
}

func TestStaticCheckerLogin(t *testing.T) {
	checker := newTestChecker(t)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid", "admin", "correct horse", nil},
		{"wrong password", "admin", "battery staple", ErrInvalidCredentials},
		{"wrong username", "root", "correct horse", ErrInvalidCredentials},
		{"empty", "", "", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checker.CheckLogin(tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckLogin() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStaticCheckerSecret(t *testing.T) {
	checker := newTestChecker(t)

	if err := checker.CheckSecret("989464"); err != nil {
		t.Errorf("CheckSecret(correct) error = %v", err)
	}
	if err := checker.CheckSecret("000000"); !errors.Is(err, ErrWrongSecret) {
		t.Errorf("CheckSecret(wrong) error = %v, want ErrWrongSecret", err)
	}
	if err := checker.CheckSecret(""); !errors.Is(err, ErrWrongSecret) {
		t.Errorf("CheckSecret(empty) error = %v, want ErrWrongSecret", err)
	}
}

func TestNewStaticCheckerValidation(t *testing.T) {
	hash, _ := HashPassword("pw")

	if _, err := NewStaticChecker("", hash, "secret"); err == nil {
		t.Error("expected error for empty username")
	}
	if _, err := NewStaticChecker("admin", hash, ""); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := NewStaticChecker("admin", "plaintext", "secret"); err == nil {
		t.Error("expected error for non-argon2id hash")
	}
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error hashing empty password")
	}
}

func TestSessions(t *testing.T) {
	sessions, err := NewSessions("session-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewSessions() error = %v", err)
	}

	token, expiresAt, err := sessions.Issue("admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("expiry should be in the future")
	}

	claims, err := sessions.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("Username = %q, want admin", claims.Username)
	}
	if claims.ID == "" {
		t.Error("expected a token ID")
	}
}

func TestSessionsRejectsInvalidTokens(t *testing.T) {
	sessions, _ := NewSessions("session-secret", time.Hour)
	other, _ := NewSessions("other-secret", time.Hour)

	foreign, _, _ := other.Issue("admin")

	expired, _ := NewSessions("session-secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, _ := expired.Issue("admin")

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{Username: "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", foreign},
		{"expired", stale},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sessions.Parse(tt.token); !errors.Is(err, ErrInvalidSession) {
				t.Errorf("Parse() error = %v, want ErrInvalidSession", err)
			}
		})
	}
}

func TestNewSessionsValidation(t *testing.T) {
	if _, err := NewSessions("", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := NewSessions("secret", 0); err == nil {
		t.Error("expected error for zero TTL")
	}
}
