package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return ts
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Error("expected error for short secret, got nil")
	}
}

func TestGenerateAndValidate(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// JWTs are three dot-separated base64 segments.
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	userID, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("Validate() userID = %q, want %q", userID, "user-123")
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateWithDuration("user-123", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	if _, err := ts.Validate(token); err == nil {
		t.Error("expected error for expired token, got nil")
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Flip a character in the payload segment — the signature no longer matches.
	tampered := token[:len(token)/2] + "x" + token[len(token)/2+1:]
	if _, err := ts.Validate(tampered); err == nil {
		t.Error("expected error for tampered token, got nil")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ts := newTestTokenService(t)
	other, err := NewTokenService("a-completely-different-secret")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, err := ts.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := other.Validate(token); err == nil {
		t.Error("expected error when validating with a different secret, got nil")
	}
}

func TestValidate_Garbage(t *testing.T) {
	ts := newTestTokenService(t)

	tests := []string{"", "not.a.jwt", "aaaa.bbbb.cccc"}
	for _, tokenStr := range tests {
		if _, err := ts.Validate(tokenStr); err == nil {
			t.Errorf("Validate(%q) expected error, got nil", tokenStr)
		}
	}
}
