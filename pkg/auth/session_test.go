package auth

import (
	"strings"
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	a, err := NewSessionAuth("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionAuth: %v", err)
	}

	token, err := a.GenerateSessionToken("user-1", "admin@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	user, err := a.VerifySessionToken(token)
	if err != nil {
		t.Fatalf("VerifySessionToken: %v", err)
	}
	if user.ID != "user-1" || user.Email != "admin@example.com" || user.Role != "admin" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestVerifySessionTokenRejectsBadInput(t *testing.T) {
	a, _ := NewSessionAuth("test-secret", time.Hour)

	if _, err := a.VerifySessionToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}

	other, _ := NewSessionAuth("other-secret", time.Hour)
	token, _ := other.GenerateSessionToken("user-1", "a@b.c", "admin")
	if _, err := a.VerifySessionToken(token); err == nil {
		t.Error("expected error for token signed with a different key")
	}

	expired, _ := NewSessionAuth("test-secret", -time.Hour)
	token, _ = expired.GenerateSessionToken("user-1", "a@b.c", "admin")
	if _, err := a.VerifySessionToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestNewSessionAuthRequiresSecret(t *testing.T) {
	if _, err := NewSessionAuth("", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"bearer", "Bearer abc123", "abc123", false},
		{"case insensitive scheme", "bearer abc123", "abc123", false},
		{"empty", "", "", true},
		{"no scheme", "abc123", "", true},
		{"empty token", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractToken(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery")
	if err != nil || !ok {
		t.Errorf("VerifyPassword(correct) = %v, %v; want true, nil", ok, err)
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword(wrong): %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}

	if _, err := VerifyPassword("plainhash", "x"); err == nil {
		t.Error("expected error for malformed stored hash")
	}
}
