package auth

import (
	"strings"
	"testing"
)

const testSecret = "test-secret-at-least-16-chars"

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Error("NewTokenService() should reject a secret under 16 characters")
	}
}

func TestGenerateValidate(t *testing.T) {
	svc, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, err := svc.Generate("sess-abc123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	sessionID, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if sessionID != "sess-abc123" {
		t.Errorf("Validate() = %q, want %q", sessionID, "sess-abc123")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	svc1, _ := NewTokenService(testSecret)
	svc2, _ := NewTokenService("another-secret-16-chars-long")

	token, err := svc1.Generate("sess-1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := svc2.Validate(token); err == nil {
		t.Error("Validate() should reject a token signed with a different secret")
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	svc, _ := NewTokenService(testSecret)

	token, err := svc.Generate("sess-1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := svc.Validate(tampered); err == nil {
		t.Error("Validate() should reject a tampered token")
	}
}

func TestValidate_Garbage(t *testing.T) {
	svc, _ := NewTokenService(testSecret)
	if _, err := svc.Validate("not-a-jwt"); err == nil {
		t.Error("Validate() should reject a malformed token")
	}
}
