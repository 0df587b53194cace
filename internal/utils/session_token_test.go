package utils

import (
	"strings"
	"testing"
)

func TestNewSessionToken(t *testing.T) {
	a, err := NewSessionToken()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if len(a) != 32 {
		t.Fatalf("token length = %d, want 32", len(a))
	}
	b, err := NewSessionToken()
	if err != nil {
		t.Fatalf("second token: %v", err)
	}
	if a == b {
		t.Fatalf("two tokens collided")
	}
}

func TestSignAndVerifyToken(t *testing.T) {
	const secret = "test-secret"
	token, err := NewSessionToken()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	signed := SignToken(secret, token)
	if !strings.HasPrefix(signed, token+".") {
		t.Fatalf("signed value does not start with token: %q", signed)
	}

	got, ok := VerifySignedToken(secret, signed)
	if !ok || got != token {
		t.Fatalf("verify = (%q, %v), want (%q, true)", got, ok, token)
	}

	if _, ok := VerifySignedToken("other-secret", signed); ok {
		t.Fatalf("signature verified under wrong secret")
	}
	if _, ok := VerifySignedToken(secret, token+".deadbeef"); ok {
		t.Fatalf("tampered signature verified")
	}
	if _, ok := VerifySignedToken(secret, token); ok {
		t.Fatalf("value without signature verified")
	}
	if _, ok := VerifySignedToken(secret, "."); ok {
		t.Fatalf("empty token verified")
	}
}
