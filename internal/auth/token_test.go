package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	raw, err := tokens.Issue("64f0c2a4e7b11a0001234567", "jane@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := tokens.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "64f0c2a4e7b11a0001234567" {
		t.Fatalf("unexpected user id %q", claims.UserID)
	}
	if claims.Email != "jane@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := NewTokens("secret-a", time.Hour).Issue("id", "a@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokens("secret-b", time.Hour).Verify(raw); err == nil {
		t.Fatal("expected verification to fail with a different secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	tokens := NewTokens("test-secret", -time.Minute)
	raw, err := tokens.Issue("id", "a@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := tokens.Verify(raw); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	if _, err := tokens.Verify("not.a.token"); err == nil {
		t.Fatal("expected garbage token to fail verification")
	}
}
