package utils

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-for-jwt")

	token, err := GenerateToken(42, "kage", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Username != "kage" {
		t.Errorf("username = %q, want kage", claims.Username)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-for-jwt")

	token, err := GenerateToken(7, "old", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-for-jwt")

	if _, err := ParseToken("definitely.not.ajwt"); err == nil {
		t.Error("garbage token accepted")
	}
}
