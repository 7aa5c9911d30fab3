package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "correct-horse" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "correct-horse") {
		t.Error("valid password rejected")
	}
	if CheckPassword(hash, "wrong-battery") {
		t.Error("invalid password accepted")
	}
}

func TestCheckPasswordGarbageHash(t *testing.T) {
	if CheckPassword("not-a-bcrypt-hash", "anything") {
		t.Error("garbage hash accepted")
	}
}
