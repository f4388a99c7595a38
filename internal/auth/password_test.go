package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Password123!")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !VerifyPassword("Password123!", hash) {
		t.Fatalf("expected VerifyPassword to succeed")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Fatalf("expected VerifyPassword to fail for wrong password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if VerifyPassword("Password123!", "invalid-hash-format") {
		t.Fatalf("expected verification failure for malformed hash")
	}
}
