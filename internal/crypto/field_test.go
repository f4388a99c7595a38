package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"
)

func randKey(t *testing.T) string {
	t.Helper()
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	return hex.EncodeToString(b)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := randKey(t)
	for _, pt := range []string{"", "a", "hello world", strings.Repeat("x", 1000), "unicode ✓ тест"} {
		ct, err := EncryptField(pt, key)
		if err != nil {
			t.Fatalf("encrypt %q: %v", pt, err)
		}
		if got := DecryptField(ct, key); got != pt {
			t.Fatalf("round trip mismatch: got %q want %q", got, pt)
		}
	}
}

func TestEncryptFieldFormat(t *testing.T) {
	key := randKey(t)
	ct, err := EncryptField("note body", key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	ivHex, ctHex, found := strings.Cut(ct, ":")
	if !found {
		t.Fatalf("missing separator in %q", ct)
	}
	if len(ivHex) != 32 {
		t.Fatalf("iv hex length = %d, want 32", len(ivHex))
	}
	if _, err := hex.DecodeString(ctHex); err != nil {
		t.Fatalf("ciphertext not hex: %v", err)
	}
}

func TestEncryptFreshIV(t *testing.T) {
	key := randKey(t)
	ct1, err := EncryptField("same plaintext", key)
	if err != nil {
		t.Fatalf("encrypt1: %v", err)
	}
	ct2, err := EncryptField("same plaintext", key)
	if err != nil {
		t.Fatalf("encrypt2: %v", err)
	}
	if ct1 == ct2 {
		t.Fatal("expected distinct ciphertext for repeated encryptions")
	}
	if DecryptField(ct1, key) != "same plaintext" || DecryptField(ct2, key) != "same plaintext" {
		t.Fatal("both ciphertexts must decrypt to the original plaintext")
	}
}

func TestDecryptFailsOpen(t *testing.T) {
	key := randKey(t)
	for _, in := range []string{
		"not-a-valid-encoded-field",
		"plain legacy note written before encryption",
		"",
		"zz:zz",
		"deadbeef:deadbeef",                     // iv too short
		strings.Repeat("00", 16) + ":" + "0102", // ct not block aligned
	} {
		if got := DecryptField(in, key); got != in {
			t.Fatalf("DecryptField(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestDecryptWrongKeyNeverPanics(t *testing.T) {
	k1, k2 := randKey(t), randKey(t)
	ct, err := EncryptField("secret", k1)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	// Wrong key yields either passthrough or garbage, never an error.
	got := DecryptField(ct, k2)
	if got == "secret" {
		t.Fatal("wrong key should not recover the plaintext")
	}
}

func TestEncryptRejectsBadKey(t *testing.T) {
	if _, err := EncryptField("x", "too-short"); err == nil {
		t.Fatal("expected error for malformed key")
	}
	if _, err := EncryptField("x", strings.Repeat("0", 63)); err == nil {
		t.Fatal("expected error for odd-length key")
	}
}

func FuzzDecryptFieldFailOpen(f *testing.F) {
	f.Add("not-encrypted")
	f.Add("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa:bbbb")
	f.Add(":")
	f.Fuzz(func(t *testing.T, field string) {
		key := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
		out := DecryptField(field, key)
		// Anything that is not a valid ciphertext must pass through untouched.
		if _, err := decryptField(field, key); err != nil && out != field {
			t.Fatalf("failed decrypt mutated the input: %q -> %q", field, out)
		}
	})
}
