package notes

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/DibasDebnath/SimpleNotesBackend/internal/auth"
)

// KeyResolver picks the symmetric key used for a user's notes: the user's
// own key when the account has one, otherwise the process-wide fallback key
// injected at construction. No format validation happens here; a malformed
// key surfaces as a cipher failure downstream.
type KeyResolver struct {
	fallback string
}

func NewKeyResolver(fallbackHex string) *KeyResolver {
	return &KeyResolver{fallback: fallbackHex}
}

func (r *KeyResolver) Resolve(u *auth.User) string {
	if u != nil && u.UserKey != "" {
		return u.UserKey
	}
	return r.fallback
}

// GenerateKey returns a fresh random 256-bit key as 64 hex characters.
func GenerateKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
