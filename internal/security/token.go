package security

import (
	"crypto/rand"
	"crypto/sha3"
	"encoding/hex"
	"fmt"
)

// TokenBytes is the amount of entropy in a session token.
const TokenBytes = 32

// GenerateToken returns a new random session token as 64 lowercase hex characters.
func GenerateToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Fingerprint derives the storage key of a raw token using SHA3-256.
// The raw token cannot be recovered from it.
func Fingerprint(raw string) string {
	sum := sha3.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
