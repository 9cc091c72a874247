package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Memory      = 64 * 1024
	argon2Iterations  = 2
	argon2Parallelism = 2
	argon2SaltLength  = 16
	argon2KeyLength   = 32
)

// ErrInvalidHash is returned when an encoded hash is not in argon2id PHC format.
var ErrInvalidHash = errors.New("invalid argon2id hash")

// HashPassword hashes a password using Argon2id and returns the PHC encoded string.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argon2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Iterations, argon2Memory, argon2Parallelism, argon2KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Iterations, argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// ValidateHash checks that encodedHash can be used by VerifyPassword.
func ValidateHash(encodedHash string) error {
	_, _, err := decodeHash(encodedHash)
	return err
}

// VerifyPassword verifies a password against an Argon2id hash
func VerifyPassword(password, encodedHash string) bool {
	p, hash, err := decodeHash(encodedHash)
	if err != nil {
		return false
	}

	other := argon2.IDKey([]byte(password), p.salt, p.iterations, p.memory, p.parallelism, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, other) == 1
}

type argonParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
}

func decodeHash(encodedHash string) (*argonParams, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, ErrInvalidHash
	}

	p := &argonParams{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return nil, nil, ErrInvalidHash
	}
	if p.iterations == 0 || p.parallelism == 0 {
		return nil, nil, ErrInvalidHash
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, ErrInvalidHash
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return nil, nil, ErrInvalidHash
	}

	return p, hash, nil
}
