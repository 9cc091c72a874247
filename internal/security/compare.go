package security

import (
	"crypto/sha256"
	"crypto/subtle"
)

// Comparator checks two secrets for equality without leaking their content
// or length through timing.
type Comparator interface {
	Equal(a, b string) bool
}

// DigestComparator is the default Comparator backed by ConstantTimeEqual.
type DigestComparator struct{}

// Equal implements Comparator.
func (DigestComparator) Equal(a, b string) bool {
	return ConstantTimeEqual([]byte(a), []byte(b))
}

// ConstantTimeEqual reports whether a and b are equal. Both operands are
// reduced to a fixed-size SHA-256 digest first so that inputs of different
// lengths take the same time to compare.
func ConstantTimeEqual(a, b []byte) bool {
	da := sha256.Sum256(a)
	db := sha256.Sum256(b)
	return subtle.ConstantTimeCompare(da[:], db[:]) == 1
}
